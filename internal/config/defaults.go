package config

// DefaultConfig returns the configuration used when no config file exists,
// and as the base that a partially-specified file is merged onto.
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate: 16000,
			Device:     "",
		},
		VAD: VADConfig{
			Aggressiveness: 2,
			SilenceMS:      500,
			MinDurationMS:  300,
			SkipInitialMS:  0,
		},
		Transcription: TranscriptionConfig{
			Backend:       "local",
			Model:         "base",
			Device:        "cpu",
			Language:      "",
			InitialPrompt: "",
			APIKeyEnv:     "OPENAI_API_KEY",
			APIModel:      "whisper-1",
			APITimeoutSec: 30,
		},
		Injection: InjectionConfig{
			Method:  "dotool",
			DelayMS: 8,
		},
		Notifications: NotificationsConfig{
			EnableStatus:  true,
			EnableErrors:  true,
			ShowPreview:   true,
			PreviewLength: 80,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}
