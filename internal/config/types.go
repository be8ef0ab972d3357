// Package config loads and hot-reloads Scribe's TOML configuration file,
// and converts it into the per-component configs the daemon wires up.
package config

// Config is the decoded shape of ~/.config/scribe/config.toml.
type Config struct {
	Audio         AudioConfig         `toml:"audio"`
	VAD           VADConfig           `toml:"vad"`
	Transcription TranscriptionConfig `toml:"transcription"`
	Injection     InjectionConfig     `toml:"injection"`
	Notifications NotificationsConfig `toml:"notifications"`
	Logging       LoggingConfig       `toml:"logging"`
}

type AudioConfig struct {
	SampleRate int    `toml:"sample_rate"`
	Device     string `toml:"device"`
}

type VADConfig struct {
	Aggressiveness int `toml:"aggressiveness"`
	SilenceMS      int `toml:"silence_ms"`
	MinDurationMS  int `toml:"min_duration_ms"`
	SkipInitialMS  int `toml:"skip_initial_ms"`
}

type TranscriptionConfig struct {
	Backend       string `toml:"backend"` // "local" | "openai"
	Model         string `toml:"model"`   // "tiny"|"base"|"small"|"medium" (each also ".en"), or "large-v3"
	Device        string `toml:"device"`  // "cpu"|"cuda"|"auto"
	Language      string `toml:"language"`
	InitialPrompt string `toml:"initial_prompt"`
	APIKeyEnv     string `toml:"api_key_env"`
	APIModel      string `toml:"api_model"`
	APITimeoutSec int    `toml:"api_timeout_secs"`
}

type InjectionConfig struct {
	Method  string `toml:"method"` // "dotool"
	DelayMS int    `toml:"delay_ms"`
}

type NotificationsConfig struct {
	EnableStatus  bool `toml:"enable_status"`
	EnableErrors  bool `toml:"enable_errors"`
	ShowPreview   bool `toml:"show_preview"`
	PreviewLength int  `toml:"preview_length"`
}

type LoggingConfig struct {
	Level string `toml:"level"` // "debug"|"info"|"warn"|"error"
	File  string `toml:"file"`
}
