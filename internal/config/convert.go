package config

import (
	"os"

	"github.com/leonardotrapani/scribe/internal/audio"
	"github.com/leonardotrapani/scribe/internal/injection"
	"github.com/leonardotrapani/scribe/internal/transcriber"
	"github.com/leonardotrapani/scribe/internal/vad"
)

func (c *Config) ToAudioConfig() audio.Config {
	cfg := audio.DefaultConfig()
	cfg.Device = c.Audio.Device
	return cfg
}

func (c *Config) ToVADConfig() vad.Config {
	cfg := vad.DefaultConfig()
	cfg.Aggressiveness = c.VAD.Aggressiveness
	cfg.SilenceMS = c.VAD.SilenceMS
	cfg.MinDurationMS = c.VAD.MinDurationMS
	cfg.SkipInitialMS = c.VAD.SkipInitialMS
	return cfg
}

func (c *Config) ToTranscriberConfig(modelPath string) transcriber.Config {
	cfg := transcriber.DefaultConfig()
	cfg.Backend = transcriber.Backend(c.Transcription.Backend)
	cfg.ModelPath = modelPath
	cfg.Language = c.Transcription.Language
	cfg.InitialPrompt = c.Transcription.InitialPrompt
	cfg.APIModel = c.Transcription.APIModel
	cfg.APITimeout = c.Transcription.APITimeoutSec
	if keyEnv := c.Transcription.APIKeyEnv; keyEnv != "" {
		cfg.APIKey = os.Getenv(keyEnv)
	}
	return cfg
}

func (c *Config) ToInjectionConfig() injection.Config {
	return injection.Config{DelayMS: c.Injection.DelayMS}
}
