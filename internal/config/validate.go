package config

import (
	"fmt"

	"github.com/leonardotrapani/scribe/internal/scribeerr"
)

// Validate checks invariants the TOML decoder can't enforce on its own.
// Config errors at startup are fatal (spec.md §7), so callers should treat
// a non-nil error here as unrecoverable.
func (c *Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return scribeerr.New(scribeerr.KindConfigInvalid, "audio.sample_rate must be positive")
	}

	if c.VAD.Aggressiveness < 0 || c.VAD.Aggressiveness > 3 {
		return scribeerr.New(scribeerr.KindConfigInvalid, fmt.Sprintf("vad.aggressiveness must be 0..3, got %d", c.VAD.Aggressiveness))
	}
	if c.VAD.SilenceMS < 0 || c.VAD.MinDurationMS < 0 || c.VAD.SkipInitialMS < 0 {
		return scribeerr.New(scribeerr.KindConfigInvalid, "vad durations must be non-negative")
	}

	switch c.Transcription.Backend {
	case "local", "openai":
	default:
		return scribeerr.New(scribeerr.KindConfigInvalid, fmt.Sprintf("transcription.backend must be local or openai, got %q", c.Transcription.Backend))
	}
	switch c.Transcription.Model {
	case "tiny", "tiny.en", "base", "base.en", "small", "small.en", "medium", "medium.en", "large-v3", "":
	default:
		return scribeerr.New(scribeerr.KindConfigInvalid, fmt.Sprintf("transcription.model %q not recognized", c.Transcription.Model))
	}
	if c.Transcription.APITimeoutSec < 0 {
		return scribeerr.New(scribeerr.KindConfigInvalid, "transcription.api_timeout_secs must be non-negative")
	}

	if c.Injection.Method != "dotool" {
		return scribeerr.New(scribeerr.KindConfigInvalid, fmt.Sprintf("injection.method must be dotool, got %q", c.Injection.Method))
	}
	if c.Injection.DelayMS < 0 || c.Injection.DelayMS > 100 {
		return scribeerr.New(scribeerr.KindConfigInvalid, "injection.delay_ms must be 0..100")
	}

	if c.Notifications.PreviewLength < 0 {
		return scribeerr.New(scribeerr.KindConfigInvalid, "notifications.preview_length must be non-negative")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error", "":
	default:
		return scribeerr.New(scribeerr.KindConfigInvalid, fmt.Sprintf("logging.level %q not recognized", c.Logging.Level))
	}

	return nil
}
