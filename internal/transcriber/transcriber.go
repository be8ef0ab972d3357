// Package transcriber converts a finalized Utterance into text, either
// with an in-process local Whisper model or a remote HTTPS API.
package transcriber

import (
	"context"
	"fmt"

	"github.com/leonardotrapani/scribe/internal/utterance"
)

// Request carries everything a backend needs to transcribe one utterance.
type Request struct {
	Utterance     utterance.Utterance
	Language      string // ISO-639-1, empty = auto-detect
	InitialPrompt string
}

// Result is the outcome of a transcription attempt.
type Result struct {
	Text string
	Err  error
}

// Transcriber is the common contract for both backend variants. It may
// take seconds and must be cancellable: implementations check ctx between
// major steps and return promptly with a Cancelled result when ctx is
// done.
type Transcriber interface {
	Transcribe(ctx context.Context, req Request) Result
	// Close releases any resident resources (e.g. a loaded model).
	Close() error
}

// Backend selects which Transcriber variant New constructs.
type Backend string

const (
	BackendLocal  Backend = "local"
	BackendOpenAI Backend = "openai"
)

// Config configures whichever backend is selected.
type Config struct {
	Backend Backend

	// Local
	ModelPath string
	Threads   int

	// Remote (OpenAI-compatible)
	APIKey     string
	APIModel   string
	APIBaseURL string
	APITimeout int // seconds, 0 = default 30s

	Language      string
	InitialPrompt string
}

func DefaultConfig() Config {
	return Config{
		Backend:    BackendLocal,
		Threads:    0,
		APIModel:   "whisper-1",
		APITimeout: 30,
	}
}

// New constructs the configured Transcriber variant.
func New(cfg Config) (Transcriber, error) {
	switch cfg.Backend {
	case BackendOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("transcriber: OpenAI API key required")
		}
		return NewRemote(cfg), nil
	case BackendLocal, "":
		return NewLocal(cfg), nil
	default:
		return nil, fmt.Errorf("transcriber: unsupported backend %q", cfg.Backend)
	}
}
