package transcriber

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/leonardotrapani/scribe/internal/logging"
	"github.com/leonardotrapani/scribe/internal/scribeerr"
	"github.com/leonardotrapani/scribe/internal/utterance"
)

const retryDelay = 500 * time.Millisecond

// Remote uploads a WAV-encoded utterance to an OpenAI-compatible HTTPS
// transcription endpoint. Grounded on adapter_openai.go's use of
// github.com/sashabaranov/go-openai, generalized with the retry and
// timeout policy of spec.md §4.4.
type Remote struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewRemote(cfg Config) *Remote {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIBaseURL != "" {
		clientCfg.BaseURL = cfg.APIBaseURL
	}

	timeout := time.Duration(cfg.APITimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Remote{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   orDefault(cfg.APIModel, "whisper-1"),
		timeout: timeout,
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func (r *Remote) Transcribe(ctx context.Context, req Request) Result {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// ctxEnded reports Timeout once the configured total timeout has
	// passed, and Cancelled when the caller cancelled the request.
	ctxEnded := func() Result {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{Err: scribeerr.Wrap(scribeerr.KindTimeout, ctx.Err())}
		}
		return Result{Err: scribeerr.Wrap(scribeerr.KindCancelled, ctx.Err())}
	}

	wav := utterance.EncodeWAV(req.Utterance)

	text, err := r.attempt(ctx, wav, req)
	if err == nil {
		return Result{Text: text}
	}
	if ctx.Err() != nil {
		return ctxEnded()
	}
	if isNonRetryable(err) {
		return Result{Err: classify(err)}
	}

	logging.Warnf("transcriber(remote): attempt failed, retrying once in %v: %v", retryDelay, err)
	select {
	case <-ctx.Done():
		return ctxEnded()
	case <-time.After(retryDelay):
	}

	text, err = r.attempt(ctx, wav, req)
	if err != nil {
		if ctx.Err() != nil {
			return ctxEnded()
		}
		return Result{Err: classify(err)}
	}
	return Result{Text: text}
}

func (r *Remote) attempt(ctx context.Context, wav []byte, req Request) (string, error) {
	areq := openai.AudioRequest{
		Model:    r.model,
		Reader:   bytes.NewReader(wav),
		FilePath: "utterance.wav",
		Language: req.Language,
		Prompt:   req.InitialPrompt,
	}

	resp, err := r.client.CreateTranscription(ctx, areq)
	if err != nil {
		return "", wrapAPIErr(err)
	}
	return resp.Text, nil
}

// wrapAPIErr marks 4xx responses and auth failures as non-retryable per
// spec.md §4.4's "no retry on 4xx" rule; everything else (connection
// reset, 5xx, timeouts) is left retryable.
func wrapAPIErr(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403 {
			return nonRetryable(fmt.Errorf("%w", err))
		}
		if apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500 {
			return nonRetryable(fmt.Errorf("%w", err))
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return err
	}

	return err
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403:
			return scribeerr.Wrap(scribeerr.KindAuthFailed, err)
		case apiErr.HTTPStatusCode == 429:
			return scribeerr.Wrap(scribeerr.KindQuotaExceeded, err)
		case apiErr.HTTPStatusCode >= 500:
			return scribeerr.Wrap(scribeerr.KindNetworkError, err)
		default:
			return scribeerr.Wrap(scribeerr.KindBadResponse, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return scribeerr.Wrap(scribeerr.KindTimeout, err)
		}
		return scribeerr.Wrap(scribeerr.KindNetworkError, err)
	}

	return scribeerr.Wrap(scribeerr.KindNetworkError, err)
}

func (r *Remote) Close() error { return nil }
