// Package testutil provides shared test doubles for Scribe's component
// interfaces, for use by packages that need to exercise the session
// Controller or daemon wiring without spawning real subprocesses.
package testutil

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leonardotrapani/scribe/internal/audio"
	"github.com/leonardotrapani/scribe/internal/config"
	"github.com/leonardotrapani/scribe/internal/transcriber"
)

// TestConfig returns a valid Config with every section populated, suitable
// as a baseline for tests that only need to tweak one field.
func TestConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Transcription.APIKeyEnv = "SCRIBE_TEST_API_KEY"
	return cfg
}

// MockAudioSource implements session.AudioSource. Frames queued in Frames
// are delivered in order after Start; StartError makes Start fail.
type MockAudioSource struct {
	Frames     []audio.Frame
	StartError error

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
}

func NewMockAudioSource(frames ...audio.Frame) *MockAudioSource {
	return &MockAudioSource{Frames: frames}
}

func (m *MockAudioSource) Start(ctx context.Context) (<-chan audio.Frame, <-chan error, error) {
	if m.StartError != nil {
		return nil, nil, m.StartError
	}

	m.mu.Lock()
	m.started = true
	m.stopCh = make(chan struct{})
	stopCh := m.stopCh
	m.mu.Unlock()

	frameCh := make(chan audio.Frame, len(m.Frames)+1)
	errCh := make(chan error, 1)

	go func() {
		defer close(frameCh)
		for _, f := range m.Frames {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case frameCh <- f:
			}
		}
		select {
		case <-ctx.Done():
		case <-stopCh:
		}
	}()

	return frameCh, errCh, nil
}

func (m *MockAudioSource) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return nil
	}
	m.started = false
	close(m.stopCh)
	return nil
}

func (m *MockAudioSource) IsRecording() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// MockTranscriber implements transcriber.Transcriber with a canned result.
type MockTranscriber struct {
	Result transcriber.Result
	Delay  time.Duration

	calls atomic.Int32
}

func NewMockTranscriber(text string) *MockTranscriber {
	return &MockTranscriber{Result: transcriber.Result{Text: text}}
}

func (m *MockTranscriber) Transcribe(ctx context.Context, req transcriber.Request) transcriber.Result {
	m.calls.Add(1)
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return transcriber.Result{Err: ctx.Err()}
		}
	}
	return m.Result
}

func (m *MockTranscriber) Close() error { return nil }

func (m *MockTranscriber) Calls() int { return int(m.calls.Load()) }

// MockInjector implements injection.Injector, recording every injected
// string for assertions.
type MockInjector struct {
	InjectError error

	mu      sync.Mutex
	injected []string
	closed   bool
}

func NewMockInjector() *MockInjector {
	return &MockInjector{}
}

func (m *MockInjector) Inject(ctx context.Context, text string) error {
	if m.InjectError != nil {
		return m.InjectError
	}
	m.mu.Lock()
	m.injected = append(m.injected, text)
	m.mu.Unlock()
	return nil
}

func (m *MockInjector) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

func (m *MockInjector) Injected() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.injected))
	copy(out, m.injected)
	return out
}

func (m *MockInjector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
