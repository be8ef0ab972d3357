package transcriber

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/leonardotrapani/scribe/internal/logging"
	"github.com/leonardotrapani/scribe/internal/scribeerr"
)

// Local holds a lazily-initialized, resident Whisper model and transcribes
// utterances in-process. Grounded on whisper.Model/whisper.Context's
// segment-iteration API.
type Local struct {
	modelPath string
	threads   int

	mu    sync.Mutex
	model whisper.Model
}

func NewLocal(cfg Config) *Local {
	return &Local{
		modelPath: cfg.ModelPath,
		threads:   cfg.Threads,
	}
}

func (l *Local) ensureModel() (whisper.Model, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.model != nil {
		return l.model, nil
	}
	if l.modelPath == "" {
		return nil, scribeerr.New(scribeerr.KindModelNotFound, "no local model configured")
	}

	start := time.Now()
	model, err := whisper.New(l.modelPath)
	if err != nil {
		return nil, scribeerr.Wrap(scribeerr.KindModelLoadFailed, fmt.Errorf("load %s: %w", l.modelPath, err))
	}
	logging.Infof("transcriber(local): loaded model %s in %v", l.modelPath, time.Since(start))

	l.model = model
	return model, nil
}

// Transcribe runs 80-bin log-mel + greedy decode over the utterance's
// normalized PCM. Cancellation is cooperative: the encoder-begin callback
// checks ctx and returns false to abort whisper.cpp's processing loop
// between steps, the closest hook whisper.cpp's Go binding exposes to the
// "shared atomic flag between decoder steps" described in spec.md §5.
func (l *Local) Transcribe(ctx context.Context, req Request) Result {
	if ctx.Err() != nil {
		return Result{Err: scribeerr.Wrap(scribeerr.KindCancelled, ctx.Err())}
	}

	model, err := l.ensureModel()
	if err != nil {
		return Result{Err: err}
	}

	wctx, err := model.NewContext()
	if err != nil {
		return Result{Err: scribeerr.Wrap(scribeerr.KindInferenceFailed, fmt.Errorf("new context: %w", err))}
	}

	wctx.SetTranslate(false)
	if req.Language != "" {
		if err := wctx.SetLanguage(req.Language); err != nil {
			logging.Warnf("transcriber(local): language %q not supported, falling back to auto: %v", req.Language, err)
		}
	}
	if l.threads > 0 {
		if setter, ok := wctx.(interface{ SetThreads(uint) }); ok {
			setter.SetThreads(uint(l.threads))
		}
	}

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		abort := func() bool { return ctx.Err() == nil }
		err := wctx.Process(req.Utterance.PCM, abort, nil, nil)
		if err != nil {
			done <- outcome{err: err}
			return
		}

		var sb strings.Builder
		for {
			seg, err := wctx.NextSegment()
			if err != nil {
				break
			}
			sb.WriteString(seg.Text)
		}
		done <- outcome{text: strings.TrimSpace(sb.String())}
	}()

	select {
	case <-ctx.Done():
		return Result{Err: scribeerr.Wrap(scribeerr.KindCancelled, ctx.Err())}
	case o := <-done:
		if o.err != nil {
			return Result{Err: scribeerr.Wrap(scribeerr.KindInferenceFailed, o.err)}
		}
		return Result{Text: o.text}
	}
}

func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.model == nil {
		return nil
	}
	err := l.model.Close()
	l.model = nil
	return err
}
