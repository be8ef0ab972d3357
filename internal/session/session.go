// Package session implements the Controller, the single actor that owns
// all session state and serializes every IPC command, VAD event, and
// transcription result into one decision loop, per spec.md §4.6.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/leonardotrapani/scribe/internal/audio"
	"github.com/leonardotrapani/scribe/internal/injection"
	"github.com/leonardotrapani/scribe/internal/ipc"
	"github.com/leonardotrapani/scribe/internal/logging"
	"github.com/leonardotrapani/scribe/internal/notify"
	"github.com/leonardotrapani/scribe/internal/scribeerr"
	"github.com/leonardotrapani/scribe/internal/transcriber"
	"github.com/leonardotrapani/scribe/internal/utterance"
	"github.com/leonardotrapani/scribe/internal/vad"
)

// State is the Controller's externally-visible session state.
type State string

const (
	StateIdle         State = "idle"
	StateRecording    State = "recording"
	StateTranscribing State = "transcribing"
	StateCancelling   State = "cancelling"
)

// wireState maps State onto the three values spec.md §4.7's Response
// carries; Cancelling is reported as still transcribing since, from an
// IPC client's perspective, the session is still busy and not idle.
func (s State) wireState() ipc.State {
	switch s {
	case StateRecording:
		return ipc.StateRecording
	case StateTranscribing, StateCancelling:
		return ipc.StateTranscribing
	default:
		return ipc.StateIdle
	}
}

// AudioSource is the subset of *audio.Source the Controller drives.
// Declared here, consumer-side, so tests can substitute a fake producer
// without spawning pw-record.
type AudioSource interface {
	Start(ctx context.Context) (<-chan audio.Frame, <-chan error, error)
	Stop() error
}

// VADFramer is the subset of *vad.Framer the Controller drives.
type VADFramer interface {
	Reset()
	ProcessFrame(frame audio.Frame) ([]vad.Event, error)
	ForceEnd() *vad.Event
}

// Deps are the components the Controller orchestrates. All are owned
// exclusively by the Controller's actor goroutine once Run starts.
type Deps struct {
	Audio       AudioSource
	VAD         VADFramer
	Transcriber transcriber.Transcriber
	Injector    injection.Injector
	Notifier    notify.Notifier
	NotifyCfg   notify.Config

	MinDurationMS int
	Language      string
	InitialPrompt string
}

type ipcRequest struct {
	cmd   ipc.Command
	reply chan ipc.Response
}

type transResultMsg struct {
	sessionID uint64
	result    transcriber.Result
}

type notifyCfgUpdate struct {
	cfg  notify.Config
	done chan struct{}
}

// Controller is the sole authority over session state (spec.md §4.6). It
// must be driven by exactly one goroutine (Run); every other goroutine
// talks to it through Submit.
type Controller struct {
	deps Deps

	requests         chan ipcRequest
	transResults     chan transResultMsg
	notifyCfgUpdates chan notifyCfgUpdate

	state     State
	sessionID uint64

	buffer      *utterance.Buffer
	audioFrames <-chan audio.Frame
	audioErrs   <-chan error
	transCancel context.CancelFunc
}

func New(deps Deps) *Controller {
	return &Controller{
		deps:             deps,
		requests:         make(chan ipcRequest),
		transResults:     make(chan transResultMsg, 4),
		notifyCfgUpdates: make(chan notifyCfgUpdate),
		state:            StateIdle,
	}
}

// SetNotifyConfig updates the notification preview/enablement settings the
// actor uses on every future transition. Safe to call concurrently with
// Run; it blocks until the actor has applied the change.
func (c *Controller) SetNotifyConfig(cfg notify.Config) {
	done := make(chan struct{})
	c.notifyCfgUpdates <- notifyCfgUpdate{cfg: cfg, done: done}
	<-done
}

// Submit hands one IPC command to the actor and blocks for its reply.
// Safe to call from any number of goroutines concurrently; the actor
// serializes replies in arrival order (spec.md §4.6 Ordering).
func (c *Controller) Submit(cmd ipc.Command) ipc.Response {
	reply := make(chan ipc.Response, 1)
	c.requests <- ipcRequest{cmd: cmd, reply: reply}
	return <-reply
}

// Run is the actor loop. It returns when ctx is cancelled, after stopping
// any active recording and cancelling any in-flight transcription.
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return nil

		case req := <-c.requests:
			req.reply <- c.handleIpc(ctx, req.cmd)

		case frame, ok := <-c.audioFrames:
			if !ok {
				c.audioFrames = nil
				continue
			}
			c.handleFrame(frame)

		case err, ok := <-c.audioErrs:
			if !ok {
				c.audioErrs = nil
				continue
			}
			c.handleAudioError(err)

		case res := <-c.transResults:
			c.handleTransResult(res)

		case upd := <-c.notifyCfgUpdates:
			c.deps.NotifyCfg = upd.cfg
			close(upd.done)
		}
	}
}

func (c *Controller) handleIpc(ctx context.Context, cmd ipc.Command) ipc.Response {
	switch cmd {
	case ipc.CmdStatus:
		return ipc.Response{Ok: true, State: c.state.wireState()}

	case ipc.CmdStart:
		switch c.state {
		case StateIdle:
			return c.startRecording(ctx)
		case StateRecording:
			return ipc.Response{Ok: true, State: ipc.StateRecording}
		default:
			return c.busy()
		}

	case ipc.CmdToggle:
		switch c.state {
		case StateIdle:
			return c.startRecording(ctx)
		case StateRecording:
			return c.forceEndRecording()
		default:
			return c.busy()
		}

	case ipc.CmdStop:
		switch c.state {
		case StateIdle:
			return ipc.Response{Ok: true, State: ipc.StateIdle}
		case StateRecording:
			return c.forceEndRecording()
		default:
			return c.busy()
		}

	case ipc.CmdCancel:
		switch c.state {
		case StateIdle:
			return ipc.Response{Ok: true, State: ipc.StateIdle}
		case StateRecording:
			c.stopAudio()
			c.buffer = nil
			c.state = StateIdle
			c.notifyStatus(c.deps.Notifier.Aborted)
			return ipc.Response{Ok: true, State: ipc.StateIdle}
		case StateTranscribing:
			c.state = StateCancelling
			if c.transCancel != nil {
				c.transCancel()
			}
			return ipc.Response{Ok: true, State: c.state.wireState()}
		default:
			return c.busy()
		}

	default:
		return ipc.Response{Ok: false, Error: string(scribeerr.KindUnknownCommand), Message: fmt.Sprintf("unknown command %q", cmd)}
	}
}

// notifyStatus runs f only while [notifications] enable_status is set,
// so a live config reload takes effect on the very next transition.
func (c *Controller) notifyStatus(f func()) {
	if c.deps.NotifyCfg.EnableStatus {
		f()
	}
}

// notifyError surfaces msg through the Notifier only while enable_errors
// is set (spec.md §7).
func (c *Controller) notifyError(msg string) {
	if c.deps.NotifyCfg.EnableErrors {
		c.deps.Notifier.Error(msg)
	}
}

func (c *Controller) busy() ipc.Response {
	return ipc.Response{Ok: false, Error: string(scribeerr.KindBusy), State: c.state.wireState(), Message: fmt.Sprintf("session is %s", c.state)}
}

func (c *Controller) startRecording(ctx context.Context) ipc.Response {
	c.sessionID++
	c.deps.VAD.Reset()
	c.buffer = utterance.NewBuffer()

	frames, errs, err := c.deps.Audio.Start(ctx)
	if err != nil {
		return ipc.Response{Ok: false, Error: string(scribeerr.KindOf(err, scribeerr.KindDeviceUnavailable)), Message: err.Error()}
	}
	c.audioFrames = frames
	c.audioErrs = errs
	c.state = StateRecording
	c.notifyStatus(c.deps.Notifier.RecordingStarted)
	return ipc.Response{Ok: true, State: ipc.StateRecording}
}

// forceEndRecording implements the "force SpeechEnded; as above" rule for
// Ipc(Stop)/Ipc(Toggle) while Recording. Because the Framer and Buffer are
// exclusively owned by this actor, the resulting transition is computed
// synchronously, with no roundtrip through the audio pipeline.
func (c *Controller) forceEndRecording() ipc.Response {
	if ev := c.deps.VAD.ForceEnd(); ev != nil && ev.Samples != nil {
		c.buffer.Append(ev.Samples)
	}
	c.finishRecording()
	return ipc.Response{Ok: true, State: c.state.wireState()}
}

func (c *Controller) handleFrame(frame audio.Frame) {
	events, err := c.deps.VAD.ProcessFrame(frame)
	if err != nil {
		logging.Warnf("session: vad processing error: %v", err)
		return
	}
	for _, e := range events {
		switch e.Kind {
		case vad.SpeechStarted, vad.VoicedFrame:
			c.buffer.Append(e.Samples)
		case vad.SpeechEnded:
			c.finishRecording()
			return
		}
	}
}

// finishRecording stops the AudioSource and, per the buffer's duration
// guard (spec.md §4.6), either spawns a transcription or discards.
func (c *Controller) finishRecording() {
	c.stopAudio()

	u, ok := c.buffer.Finalize(c.deps.MinDurationMS)
	c.buffer = nil
	if !ok {
		logging.Debugf("session: utterance shorter than min_duration_ms, discarding")
		c.state = StateIdle
		c.notifyStatus(func() {
			c.deps.Notifier.Notify("Scribe", fmt.Sprintf("%s: utterance shorter than %d ms, discarded", scribeerr.KindUtteranceTooShort, c.deps.MinDurationMS))
		})
		return
	}

	c.notifyStatus(c.deps.Notifier.Transcribing)
	c.state = StateTranscribing
	c.spawnTranscription(u)
}

func (c *Controller) stopAudio() {
	_ = c.deps.Audio.Stop()
	c.audioFrames = nil
	c.audioErrs = nil
}

func (c *Controller) spawnTranscription(u utterance.Utterance) {
	id := c.sessionID
	transCtx, cancel := context.WithCancel(context.Background())
	c.transCancel = cancel

	req := transcriber.Request{Utterance: u, Language: c.deps.Language, InitialPrompt: c.deps.InitialPrompt}

	go func() {
		res := c.deps.Transcriber.Transcribe(transCtx, req)
		c.transResults <- transResultMsg{sessionID: id, result: res}
	}()
}

func (c *Controller) handleTransResult(msg transResultMsg) {
	if msg.sessionID != c.sessionID {
		return // stale result from a session that moved on
	}
	if c.transCancel != nil {
		c.transCancel()
		c.transCancel = nil
	}

	wasCancelling := c.state == StateCancelling
	c.state = StateIdle
	if wasCancelling {
		return
	}

	if msg.result.Err != nil {
		c.notifyError(errorMessage(msg.result.Err))
		return
	}

	if preview := c.deps.NotifyCfg.Preview(msg.result.Text); preview != "" {
		c.notifyStatus(func() { c.deps.Notifier.Notify("Scribe", preview) })
	}
	c.injectAsync(msg.result.Text)
}

// injectTimeout bounds a single Inject call; dotool paces per character,
// so this must exceed any realistic utterance length at the configured
// delay_ms.
const injectTimeout = 30 * time.Second

func (c *Controller) injectAsync(text string) {
	if text == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), injectTimeout)
		defer cancel()
		if err := c.deps.Injector.Inject(ctx, text); err != nil {
			logging.Warnf("session: injection failed: %v", err)
		}
	}()
}

func (c *Controller) handleAudioError(err error) {
	if c.state != StateRecording {
		return
	}
	c.stopAudio()
	c.buffer = nil
	c.state = StateIdle
	c.notifyError(errorMessage(err))
}

func (c *Controller) shutdown() {
	if c.state == StateRecording {
		c.stopAudio()
	}
	if c.transCancel != nil {
		c.transCancel()
	}
	_ = c.deps.Transcriber.Close()
	_ = c.deps.Injector.Close()
}

func errorMessage(err error) string {
	return fmt.Sprintf("%s: %s", scribeerr.KindOf(err, "Unknown"), err.Error())
}
