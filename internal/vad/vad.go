// Package vad classifies captured audio frames as voiced or unvoiced and
// turns that classification into a stream of SpeechStarted/VoicedFrame/
// SpeechEnded events for the session controller to act on.
package vad

import (
	"encoding/binary"
	"fmt"

	webrtcvad "github.com/maxhawkins/go-webrtcvad"

	"github.com/leonardotrapani/scribe/internal/audio"
)

// EventKind tags the payload carried by an Event.
type EventKind string

const (
	SpeechStarted EventKind = "speech_started"
	VoicedFrame   EventKind = "voiced_frame"
	SpeechEnded   EventKind = "speech_ended"
)

// Event is one output of the framer's per-frame algorithm. Samples is
// only populated for VoicedFrame.
type Event struct {
	Kind    EventKind
	Samples []int16
}

// Config mirrors spec.md's VadConfig.
type Config struct {
	Aggressiveness int // 0..3, passed straight to the WebRTC VAD mode
	SilenceMS      int
	MinDurationMS  int
	SkipInitialMS  int
}

func DefaultConfig() Config {
	return Config{
		Aggressiveness: 2,
		SilenceMS:      700,
		MinDurationMS:  250,
		SkipInitialMS:  150,
	}
}

// prerollCapacity holds ~300ms of unvoiced history (audio.FrameDurationMS
// per frame) so an utterance includes the onset the VAD detects
// retroactively.
const prerollCapacity = 300 / audio.FrameDurationMS

// Framer is the VAD state machine described in spec.md §4.2. It is not
// safe for concurrent use; it is driven exclusively by the session
// actor's goroutine.
type Framer struct {
	config Config
	vad    *webrtcvad.VAD

	speechActive     bool
	silenceRunMS     int
	elapsedMS        int
	preroll          [][]int16
	prerollNext      int
	prerollCount     int
}

func New(config Config) (*Framer, error) {
	v, err := webrtcvad.New()
	if err != nil {
		return nil, fmt.Errorf("vad: create webrtc vad: %w", err)
	}
	if err := v.SetMode(config.Aggressiveness); err != nil {
		return nil, fmt.Errorf("vad: set aggressiveness %d: %w", config.Aggressiveness, err)
	}
	return &Framer{
		config:  config,
		vad:     v,
		preroll: make([][]int16, prerollCapacity),
	}, nil
}

// Reset clears all session-scoped state, preparing the framer for a new
// Recording session. It must be called when the session actor transitions
// Idle -> Recording.
func (f *Framer) Reset() {
	f.speechActive = false
	f.silenceRunMS = 0
	f.elapsedMS = 0
	f.prerollNext = 0
	f.prerollCount = 0
	for i := range f.preroll {
		f.preroll[i] = nil
	}
}

// ProcessFrame runs the per-frame algorithm of spec.md §4.2 on one 20ms
// frame and returns the events it produces, in order.
func (f *Framer) ProcessFrame(frame audio.Frame) ([]Event, error) {
	f.elapsedMS += audio.FrameDurationMS

	if f.config.SkipInitialMS > 0 && f.elapsedMS <= f.config.SkipInitialMS {
		return nil, nil
	}

	voiced, err := f.classify(frame.Samples)
	if err != nil {
		return nil, err
	}

	switch {
	case !f.speechActive && voiced:
		events := f.flushPreroll()
		events = append(events, Event{Kind: SpeechStarted}, Event{Kind: VoicedFrame, Samples: frame.Samples})
		f.speechActive = true
		f.silenceRunMS = 0
		return events, nil

	case f.speechActive && voiced:
		f.silenceRunMS = 0
		return []Event{{Kind: VoicedFrame, Samples: frame.Samples}}, nil

	case f.speechActive && !voiced:
		f.silenceRunMS += audio.FrameDurationMS
		events := []Event{{Kind: VoicedFrame, Samples: frame.Samples}}
		if f.silenceRunMS >= f.config.SilenceMS {
			events = append(events, Event{Kind: SpeechEnded})
			f.speechActive = false
		}
		return events, nil

	default: // !speechActive && !voiced
		f.pushPreroll(frame.Samples)
		return nil, nil
	}
}

// ForceEnd ends speech early (an IPC Stop arrived): if speech is active
// it resets speechActive and returns a SpeechEnded event; otherwise it
// returns nil, since there is no speech in progress to end. The session
// controller finishes the recording whether or not an event is returned.
func (f *Framer) ForceEnd() *Event {
	if !f.speechActive {
		return nil
	}
	f.speechActive = false
	f.silenceRunMS = 0
	return &Event{Kind: SpeechEnded}
}

// Cancel drops any in-progress utterance without emitting SpeechEnded to
// the transcription path, per spec.md §4.2 tie-break rules.
func (f *Framer) Cancel() {
	f.speechActive = false
	f.silenceRunMS = 0
}

func (f *Framer) classify(samples []int16) (bool, error) {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	return f.vad.Process(audio.SampleRate, buf)
}

func (f *Framer) pushPreroll(samples []int16) {
	f.preroll[f.prerollNext] = samples
	f.prerollNext = (f.prerollNext + 1) % prerollCapacity
	if f.prerollCount < prerollCapacity {
		f.prerollCount++
	}
}

// flushPreroll drains the ring buffer in chronological order as
// VoicedFrame events and clears it.
func (f *Framer) flushPreroll() []Event {
	events := make([]Event, 0, f.prerollCount)
	start := (f.prerollNext - f.prerollCount + prerollCapacity) % prerollCapacity
	for i := 0; i < f.prerollCount; i++ {
		idx := (start + i) % prerollCapacity
		if f.preroll[idx] != nil {
			events = append(events, Event{Kind: VoicedFrame, Samples: f.preroll[idx]})
		}
		f.preroll[idx] = nil
	}
	f.prerollCount = 0
	f.prerollNext = 0
	return events
}
