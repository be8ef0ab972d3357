// Package utterance accumulates voiced PCM samples between a VAD
// SpeechStarted and SpeechEnded, enforces the minimum-duration floor, and
// normalizes the result for transcription.
package utterance

import (
	"time"

	"github.com/leonardotrapani/scribe/internal/audio"
	"github.com/leonardotrapani/scribe/internal/logging"
)

// silentPeakThreshold and clippedPeakThreshold bound the peak amplitude
// normalize reports: below the first the utterance is effectively
// silence (likely a VAD misfire); at or above the second the input was
// clipped at capture time.
const (
	silentPeakThreshold  = 0.01
	clippedPeakThreshold = 0.999
)

// Utterance is a finalized, normalized span of speech. Once produced it
// is owned exclusively by the transcription task it was handed to.
type Utterance struct {
	PCM        []float32 // samples in [-1, 1]
	SampleRate int
	StartedAt  time.Time
	EndedAt    time.Time
}

// DurationMS reports the utterance's duration in whole milliseconds,
// truncated.
func (u Utterance) DurationMS() int64 {
	return u.EndedAt.Sub(u.StartedAt).Milliseconds()
}

// Buffer accumulates VoicedFrame samples for exactly one session at a
// time. It is exclusively owned by the session controller.
type Buffer struct {
	samples   []int16
	startedAt time.Time
	started   bool
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds one VoicedFrame's samples to the buffer. The first Append
// after Reset records the utterance start time.
func (b *Buffer) Append(samples []int16) {
	if !b.started {
		b.startedAt = time.Now()
		b.started = true
	}
	b.samples = append(b.samples, samples...)
}

// Reset discards any accumulated samples, e.g. on Cancel or after a
// finalized utterance has been handed off.
func (b *Buffer) Reset() {
	b.samples = b.samples[:0]
	b.started = false
}

// DurationMS reports how much audio has been accumulated so far.
func (b *Buffer) DurationMS() int64 {
	return int64(len(b.samples)) * 1000 / int64(audio.SampleRate)
}

// Empty reports whether any samples have been appended.
func (b *Buffer) Empty() bool { return len(b.samples) == 0 }

// Finalize normalizes the accumulated PCM and returns an Utterance,
// provided the buffer's duration meets minDurationMS. If the buffer is
// too short, ok is false and the caller should discard (UtteranceTooShort)
// without invoking transcription, per spec.md §4.3.
func (b *Buffer) Finalize(minDurationMS int) (Utterance, bool) {
	durationMS := b.DurationMS()
	if durationMS < int64(minDurationMS) || len(b.samples) == 0 {
		return Utterance{}, false
	}

	pcm, peak := normalize(b.samples)
	switch {
	case peak < silentPeakThreshold:
		logging.Debugf("utterance: peak amplitude %.4f, likely silence", peak)
	case peak >= clippedPeakThreshold:
		logging.Warnf("utterance: peak amplitude %.4f, input may be clipped", peak)
	}
	endedAt := time.Now()
	startedAt := b.startedAt
	if startedAt.IsZero() || !startedAt.Before(endedAt) {
		startedAt = endedAt.Add(-time.Duration(durationMS) * time.Millisecond)
	}

	return Utterance{
		PCM:        pcm,
		SampleRate: audio.SampleRate,
		StartedAt:  startedAt,
		EndedAt:    endedAt,
	}, true
}

// normalize converts 16-bit signed PCM to float32 in [-1, 1] and reports
// the peak amplitude seen, matching spec.md §4.3's "peak-checked" step.
func normalize(samples []int16) ([]float32, float32) {
	out := make([]float32, len(samples))
	var peak float32
	for i, s := range samples {
		v := float32(s) / 32768.0
		out[i] = v
		if abs := absf32(v); abs > peak {
			peak = abs
		}
	}
	return out, peak
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
