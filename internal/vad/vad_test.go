package vad

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/leonardotrapani/scribe/internal/audio"
)

func genToneFrame(freq float64, phaseOffset int) audio.Frame {
	samples := make([]int16, audio.FrameSamples)
	for i := range samples {
		n := phaseOffset + i
		samples[i] = int16(16000 * math.Sin(2*math.Pi*freq*float64(n)/float64(audio.SampleRate)))
	}
	return audio.Frame{Samples: samples, SampleRate: audio.SampleRate, Channels: 1}
}

func genSilenceFrame() audio.Frame {
	return audio.Frame{Samples: make([]int16, audio.FrameSamples), SampleRate: audio.SampleRate, Channels: 1}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.Aggressiveness < 0 || c.Aggressiveness > 3 {
		t.Errorf("aggressiveness out of range: %d", c.Aggressiveness)
	}
}

func TestSilenceProducesNoEvents(t *testing.T) {
	f, err := New(Config{Aggressiveness: 3, SilenceMS: 200, MinDurationMS: 0, SkipInitialMS: 0})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		events, err := f.ProcessFrame(genSilenceFrame())
		if err != nil {
			t.Fatal(err)
		}
		if len(events) != 0 {
			t.Fatalf("expected no events on silence, got %v", events)
		}
	}
}

func TestSkipInitialDiscardsFrames(t *testing.T) {
	f, err := New(Config{Aggressiveness: 3, SilenceMS: 200, SkipInitialMS: 100})
	if err != nil {
		t.Fatal(err)
	}

	// First 5 frames (100ms) must be discarded regardless of content.
	for i := 0; i < 5; i++ {
		events, err := f.ProcessFrame(genToneFrame(440, i*audio.FrameSamples))
		if err != nil {
			t.Fatal(err)
		}
		if len(events) != 0 {
			t.Fatalf("frame %d: expected discard during skip_initial_ms, got %v", i, events)
		}
	}
}

func TestForceEndWithoutSpeechIsNil(t *testing.T) {
	f, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if ev := f.ForceEnd(); ev != nil {
		t.Errorf("expected nil ForceEnd when no speech active, got %v", ev)
	}
}

func TestResetClearsState(t *testing.T) {
	f, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	f.speechActive = true
	f.silenceRunMS = 500
	f.elapsedMS = 1000
	f.pushPreroll(make([]int16, audio.FrameSamples))

	f.Reset()

	if f.speechActive || f.silenceRunMS != 0 || f.elapsedMS != 0 || f.prerollCount != 0 {
		t.Errorf("Reset left residual state: %+v", f)
	}
}

func TestPrerollRingDropsOldest(t *testing.T) {
	f, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < prerollCapacity+5; i++ {
		samples := make([]int16, 1)
		samples[0] = int16(i)
		f.pushPreroll(samples)
	}

	events := f.flushPreroll()
	if len(events) != prerollCapacity {
		t.Fatalf("expected %d preroll events, got %d", prerollCapacity, len(events))
	}
	// The oldest 5 pushes should have been evicted; first surviving sample
	// is index 5.
	if events[0].Samples[0] != 5 {
		t.Errorf("expected oldest surviving sample to be 5, got %d", events[0].Samples[0])
	}
}

func TestClassifyProducesValidFrameBytes(t *testing.T) {
	f, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	samples := []int16{1, -1, 32767, -32768}
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	if len(buf) != 8 {
		t.Fatalf("expected 8 bytes for 4 int16 samples, got %d", len(buf))
	}
	if _, err := f.classify(genSilenceFrame().Samples); err != nil {
		t.Fatalf("classify should not error on a full 20ms frame: %v", err)
	}
}
