package config

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestValidateRejectsBadAggressiveness(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VAD.Aggressiveness = 4
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range aggressiveness")
	}
}

func TestValidateRejectsBadBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transcription.Backend = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
}

func TestValidateRejectsBadInjectionDelay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Injection.DelayMS = 500
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range delay_ms")
	}
}

func TestValidateRejectsNegativeSampleRate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audio.SampleRate = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive sample rate")
	}
}

func TestValidateRejectsBadLoggingLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unrecognized logging level")
	}
}

func TestToVADConfigCarriesFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VAD.Aggressiveness = 3
	cfg.VAD.SilenceMS = 700

	vc := cfg.ToVADConfig()
	if vc.Aggressiveness != 3 || vc.SilenceMS != 700 {
		t.Errorf("ToVADConfig did not carry overrides: %+v", vc)
	}
}

func TestToInjectionConfigCarriesDelay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Injection.DelayMS = 42

	ic := cfg.ToInjectionConfig()
	if ic.DelayMS != 42 {
		t.Errorf("ToInjectionConfig delay_ms = %d, want 42", ic.DelayMS)
	}
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load without a config file should not error: %v", err)
	}
	if cfg.Audio.SampleRate != DefaultConfig().Audio.SampleRate {
		t.Errorf("Load() without file should yield defaults, got sample_rate=%d", cfg.Audio.SampleRate)
	}
}
