package daemon

import (
	"testing"

	"github.com/leonardotrapani/scribe/internal/config"
)

func TestResolveModelPathEmptyModel(t *testing.T) {
	if got := resolveModelPath(""); got != "" {
		t.Errorf("resolveModelPath(\"\") = %q, want empty", got)
	}
}

func TestResolveModelPathUnknownModel(t *testing.T) {
	if got := resolveModelPath("not-a-real-model"); got != "" {
		t.Errorf("resolveModelPath for an uninstalled model = %q, want empty", got)
	}
}

func TestToNotifyConfigCarriesFields(t *testing.T) {
	n := config.NotificationsConfig{
		EnableStatus:  true,
		EnableErrors:  false,
		ShowPreview:   true,
		PreviewLength: 42,
	}
	got := toNotifyConfig(n)
	if got.EnableStatus != true || got.EnableErrors != false || got.ShowPreview != true || got.PreviewLength != 42 {
		t.Errorf("toNotifyConfig(%+v) = %+v", n, got)
	}
}

func TestNewRejectsInvalidVADConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.VAD.Aggressiveness = 99 // out of range; vad.New is expected to reject it

	if _, err := New(cfg, nil); err == nil {
		t.Error("New with an out-of-range aggressiveness should fail to construct the VAD framer")
	}
}
