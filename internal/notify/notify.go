// Package notify surfaces session state changes and errors to the user,
// either as desktop notifications or log lines.
package notify

import (
	"os/exec"

	"github.com/leonardotrapani/scribe/internal/logging"
)

// Notifier is driven by the session controller on every state transition
// and error spec.md §4.6/§7 names.
type Notifier interface {
	RecordingStarted()
	RecordingEnded()
	Transcribing()
	Aborted()
	Error(msg string)
	Notify(title, message string)
}

// Config mirrors spec.md §6's [notifications] section.
type Config struct {
	EnableStatus  bool
	EnableErrors  bool
	ShowPreview   bool
	PreviewLength int
}

func DefaultConfig() Config {
	return Config{EnableStatus: true, EnableErrors: true, ShowPreview: true, PreviewLength: 80}
}

// Preview truncates text to PreviewLength runes when ShowPreview is set,
// appending an ellipsis if it was cut short. Used by callers that want to
// notify with a transcription result without leaking the full text.
func (c Config) Preview(text string) string {
	if !c.ShowPreview {
		return ""
	}
	runes := []rune(text)
	if c.PreviewLength <= 0 || len(runes) <= c.PreviewLength {
		return text
	}
	return string(runes[:c.PreviewLength]) + "…"
}

// Desktop notifies via notify-send.
type Desktop struct{}

func (Desktop) RecordingStarted() {
	send("Scribe", "Recording started")
}

func (Desktop) RecordingEnded() {
	send("Scribe", "Recording ended, transcribing…")
}

func (Desktop) Transcribing() {
	send("Scribe", "Transcribing…")
}

func (Desktop) Aborted() {
	send("Scribe", "Aborted")
}

func (Desktop) Error(msg string) {
	sendUrgent("Scribe Error", msg)
}

func (Desktop) Notify(title, message string) {
	send(title, message)
}

func send(title, message string) {
	cmd := exec.Command("notify-send", "-a", "Scribe", title, message)
	if err := cmd.Run(); err != nil {
		logging.Warnf("notify: notify-send failed: %v", err)
	}
}

func sendUrgent(title, message string) {
	cmd := exec.Command("notify-send", "-a", "Scribe", "-u", "critical", title, message)
	if err := cmd.Run(); err != nil {
		logging.Warnf("notify: notify-send failed: %v", err)
	}
}

// Log writes structured lines through the standard logger. Useful
// headless, or as a predictable target in tests.
type Log struct{}

func (Log) RecordingStarted() {
	logging.Infof("Scribe: Recording Started")
}

func (Log) RecordingEnded() {
	logging.Infof("Scribe: Recording Ended")
}

func (Log) Transcribing() {
	logging.Infof("Scribe: Transcribing")
}

func (Log) Aborted() {
	logging.Infof("Scribe: Aborted")
}

func (Log) Error(msg string) {
	logging.Errorf("Scribe Error: %s", msg)
}

func (Log) Notify(title, message string) {
	logging.Infof("%s: %s", title, message)
}

// Nop does absolutely nothing. Useful in unit tests or headless builds.
type Nop struct{}

func (Nop) RecordingStarted()          {}
func (Nop) RecordingEnded()            {}
func (Nop) Transcribing()              {}
func (Nop) Aborted()                   {}
func (Nop) Error(msg string)           {}
func (Nop) Notify(title, message string) {}
