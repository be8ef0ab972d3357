// Package logging points the standard logger at the configured
// destination and gates Scribe's own log lines by level, the way
// [logging] in config.toml names them.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func parseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// threshold starts at LevelDebug (the zero value) so nothing is dropped
// before Setup runs.
var threshold = LevelDebug

// Setup redirects log.SetOutput to file (stderr if file is empty) and
// sets the minimum level Debugf/Infof/Warnf/Errorf will pass through.
// The returned io.Closer should be closed on daemon shutdown.
func Setup(level, file string) (io.Closer, error) {
	threshold = parseLevel(level)

	if file == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", file, err)
	}
	log.SetOutput(f)
	return f, nil
}

func Debugf(format string, args ...any) { logAt(LevelDebug, format, args...) }
func Infof(format string, args ...any)  { logAt(LevelInfo, format, args...) }
func Warnf(format string, args ...any)  { logAt(LevelWarn, format, args...) }
func Errorf(format string, args ...any) { logAt(LevelError, format, args...) }

func logAt(l Level, format string, args ...any) {
	if l < threshold {
		return
	}
	log.Printf(format, args...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
