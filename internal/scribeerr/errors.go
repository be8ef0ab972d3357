// Package scribeerr defines the error kinds shared across the daemon's
// subsystems so that IPC responses and notifications can report a stable
// kind string regardless of which package raised the error.
package scribeerr

import "errors"

// Kind identifies the category of a Scribe error. Kinds are surfaced on
// IPC responses and to the notifier; they are part of the wire protocol,
// not just internal bookkeeping, so values must not change once released.
type Kind string

const (
	KindDeviceUnavailable Kind = "DeviceUnavailable"
	KindDeviceLost        Kind = "DeviceLost"

	KindModelNotFound   Kind = "ModelNotFound"
	KindModelLoadFailed Kind = "ModelLoadFailed"
	KindInferenceFailed Kind = "InferenceFailed"
	KindOutOfMemory     Kind = "OutOfMemory"

	KindAuthFailed     Kind = "AuthFailed"
	KindQuotaExceeded  Kind = "QuotaExceeded"
	KindNetworkError   Kind = "NetworkError"
	KindTimeout        Kind = "Timeout"
	KindBadResponse    Kind = "BadResponse"

	KindInjectorSpawnFailed Kind = "InjectorSpawnFailed"
	KindInjectorIoFailed    Kind = "InjectorIoFailed"

	KindConfigInvalid Kind = "ConfigInvalid"
	KindConfigMissing Kind = "ConfigMissing"

	KindIpcProtocolError Kind = "IpcProtocolError"
	KindUnknownCommand   Kind = "UnknownCommand"
	KindBusy             Kind = "Busy"

	KindUtteranceTooShort Kind = "UtteranceTooShort"
	KindCancelled         Kind = "Cancelled"
)

// Error is a kinded error: it carries a stable Kind alongside the
// human-readable message so callers across package boundaries can branch
// on the kind with errors.As without string matching.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// KindOf extracts the Kind from err, falling back to def if err is nil or
// not a *Error.
func KindOf(err error, def Kind) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return def
}

// IsCancelled reports whether err (or anything it wraps) is KindCancelled.
func IsCancelled(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == KindCancelled
	}
	return errors.Is(err, ErrCancelled)
}

// ErrCancelled is a sentinel for cancellation that doesn't need a message.
var ErrCancelled = errors.New("cancelled")
