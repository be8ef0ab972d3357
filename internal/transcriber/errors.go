package transcriber

import "errors"

// nonRetryableError marks a Remote-backend failure that must not be
// retried: per spec.md §4.4, 4xx responses and auth failures are terminal
// on the first attempt, unlike connection resets and 5xx responses.
type nonRetryableError struct {
	Err error
}

func (e *nonRetryableError) Error() string {
	if e == nil || e.Err == nil {
		return "non-retryable transcription error"
	}
	return e.Err.Error()
}

func (e *nonRetryableError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func nonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &nonRetryableError{Err: err}
}

func isNonRetryable(err error) bool {
	var nr *nonRetryableError
	return errors.As(err, &nr)
}
