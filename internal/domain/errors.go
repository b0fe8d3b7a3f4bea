package domain

import (
	"errors"
	"fmt"
)

// TransportError is a network or HTTP-level failure talking to the gallery.
// A 401 surfaces here like any other status: the token lifecycle is the
// transport layer's problem, not this package's.
type TransportError struct {
	// Status is the HTTP status code, or 0 when the request never
	// produced a response (DNS, connect, timeout).
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gallery transport error (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("gallery transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError wraps err with an optional HTTP status.
func NewTransportError(status int, err error) *TransportError {
	return &TransportError{Status: status, Err: err}
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// ValidationError is invalid user input caught before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrNotFound is reported when the gallery says an entity no longer
// exists, e.g. a racing delete from another session.
var ErrNotFound = errors.New("entity not found")
