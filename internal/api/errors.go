package api

import (
	"errors"
	"fmt"
)

// Kind classifies API failures.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindAuth
	KindNotFound
	KindValidation
)

// String returns a short label for the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network error"
	case KindAuth:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "invalid request"
	default:
		return "unknown error"
	}
}

// Sentinel errors for errors.Is checks against *Error values.
var (
	ErrNetwork    = errors.New("network error")
	ErrAuth       = errors.New("credential rejected")
	ErrNotFound   = errors.New("note not found")
	ErrValidation = errors.New("validation failed")
)

// Error is returned by every Client operation on failure.
type Error struct {
	Kind    Kind
	Op      string // list, get, create, delete
	Status  int    // HTTP status, 0 for transport failures
	Message string // server-provided message, if any
	Err     error  // underlying transport or decode error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return e.Op + " notes: " + msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Is matches the package sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrAuth:
		return e.Kind == KindAuth
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrValidation:
		return e.Kind == KindValidation
	}
	return false
}

// Temporary reports whether retrying the call may succeed.
func (e *Error) Temporary() bool { return e.Kind == KindNetwork }

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// kindForStatus maps an HTTP status to a failure kind.
func kindForStatus(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 404:
		return KindNotFound
	case status == 429 || status >= 500:
		return KindNetwork
	default:
		return KindValidation
	}
}
