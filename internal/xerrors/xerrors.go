// Package xerrors defines the engine's error kinds and wraps causes with
// github.com/pkg/errors so stack traces survive across package boundaries.
package xerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an Error for the host to act on.
type Kind int8

const (
	// Internal is a caught panic or unclassified failure from an upstream
	// collaborator.
	Internal Kind = iota
	// Decode means the RAW bytes or embedded metadata could not be decoded.
	Decode
	// Allocation means a buffer could not be reserved; the host should treat
	// this as an out-of-memory signal.
	Allocation
	// InvalidPayload means the session handle is unknown, a dimension is
	// zero, or an ROI is empty. Fatal to the render, not to the session.
	InvalidPayload
)

func (k Kind) String() string {
	switch k {
	case Decode:
		return "decode"
	case Allocation:
		return "allocation"
	case InvalidPayload:
		return "invalid_payload"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error pairs a Kind with a wrapped cause.
type Error struct {
	Kind Kind
	msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of kind with msg and no wrapped cause.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, msg: msg}
}

// Wrap builds an Error of kind, attaching err as the wrapped cause via
// pkg/errors so a stack trace is recorded at the call site.
func Wrap(kind Kind, msg string, err error) error {
	if err == nil {
		return New(kind, msg)
	}
	return &Error{Kind: kind, msg: msg, Err: errors.WithStack(err)}
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and Internal
// otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err is of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
