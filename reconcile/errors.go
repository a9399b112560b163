package reconcile

import (
	"errors"
)

// ErrUnreachable is returned by Probe when the query service cannot be reached.
var ErrUnreachable = errors.New("query service unreachable")

// FailureKind says whether a failed lookup is worth repeating.
type FailureKind string

const (
	// Transient failures may clear on a later run: network errors, rate
	// limiting, server errors.
	Transient FailureKind = "transient"
	// Fatal failures repeat for the same query: rejected queries and
	// malformed result documents.
	Fatal FailureKind = "fatal"
)

// LookupError is a failed query tagged with its FailureKind.
type LookupError struct {
	Kind FailureKind
	Err  error
}

func (e *LookupError) Error() string {
	return e.Err.Error()
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func transient(err error) error {
	return &LookupError{Kind: Transient, Err: err}
}

func fatal(err error) error {
	return &LookupError{Kind: Fatal, Err: err}
}

// Failure returns the kind of the first LookupError in err's chain. Errors
// that were never classified count as transient.
func Failure(err error) FailureKind {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Kind
	}
	return Transient
}
