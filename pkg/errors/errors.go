// Package errors provides structured error handling for the Weft framework.
package errors

import (
	"fmt"
	"time"
)

// ConfigurationError reports a structural misuse of the framework API:
// a nil root widget at mount, duplicate non-nil sibling keys, or a consumed
// one-shot widget inflated again. It is raised synchronously via panic at the
// point of violation and is never recoverable.
type ConfigurationError struct {
	// Op is the operation that detected the violation (e.g. "core.MountRoot").
	Op string
	// Detail describes the violation.
	Detail string
	// Key is the offending sibling key, if the violation involves one.
	Key any
}

func (e *ConfigurationError) Error() string {
	if e.Key != nil {
		return fmt.Sprintf("%s: %s (key=%v)", e.Op, e.Detail, e.Key)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

// StateMutationError reports a dirty-mark issued while the same element's
// build is running, or the same element queued twice within a single flush.
// Reconciliation is deterministic, so retrying would reproduce the error;
// it is raised via panic and treated as a programming error.
type StateMutationError struct {
	// Op is the operation that detected the violation.
	Op string
	// Widget is the type name of the offending widget.
	Widget string
	// Detail describes the violation.
	Detail string
}

func (e *StateMutationError) Error() string {
	if e.Widget != "" {
		return fmt.Sprintf("%s: %s (widget=%s)", e.Op, e.Detail, e.Widget)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

// BoundaryError represents a recovered failure in application build code.
// Unlike the fatal error classes above, a build panic is contained at the
// element that raised it: the error is reported through the handler and the
// element renders a fallback child.
type BoundaryError struct {
	// Widget is the type name of the widget whose build failed.
	Widget string
	// Phase is the framework phase ("build").
	Phase string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the failure.
	StackTrace string
	// Timestamp is when the failure occurred.
	Timestamp time.Time
}

func (e *BoundaryError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s.Build(): %v", e.Widget, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s.Build(): %v", e.Widget, e.Err)
	}
	return fmt.Sprintf("unknown error in %s.Build()", e.Widget)
}

func (e *BoundaryError) Unwrap() error {
	return e.Err
}

// Handler receives boundary errors reported by the framework.
type Handler interface {
	// HandleBoundaryError is called when an application build fails.
	HandleBoundaryError(err *BoundaryError)
}
