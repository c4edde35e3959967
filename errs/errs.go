// Package errs defines the host's error taxonomy. Every error that crosses
// a component boundary is wrapped in an *Error carrying a Kind so callers
// can branch on failure class with errors.Is/errors.As instead of string
// matching.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Kinds are comparable with errors.Is.
type Kind string

const (
	NotFound             Kind = "not_found"
	ValidationError      Kind = "validation_error"
	PolicyViolation      Kind = "policy_violation"
	TransportUnavailable Kind = "transport_unavailable"
	TransportClosed      Kind = "transport_closed"
	ProtocolError        Kind = "protocol_error"
	SessionTransportError Kind = "session_transport_error"
	ToolNotFound         Kind = "tool_not_found"
	ToolAmbiguous        Kind = "tool_ambiguous"
	AccessDenied         Kind = "access_denied"
	ToolExecutionError   Kind = "tool_execution_error"
	LLMProviderError     Kind = "llm_provider_error"
	SchemaValidationFailed Kind = "schema_validation_failed"
	MaxIterationsReached Kind = "max_iterations_reached"
	Timeout              Kind = "timeout"
	Cancelled            Kind = "cancelled"
)

// Error wraps an underlying error with a Kind and the operation it
// occurred in, e.g. "host.RegisterSession".
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, which lets
// errors.Is(err, errs.New(NotFound, "", nil)) style sentinel checks work.
// The package-level Is helper below does the same check from a bare Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Of returns the Kind of err if it (or something it wraps) is an *Error,
// and ok=false otherwise.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	k, ok := Of(err)
	return ok && k == kind
}
