package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegister    Phase = "register"    // signature canonicalization
	PhaseDispatch    Phase = "dispatch"    // indirect call dispatch
	PhaseCompile     Phase = "compile"     // module compilation
	PhaseInstantiate Phase = "instantiate" // module instantiation
	PhaseHost        Phase = "host"        // host function definition
	PhaseLower       Phase = "lower"       // component signature flattening
)

// Kind categorizes the error
type Kind string

const (
	KindCapacity      Kind = "capacity"
	KindTypeMismatch  Kind = "type_mismatch"
	KindOutOfBounds   Kind = "out_of_bounds"
	KindUninitialized Kind = "uninitialized"
	KindInvalidInput  Kind = "invalid_input"
	KindUnsupported   Kind = "unsupported"
	KindClosed        Kind = "closed"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Want   string
	Got    string
	Detail string
	Name   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Name != "" {
		b.WriteString(" at ")
		b.WriteString(e.Name)
	}

	if e.Want != "" || e.Got != "" {
		b.WriteString(": ")
		switch {
		case e.Want != "" && e.Got != "":
			b.WriteString("expected ")
			b.WriteString(e.Want)
			b.WriteString(", got ")
			b.WriteString(e.Got)
		case e.Want != "":
			b.WriteString("expected ")
			b.WriteString(e.Want)
		default:
			b.WriteString("got ")
			b.WriteString(e.Got)
		}
	}

	if e.Detail != "" {
		if e.Want != "" || e.Got != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Name sets the name of the function, import or export involved
func (b *Builder) Name(name string) *Builder {
	b.err.Name = name
	return b
}

// Want sets the expected signature
func (b *Builder) Want(sig string) *Builder {
	b.err.Want = sig
	return b
}

// Got sets the actual signature
func (b *Builder) Got(sig string) *Builder {
	b.err.Got = sig
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Sentinel returns a detail-free error usable as an errors.Is target
func Sentinel(phase Phase, kind Kind) *Error {
	return &Error{Phase: phase, Kind: kind}
}

// CapacityExceeded creates an error for a handle space that has no free value left
func CapacityExceeded(phase Phase, limit uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCapacity,
		Detail: fmt.Sprintf("handle space exhausted (limit %d)", limit),
		Value:  limit,
	}
}

// TypeMismatch creates a signature mismatch error
func TypeMismatch(phase Phase, want, got string) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindTypeMismatch,
		Want:  want,
		Got:   got,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, index, length uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap attaches phase and kind to a foreign error
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
