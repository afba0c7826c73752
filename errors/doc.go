// Package errors provides structured error types for the signature registry
// and the components built around it.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the signatures involved, an optional handle value,
// a human-readable detail and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDispatch, errors.KindTypeMismatch).
//		Want("(i32) -> (i32)").
//		Got("(i64) -> ()").
//		Detail("table slot %d", 4).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.CapacityExceeded(errors.PhaseRegister, math.MaxUint32)
//	err := errors.OutOfBounds(errors.PhaseDispatch, 10, 5)
//
// All errors implement the standard error interface and support errors.Is/As.
// Two *Error values match under errors.Is when their Phase and Kind agree, so
// packages export sentinels that callers compare against.
package errors
