// Package errors provides structured error types for wasmpkg.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending entry path, a detail message and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Path("assets/logo.png").
//		Detail("entry kind %d out of range", kind).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidName(name, "contains newline")
//	err := errors.Overflow(errors.PhaseEncode, path, n, "30-bit length")
//
// All errors implement the standard error interface and support errors.Is/As.
// Two errors match under errors.Is when their Phase and Kind agree.
package errors
