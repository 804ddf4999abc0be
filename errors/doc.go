// Package errors provides structured error types for the memref library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go type and descriptor names,
// the offending value, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseWrite, errors.KindInvalidArgument).
//		GoType("string").
//		TypeName("int32").
//		Detail("cannot convert string to integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseWrite, "string", "int32")
//	err := errors.OutOfBounds(errors.PhaseRead, 10, 4, 12)
//
// All errors implement the standard error interface and support errors.Is/As.
// The Err* sentinels match any error of their Kind:
//
//	if errors.Is(err, errors.ErrNullDereference) { ... }
package errors
