// Package errors provides structured error types for the wasm-embedded host.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the capability and operation involved,
// the offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMarshal, errors.KindOutOfBounds).
//		Capability("i2c").
//		Op("write").
//		Detail("span [%d, %d) exceeds memory size %d", ptr, end, size).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseMarshal, ptr, length, size)
//	err := errors.Checksum("app", want, got)
//
// Driver failures are not represented here; they use the closed hal.Error
// set. This package covers malformed guest calls, manifest problems and
// runtime setup.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
