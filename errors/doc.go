// Package errors provides structured error types for the mini-game boundary.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the callback or field path, the Go and boundary type names,
// the offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindOverflow).
//		Path("draw_text", "text").
//		GoType("uintptr").
//		ABIType("i32").
//		Detail("address does not fit the boundary").
//		Build()
//
// Or use convenience constructors for the fatal guest failures:
//
//	err := errors.Overflow(errors.PhaseEncode, path, uint64(1)<<40, "i32")
//	err := errors.NullHandle(0)
//	err := errors.InvalidEnum(errors.PhaseDecode, path, int32(2), "ClickType")
//	err := errors.ShapeMismatch(errors.PhaseDecode, path, 3, 8)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
