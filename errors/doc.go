// Package errors provides structured error types for the aspell bindings.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Kind carries the failure taxonomy callers match against:
//
//	KindValidation - input rejected before any native call was made
//	KindConfig     - applying or reading a configuration key failed
//	KindEngine     - a core native object could not be constructed
//	KindSpeller    - the speller's error surface reported a failure
//	KindReleased   - the handle was already released or consumed
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConfig, errors.KindConfig).
//		Op("apply").
//		Key("lang").
//		Detail("no word lists can be found").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Validation(errors.PhaseValidate, "check", "word contains NUL byte")
//	err := errors.Speller("add_to_session", msg)
//
// All errors implement the standard error interface and support errors.Is/As.
// The sentinels ErrValidation, ErrConfig, ErrEngine, ErrSpeller and ErrReleased
// match any error of their Kind.
package errors
