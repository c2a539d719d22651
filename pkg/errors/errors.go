package errors

import (
	"fmt"
)

// EngineError is the interface implemented by all runtime errors.
type EngineError interface {
	error          // Embed the standard error interface
	Kind() string  // e.g., "Type", "Reference", "Range", "Fatal"
	// Message returns the specific error message without the kind prefix.
	// This might be useful if the caller wants to format the error differently.
	Message() string
	Unwrap() error // For error wrapping support (errors.Is/As)
}

// --- Concrete Error Types ---

// TypeError reports an operation that violates a property invariant:
// writing a read-only property, adding to a non-extensible object,
// reconfiguring a non-configurable property, creating a prototype cycle,
// or overriding a protected builtin.
type TypeError struct {
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *TypeError) Error() string   { return fmt.Sprintf("TypeError: %s", e.Msg) }
func (e *TypeError) Kind() string    { return "Type" }
func (e *TypeError) Message() string { return e.Msg }
func (e *TypeError) Unwrap() error   { return e.Cause }
func (e *TypeError) CausedBy(cause error) *TypeError {
	e.Cause = cause
	return e
}

// ReferenceError reports a property that a caller required to exist but
// which could not be resolved on the object or anywhere along its
// prototype chain.
type ReferenceError struct {
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *ReferenceError) Error() string   { return fmt.Sprintf("ReferenceError: %s", e.Msg) }
func (e *ReferenceError) Kind() string    { return "Reference" }
func (e *ReferenceError) Message() string { return e.Msg }
func (e *ReferenceError) Unwrap() error   { return e.Cause }
func (e *ReferenceError) CausedBy(cause error) *ReferenceError {
	e.Cause = cause
	return e
}

// RangeError reports a numeric argument outside its permitted range,
// such as an invalid array length.
type RangeError struct {
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *RangeError) Error() string   { return fmt.Sprintf("RangeError: %s", e.Msg) }
func (e *RangeError) Kind() string    { return "Range" }
func (e *RangeError) Message() string { return e.Msg }
func (e *RangeError) Unwrap() error   { return e.Cause }
func (e *RangeError) CausedBy(cause error) *RangeError {
	e.Cause = cause
	return e
}

// FatalError reports an unrecoverable condition: allocation failure, or a
// compatibility mode that demands hard failure on builtin override. It is
// delivered by panic, not as an operation result.
type FatalError struct {
	Msg   string
	Cause error
}

func (e *FatalError) Error() string   { return fmt.Sprintf("Fatal: %s", e.Msg) }
func (e *FatalError) Kind() string    { return "Fatal" }
func (e *FatalError) Message() string { return e.Msg }
func (e *FatalError) Unwrap() error   { return e.Cause }

// --- Constructors ---

func NewTypeError(format string, args ...interface{}) *TypeError {
	return &TypeError{Msg: fmt.Sprintf(format, args...)}
}

func NewReferenceError(format string, args ...interface{}) *ReferenceError {
	return &ReferenceError{Msg: fmt.Sprintf(format, args...)}
}

func NewRangeError(format string, args ...interface{}) *RangeError {
	return &RangeError{Msg: fmt.Sprintf(format, args...)}
}

func NewFatalError(format string, args ...interface{}) *FatalError {
	return &FatalError{Msg: fmt.Sprintf(format, args...)}
}

// IsTypeError reports whether err is a *TypeError.
func IsTypeError(err error) bool {
	_, ok := err.(*TypeError)
	return ok
}

// IsReferenceError reports whether err is a *ReferenceError.
func IsReferenceError(err error) bool {
	_, ok := err.(*ReferenceError)
	return ok
}
