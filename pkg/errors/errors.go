// Package errors provides structured error handling for the formbuilder library.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindSchema indicates a schema parse or schema validation failure.
	KindSchema
	// KindBuild indicates a failure while building a form from a schema.
	KindBuild
	// KindRegistry indicates a field registry anomaly, such as a duplicate
	// name replacing a live registration.
	KindRegistry
	// KindPatch indicates a value patch that could not be applied to a field.
	KindPatch
	// KindWatch indicates a schema reload failure.
	KindWatch
	// KindCodegen indicates a code generation failure.
	KindCodegen
	// KindConfig indicates a configuration error.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindBuild:
		return "build"
	case KindRegistry:
		return "registry"
	case KindPatch:
		return "patch"
	case KindWatch:
		return "watch"
	case KindCodegen:
		return "codegen"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error represents a structured error in the formbuilder library.
//
// Validation failures are not Errors: they are field-local state surfaced
// through the error-query methods on form fields. Error is reserved for
// conditions the library itself must surface, such as duplicate
// registrations, unapplicable patches, and schema failures.
type Error struct {
	// Op is the operation that failed (e.g., "form.RegisterField").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Form is the form name, if applicable.
	Form string
	// Field is the field name, if applicable.
	Field string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s [%s] field=%s: %v", e.Op, e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "schema.Reloader.watch").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the formbuilder library.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
