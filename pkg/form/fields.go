package form

import "github.com/zoobzio/capitan"

// Field keys for form events.
var (
	// KeyForm is the diagnostic name of the form, empty for standalone
	// fields.
	KeyForm = capitan.NewStringKey("form")

	// KeyField is the name of the field involved in the event.
	KeyField = capitan.NewStringKey("field")

	// KeyError is the error message when validation fails or an error is
	// injected.
	KeyError = capitan.NewStringKey("error")

	// KeyFieldCount is the number of fields involved in an aggregate
	// operation.
	KeyFieldCount = capitan.NewIntKey("field_count")

	// KeyInvalidCount is the number of fields that failed a validation
	// pass.
	KeyInvalidCount = capitan.NewIntKey("invalid_count")
)
