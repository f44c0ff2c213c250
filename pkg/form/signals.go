package form

import "github.com/zoobzio/capitan"

// Field lifecycle signals.
var (
	// FieldRegistered is emitted when a field joins a form's registry.
	FieldRegistered = capitan.NewSignal(
		"formbuilder.field.registered",
		"Field registered with a form",
	)

	// FieldReplaced is emitted when a registration displaces a live field
	// with the same name.
	FieldReplaced = capitan.NewSignal(
		"formbuilder.field.replaced",
		"Field registration replaced a previous entry",
	)

	// FieldChanged is emitted on every field value change.
	FieldChanged = capitan.NewSignal(
		"formbuilder.field.changed",
		"Field value changed",
	)

	// FieldValidationFailed is emitted when a field validates invalid.
	FieldValidationFailed = capitan.NewSignal(
		"formbuilder.field.validation.failed",
		"Field validation failed",
	)

	// FieldInvalidated is emitted when an out-of-band error is injected.
	FieldInvalidated = capitan.NewSignal(
		"formbuilder.field.invalidated",
		"Field received an injected error",
	)
)

// Form aggregate signals.
var (
	// FormValidated is emitted when a full validation pass succeeds.
	FormValidated = capitan.NewSignal(
		"formbuilder.form.validated",
		"Form validation passed",
	)

	// FormValidationFailed is emitted when a full validation pass fails.
	FormValidationFailed = capitan.NewSignal(
		"formbuilder.form.validation.failed",
		"Form validation failed",
	)

	// FormSaved is emitted when the form collects committed values.
	FormSaved = capitan.NewSignal(
		"formbuilder.form.saved",
		"Form values saved",
	)

	// FormReset is emitted when the form resets all fields.
	FormReset = capitan.NewSignal(
		"formbuilder.form.reset",
		"Form reset to initial values",
	)

	// FormPatched is emitted when values are pushed down into fields.
	FormPatched = capitan.NewSignal(
		"formbuilder.form.patched",
		"Form values patched",
	)
)
