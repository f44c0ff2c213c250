package form

// ValidationContext carries the identity of the field being validated and
// a reference to its form, so validators can implement cross-field rules.
// Form is nil for standalone fields.
type ValidationContext struct {
	FieldName string
	Form      *Form
}

// FieldValue returns the form's current raw value for another field.
// Returns false for standalone fields or unknown names.
func (c ValidationContext) FieldValue(name string) (Value, bool) {
	if c.Form == nil {
		return Value{}, false
	}
	return c.Form.fieldValue(name)
}

// Validator checks a field value and returns an error message, or the empty
// string when the value is valid. Validators must not mutate form state.
type Validator[T any] func(value T, ctx ValidationContext) string

// firstError runs validators in order and returns the first failure.
func firstError[T any](validators []Validator[T], value T, ctx ValidationContext) string {
	for _, validator := range validators {
		if validator == nil {
			continue
		}
		if message := validator(value, ctx); message != "" {
			return message
		}
	}
	return ""
}
