package form

import "github.com/go-drift/formbuilder/pkg/focus"

// AutovalidateMode controls when a field revalidates after a value change.
type AutovalidateMode int

const (
	// AutovalidateInherit uses the form's mode. Standalone fields with
	// this mode never autovalidate. This is the default for fields; on a
	// form it is equivalent to AutovalidateDisabled.
	AutovalidateInherit AutovalidateMode = iota
	// AutovalidateDisabled only validates on explicit Validate calls.
	AutovalidateDisabled
	// AutovalidateOnChange validates on every value change.
	AutovalidateOnChange
	// AutovalidateAfterTouched validates on value changes once the field
	// has been focused, avoiding premature errors on untouched fields.
	AutovalidateAfterTouched
)

// String returns the mode name.
func (m AutovalidateMode) String() string {
	switch m {
	case AutovalidateInherit:
		return "inherit"
	case AutovalidateDisabled:
		return "disabled"
	case AutovalidateOnChange:
		return "onChange"
	case AutovalidateAfterTouched:
		return "afterTouched"
	default:
		return "invalid"
	}
}

// Option configures a [Form].
type Option func(*Form)

// WithName sets a diagnostic name used in reported errors and signals.
func WithName(name string) Option {
	return func(m *Form) {
		m.name = name
	}
}

// WithInitialValues sets form-level defaults keyed by field name. A field
// registering without a local initial value resolves its initial from this
// map. Values are normalized with [ValueOf].
func WithInitialValues(values map[string]any) Option {
	return func(m *Form) {
		for name, v := range values {
			m.initialValues[name] = ValueOf(v)
		}
	}
}

// WithAutovalidate sets the form-wide autovalidation mode, inherited by
// fields that do not set their own.
func WithAutovalidate(mode AutovalidateMode) Option {
	return func(m *Form) {
		m.autovalidate = mode
	}
}

// WithDisabled creates the form disabled. All fields report an effective
// disabled state until SetEnabled(true).
func WithDisabled() Option {
	return func(m *Form) {
		m.enabled = false
	}
}

// WithOnChanged sets a callback invoked with the field name whenever a
// user-triggered value change reaches the form.
func WithOnChanged(fn func(fieldName string)) Option {
	return func(m *Form) {
		m.onChanged = fn
	}
}

// WithFocusScope supplies an external focus scope instead of the
// form-owned one, for embedding the form's fields in a larger traversal
// order.
func WithFocusScope(scope *focus.Scope) Option {
	return func(m *Form) {
		m.scope = scope
	}
}

// FieldOption configures a [Field].
type FieldOption[T any] func(*Field[T])

// WithInitial sets the field's local initial value. It takes precedence
// over the form-level initial for the field's name.
func WithInitial[T any](value T) FieldOption[T] {
	return func(f *Field[T]) {
		f.initial = value
		f.hasInitial = true
	}
}

// WithValidators appends validators, run in order with first-failure-wins.
func WithValidators[T any](validators ...Validator[T]) FieldOption[T] {
	return func(f *Field[T]) {
		f.validators = append(f.validators, validators...)
	}
}

// WithTransform sets the transform applied when the form collects values.
func WithTransform[T any](transform Transform[T]) FieldOption[T] {
	return func(f *Field[T]) {
		f.transform = transform
	}
}

// WithFieldAutovalidate overrides the form's autovalidation mode for this
// field.
func WithFieldAutovalidate[T any](mode AutovalidateMode) FieldOption[T] {
	return func(f *Field[T]) {
		f.autovalidate = mode
	}
}

// WithFieldDisabled creates the field locally disabled.
func WithFieldDisabled[T any]() FieldOption[T] {
	return func(f *Field[T]) {
		f.enabled = false
	}
}

// WithSkipDisabled excludes the field from the form's value snapshot while
// it is disabled, instead of reporting it disabled-but-present.
func WithSkipDisabled[T any]() FieldOption[T] {
	return func(f *Field[T]) {
		f.skipDisabled = true
	}
}

// WithFocusNode supplies an external focus node. The field borrows it:
// listeners are detached on Dispose but the node itself stays alive, and
// it keeps whatever scope wiring its owner gave it.
func WithFocusNode[T any](node *focus.Node) FieldOption[T] {
	return func(f *Field[T]) {
		f.node = node
		f.ownsNode = false
	}
}

// WithOnChange sets a callback invoked with the new value on every change.
func WithOnChange[T any](fn func(value T)) FieldOption[T] {
	return func(f *Field[T]) {
		f.onChange = fn
	}
}

// WithOnSave sets a callback invoked with the committed value when the
// form saves.
func WithOnSave[T any](fn func(committed Value)) FieldOption[T] {
	return func(f *Field[T]) {
		f.onSave = fn
	}
}

// WithOnReset sets a callback invoked after the field resets.
func WithOnReset[T any](fn func()) FieldOption[T] {
	return func(f *Field[T]) {
		f.onReset = fn
	}
}
