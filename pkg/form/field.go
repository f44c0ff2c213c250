package form

import (
	"context"
	"fmt"

	"github.com/zoobzio/capitan"

	fberrors "github.com/go-drift/formbuilder/pkg/errors"
	"github.com/go-drift/formbuilder/pkg/focus"
)

// Field is a typed controller for one named form input. It owns the
// current value, the resolved initial value, validation state, the touched
// flag, and a focus node. Create fields with [NewField]; the zero value is
// not usable.
//
// A Field pushes every value change to its form synchronously and
// untransformed. The transform configured with [WithTransform] runs only
// when the form collects values.
type Field[T any] struct {
	name string
	form *Form

	value   T
	present bool

	initial    T
	hasInitial bool

	validators []Validator[T]
	transform  Transform[T]

	validatorError  string
	customError     string
	decorationError string

	touched      bool
	enabled      bool
	formEnabled  bool
	skipDisabled bool
	autovalidate AutovalidateMode

	node             *focus.Node
	ownsNode         bool
	attachedNode     bool
	unsubscribeFocus func()

	onChange func(T)
	onSave   func(Value)
	onReset  func()

	disposed bool
}

// NewField creates a field controller and registers it with the form.
// A nil form yields a standalone field: every operation works, there is
// just no aggregation.
//
// The initial value resolves in precedence order: the [WithInitial] option,
// then the form-level initial for name, else absent. The resolved initial
// is pushed to the form without counting as user modification.
func NewField[T any](form *Form, name string, opts ...FieldOption[T]) *Field[T] {
	f := &Field[T]{
		name:        name,
		enabled:     true,
		formEnabled: true,
		ownsNode:    true,
	}
	for _, opt := range opts {
		opt(f)
	}

	if !f.hasInitial && form != nil {
		if raw, ok := form.initialValue(name); ok {
			if converted, ok := convertValue[T](raw); ok {
				f.initial = converted
				f.hasInitial = true
			} else {
				fberrors.Report(&fberrors.Error{
					Op:    "form.NewField",
					Kind:  fberrors.KindRegistry,
					Form:  form.name,
					Field: name,
					Err:   fmt.Errorf("initial value kind %s does not convert to field type", raw.Kind()),
				})
			}
		}
	}
	if f.hasInitial {
		f.value = f.initial
		f.present = true
	}

	if f.node == nil {
		f.node = focus.NewNode()
	}
	if f.node.Label == "" {
		f.node.Label = name
	}
	f.node.CanRequestFocus = f.enabled
	f.unsubscribeFocus = f.node.AddListener(f.onFocusChange)

	if form != nil {
		form.RegisterField(f)
	}
	return f
}

// Name returns the field's registry name.
func (f *Field[T]) Name() string {
	return f.name
}

// Form returns the owning form, or nil for standalone fields.
func (f *Field[T]) Form() *Form {
	return f.form
}

// Node returns the field's focus node so the input layer can drive focus
// events through it.
func (f *Field[T]) Node() *focus.Node {
	return f.node
}

// Value returns the current value. Absent fields return the zero value;
// use HasValue to distinguish.
func (f *Field[T]) Value() T {
	return f.value
}

// HasValue reports whether the field holds a value at all.
func (f *Field[T]) HasValue() bool {
	return f.present
}

// Touched reports whether the field has ever gained focus.
func (f *Field[T]) Touched() bool {
	return f.touched
}

// Enabled returns the effective enable state: the local flag AND the
// form's flag.
func (f *Field[T]) Enabled() bool {
	return f.enabled && f.formEnabled
}

// SkipDisabled reports whether the field leaves the form's value snapshot
// while disabled.
func (f *Field[T]) SkipDisabled() bool {
	return f.skipDisabled
}

// ErrorText returns the field's own error: the injected custom error if
// set, else the first validator failure. Empty when the field is clean.
func (f *Field[T]) ErrorText() string {
	if f.customError != "" {
		return f.customError
	}
	return f.validatorError
}

// EffectiveError overlays the decoration-supplied error: ErrorText if
// non-empty, else whatever the decoration layer set.
func (f *Field[T]) EffectiveError() string {
	if text := f.ErrorText(); text != "" {
		return text
	}
	return f.decorationError
}

// HasError reports whether any error is showing.
func (f *Field[T]) HasError() bool {
	return f.EffectiveError() != ""
}

// SetDecorationError records an error supplied by the decoration layer.
// It overlays validation output in EffectiveError but is never written or
// cleared by validation itself.
func (f *Field[T]) SetDecorationError(message string) {
	f.decorationError = message
}

// SetValue updates the value and informs the form synchronously with the
// untransformed value. Revalidation follows the autovalidation mode in
// effect.
func (f *Field[T]) SetValue(value T) {
	f.applyValue(value, true, true)
}

// SetValueSilent updates the value without informing the form. The form's
// snapshot keeps the previous value until the next notifying change.
// Local callbacks and autovalidation still run.
func (f *Field[T]) SetValueSilent(value T) {
	f.applyValue(value, false, false)
}

func (f *Field[T]) applyValue(value T, notifyForm, userTriggered bool) {
	f.value = value
	f.present = true
	if notifyForm {
		f.pushValue(userTriggered)
	}
	if f.onChange != nil {
		f.onChange(value)
	}
	if f.shouldAutovalidate() {
		f.validate(true)
	}
	capitan.Emit(context.Background(), FieldChanged,
		KeyForm.Field(f.formName()),
		KeyField.Field(f.name),
	)
}

// clearValue drops the value entirely, leaving the field absent.
func (f *Field[T]) clearValue(notifyForm bool) {
	var zero T
	f.value = zero
	f.present = false
	if notifyForm {
		f.pushValue(false)
	}
	if f.shouldAutovalidate() {
		f.validate(true)
	}
}

// pushValue writes the current untransformed value into the form's
// snapshot. Pushes are dropped once another field owns the name.
func (f *Field[T]) pushValue(notify bool) {
	if f.form == nil || !f.form.isRegistered(f.name, f) {
		return
	}
	if f.skipDisabled && !f.Enabled() {
		return
	}
	f.form.SetFieldValue(f.name, f.snapshotValue(), notify)
}

func (f *Field[T]) snapshotValue() Value {
	if !f.present {
		return AbsentValue()
	}
	return ValueOf(f.value)
}

func (f *Field[T]) shouldAutovalidate() bool {
	mode := f.autovalidate
	if mode == AutovalidateInherit {
		if f.form == nil {
			return false
		}
		mode = f.form.autovalidate
	}
	switch mode {
	case AutovalidateOnChange:
		return true
	case AutovalidateAfterTouched:
		return f.touched
	default:
		return false
	}
}

// Validate clears any injected custom error and runs the validators in
// order, recording the first failure. Returns true when no validator
// error, no custom error, and no decoration error remains. Disabled
// fields validate clean.
func (f *Field[T]) Validate() bool {
	return f.validate(true)
}

func (f *Field[T]) validate(clearCustomError bool) bool {
	if clearCustomError {
		f.customError = ""
	}
	if !f.Enabled() {
		f.validatorError = ""
		return true
	}
	ctx := ValidationContext{FieldName: f.name, Form: f.form}
	f.validatorError = firstError(f.validators, f.value, ctx)
	valid := f.validatorError == "" && f.customError == "" && f.decorationError == ""
	if !valid {
		capitan.Emit(context.Background(), FieldValidationFailed,
			KeyForm.Field(f.formName()),
			KeyField.Field(f.name),
			KeyError.Field(f.EffectiveError()),
		)
	}
	return valid
}

// Invalidate injects an out-of-band error, bypassing the validators, and
// requests focus on the field to steer attention to it. The error shows
// immediately and clears on the next Validate call. This is the one
// validation path with a focus side effect.
func (f *Field[T]) Invalidate(message string) {
	f.customError = message
	f.validate(false)
	f.node.RequestFocus()
	capitan.Emit(context.Background(), FieldInvalidated,
		KeyForm.Field(f.formName()),
		KeyField.Field(f.name),
		KeyError.Field(message),
	)
}

// Reset restores the resolved initial value, clears validator and custom
// errors, pushes the restored value to the form untransformed, and fires
// the reset callback. The touched flag survives; only a form-level Reset
// clears it.
func (f *Field[T]) Reset() {
	f.value = f.initial
	f.present = f.hasInitial
	f.customError = ""
	f.validatorError = ""
	f.pushValue(false)
	if f.onReset != nil {
		f.onReset()
	}
}

// Commit applies the transform to the current value and returns the
// committed Value. Without a transform the value is normalized with
// [ValueOf]. Absent fields commit absent without running the transform.
func (f *Field[T]) Commit() Value {
	if !f.present {
		return AbsentValue()
	}
	if f.transform != nil {
		return f.transform(f.value)
	}
	return ValueOf(f.value)
}

// Save commits the value and fires the save callback.
func (f *Field[T]) Save() Value {
	committed := f.Commit()
	if f.onSave != nil {
		f.onSave(committed)
	}
	return committed
}

// SetEnabled flips the local enable flag. The effective state still ANDs
// in the form's flag. Disabling a skipDisabled field removes its snapshot
// entry; re-enabling pushes the current value straight back.
func (f *Field[T]) SetEnabled(enabled bool) {
	if f.enabled == enabled {
		return
	}
	wasEnabled := f.Enabled()
	f.enabled = enabled
	f.enabledChanged(wasEnabled)
}

// setFormEnabled mirrors the form's enable flag into the field.
func (f *Field[T]) setFormEnabled(enabled bool) {
	if f.formEnabled == enabled {
		return
	}
	wasEnabled := f.Enabled()
	f.formEnabled = enabled
	f.enabledChanged(wasEnabled)
}

func (f *Field[T]) enabledChanged(wasEnabled bool) {
	nowEnabled := f.Enabled()
	if wasEnabled == nowEnabled {
		return
	}
	f.node.CanRequestFocus = nowEnabled
	if f.form == nil || !f.skipDisabled {
		return
	}
	if nowEnabled {
		f.pushValue(false)
	} else if f.form.isRegistered(f.name, f) {
		f.form.RemoveFieldValue(f.name, false)
	}
}

// RequestFocus asks the focus scope to move focus to this field.
func (f *Field[T]) RequestFocus() {
	f.node.RequestFocus()
}

// onFocusChange marks the field touched on its first focus gain. The flag
// never resets except through a form-level Reset.
func (f *Field[T]) onFocusChange(hasFocus bool) {
	if hasFocus && !f.touched {
		f.touched = true
	}
}

// resetTouched clears the touched flag. Only Form.Reset calls this.
func (f *Field[T]) resetTouched() {
	f.touched = false
}

// applyPatch converts a pushed-down value to the field type and applies it
// as a programmatic change. Absent values clear the field.
func (f *Field[T]) applyPatch(value Value) error {
	if value.IsAbsent() {
		f.clearValue(true)
		return nil
	}
	converted, ok := convertValue[T](value)
	if !ok {
		return fmt.Errorf("patch value kind %s does not convert to field type", value.Kind())
	}
	f.applyValue(converted, true, false)
	return nil
}

// bindForm wires the field into a form: mirrors the enable flag, attaches
// an unscoped focus node to the form's scope, and pushes the current
// value. Called by Form.RegisterField.
func (f *Field[T]) bindForm(m *Form) {
	f.form = m
	wasEnabled := f.enabled && f.formEnabled
	f.formEnabled = m.enabled
	if wasEnabled != f.Enabled() {
		f.node.CanRequestFocus = f.Enabled()
	}
	if f.node.Scope() == nil {
		m.scope.Attach(f.node)
		f.attachedNode = true
	}
	f.pushValue(false)
}

// Dispose unregisters the field from its form and releases the focus node
// if the field created it. Borrowed nodes only lose this field's listener;
// their lifecycle belongs to whoever supplied them. Dispose is idempotent.
func (f *Field[T]) Dispose() {
	if f.disposed {
		return
	}
	f.disposed = true
	if f.form != nil {
		f.form.UnregisterField(f)
		f.form = nil
	}
	if f.unsubscribeFocus != nil {
		f.unsubscribeFocus()
		f.unsubscribeFocus = nil
	}
	if f.ownsNode {
		f.node.Dispose()
	} else if f.attachedNode && f.node.Scope() != nil {
		f.node.Scope().Detach(f.node)
	}
}

func (f *Field[T]) formName() string {
	if f.form == nil {
		return ""
	}
	return f.form.name
}
