package form

import (
	"context"
	"fmt"

	"github.com/zoobzio/capitan"

	fberrors "github.com/go-drift/formbuilder/pkg/errors"
	"github.com/go-drift/formbuilder/pkg/focus"
)

// Controller is the form-facing view of a field, independent of the
// field's value type. [Field] is the only implementation; the unexported
// methods keep the registration protocol inside this package.
type Controller interface {
	// Name returns the field's registry name.
	Name() string
	// Node returns the field's focus node.
	Node() *focus.Node
	// Validate revalidates the field and reports validity.
	Validate() bool
	// Save commits the field's value through its transform.
	Save() Value
	// Reset restores the field's initial value.
	Reset()
	// Touched reports whether the field has ever been focused.
	Touched() bool
	// Enabled returns the field's effective enable state.
	Enabled() bool
	// SkipDisabled reports the field's disabled-value policy.
	SkipDisabled() bool
	// EffectiveError returns the field's displayed error, if any.
	EffectiveError() string

	bindForm(m *Form)
	setFormEnabled(enabled bool)
	applyPatch(value Value) error
	resetTouched()
}

// Form aggregates named fields into one value and validity snapshot.
// Create forms with [New]; the zero value is not usable.
//
// The registry is pure bookkeeping: the form holds references and the raw
// value snapshot, never a field's value lifecycle. Iteration over fields
// (Validate, Save, Reset, PatchValues) follows registration order.
type Form struct {
	name          string
	fields        map[string]Controller
	order         []string
	values        ValueMap
	initialValues ValueMap
	enabled       bool
	autovalidate  AutovalidateMode
	onChanged     func(fieldName string)
	scope         *focus.Scope

	generation     int
	listeners      map[int]func()
	nextListenerID int
}

// New creates an empty form.
func New(opts ...Option) *Form {
	m := &Form{
		fields:        make(map[string]Controller),
		values:        make(ValueMap),
		initialValues: make(ValueMap),
		enabled:       true,
		listeners:     make(map[int]func()),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.scope == nil {
		m.scope = focus.NewScope()
	}
	return m
}

// Name returns the form's diagnostic name.
func (m *Form) Name() string {
	return m.name
}

// Enabled returns the form-wide enable flag.
func (m *Form) Enabled() bool {
	return m.enabled
}

// Generation returns a counter that increments whenever aggregate state
// changes: registrations, notifying value changes, validation, reset,
// patches. Rendering layers compare generations to decide when to rebuild.
func (m *Form) Generation() int {
	return m.generation
}

// FocusScope returns the scope that field focus nodes attach to.
func (m *Form) FocusScope() *focus.Scope {
	return m.scope
}

// AddListener registers a callback invoked after every generation bump.
// Returns an unsubscribe function.
func (m *Form) AddListener(fn func()) func() {
	if m.listeners == nil {
		m.listeners = make(map[int]func())
	}
	id := m.nextListenerID
	m.nextListenerID++
	m.listeners[id] = fn

	return func() {
		delete(m.listeners, id)
	}
}

// RegisterField adds a field to the registry under its name. Registering
// a second field under a live name replaces the prior entry (last writer
// wins); the replacement is reported as a registry error and emitted as a
// signal rather than failing. [NewField] calls this; direct calls are only
// needed when re-registering a standalone field.
func (m *Form) RegisterField(ctrl Controller) {
	if ctrl == nil || m.fields == nil {
		return
	}
	name := ctrl.Name()
	existing, present := m.fields[name]
	if present && existing != ctrl {
		fberrors.Report(&fberrors.Error{
			Op:    "form.RegisterField",
			Kind:  fberrors.KindRegistry,
			Form:  m.name,
			Field: name,
			Err:   fmt.Errorf("field name already registered, previous entry replaced"),
		})
		capitan.Emit(context.Background(), FieldReplaced,
			KeyForm.Field(m.name),
			KeyField.Field(name),
		)
	}
	if !present {
		m.order = append(m.order, name)
	}
	m.fields[name] = ctrl
	ctrl.bindForm(m)
	m.bumpGeneration()
	capitan.Emit(context.Background(), FieldRegistered,
		KeyForm.Field(m.name),
		KeyField.Field(name),
	)
}

// UnregisterField removes a field from the registry. Stale detaches are
// a no-op: if another field has since been registered under the same
// name, the registry entry and snapshot value are left alone.
func (m *Form) UnregisterField(ctrl Controller) {
	if ctrl == nil || m.fields == nil {
		return
	}
	name := ctrl.Name()
	if m.fields[name] != ctrl {
		return
	}
	delete(m.fields, name)
	delete(m.values, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.bumpGeneration()
}

// Controller returns the registered field for name, or nil.
func (m *Form) Controller(name string) Controller {
	return m.fields[name]
}

// Names returns the registered field names in registration order.
func (m *Form) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// isRegistered reports whether ctrl currently owns name in the registry.
func (m *Form) isRegistered(name string, ctrl Controller) bool {
	return m.fields[name] == ctrl
}

// SetFieldValue updates the raw snapshot entry for name. The notify hint
// distinguishes user-triggered changes, which fire the change callback and
// bump the generation so rendering layers refresh, from programmatic ones,
// which update the snapshot silently.
func (m *Form) SetFieldValue(name string, value Value, notify bool) {
	if m.values == nil {
		return
	}
	m.values[name] = value
	if !notify {
		return
	}
	if m.onChanged != nil {
		m.onChanged(name)
	}
	m.bumpGeneration()
}

// RemoveFieldValue drops the snapshot entry for name. Fields with the
// skipDisabled policy call this when they become disabled.
func (m *Form) RemoveFieldValue(name string, notify bool) {
	if m.values == nil {
		return
	}
	delete(m.values, name)
	if notify {
		m.bumpGeneration()
	}
}

// Values returns a copy of the raw untransformed snapshot.
func (m *Form) Values() ValueMap {
	out := make(ValueMap, len(m.values))
	for name, v := range m.values {
		out[name] = v
	}
	return out
}

// fieldValue returns the raw snapshot entry for name.
func (m *Form) fieldValue(name string) (Value, bool) {
	v, ok := m.values[name]
	return v, ok
}

// initialValue returns the form-level initial for name.
func (m *Form) initialValue(name string) (Value, bool) {
	v, ok := m.initialValues[name]
	return v, ok
}

// SetInitialValues merges form-level defaults. Only fields that register
// afterwards observe them; already-registered fields keep their resolved
// initial. Use PatchValues to change current values.
func (m *Form) SetInitialValues(values map[string]any) {
	if m.initialValues == nil {
		m.initialValues = make(ValueMap)
	}
	for name, v := range values {
		m.initialValues[name] = ValueOf(v)
	}
}

// Validate revalidates every registered field in registration order and
// returns true only if all pass. The pass never short-circuits: every
// field's error state is updated even after an early failure, so a
// rendering layer can show all errors at once.
func (m *Form) Validate() bool {
	invalid := 0
	for _, name := range m.order {
		if !m.fields[name].Validate() {
			invalid++
		}
	}
	m.bumpGeneration()
	if invalid > 0 {
		capitan.Emit(context.Background(), FormValidationFailed,
			KeyForm.Field(m.name),
			KeyFieldCount.Field(len(m.order)),
			KeyInvalidCount.Field(invalid),
		)
		return false
	}
	capitan.Emit(context.Background(), FormValidated,
		KeyForm.Field(m.name),
		KeyFieldCount.Field(len(m.order)),
	)
	return true
}

// Save commits every registered field through its transform and returns
// the aggregated values in one map. Disabled fields with the skipDisabled
// policy are left out; other disabled fields are included as-is. Save does
// not validate; callers typically gate it behind Validate.
func (m *Form) Save() ValueMap {
	out := make(ValueMap, len(m.order))
	for _, name := range m.order {
		ctrl := m.fields[name]
		if ctrl.SkipDisabled() && !ctrl.Enabled() {
			continue
		}
		out[name] = ctrl.Save()
	}
	capitan.Emit(context.Background(), FormSaved,
		KeyForm.Field(m.name),
		KeyFieldCount.Field(len(out)),
	)
	return out
}

// Reset restores every registered field to its initial value in
// registration order and clears all touched flags. The form-level reset
// is the one path that resets touched.
func (m *Form) Reset() {
	for _, name := range m.order {
		m.fields[name].Reset()
	}
	for _, name := range m.order {
		m.fields[name].resetTouched()
	}
	m.bumpGeneration()
	capitan.Emit(context.Background(), FormReset,
		KeyForm.Field(m.name),
		KeyFieldCount.Field(len(m.order)),
	)
}

// PatchValues pushes values down into currently registered fields, each
// field converting and revalidating per its own policy. Patch entries
// without a registered field are ignored, never stored: a field that
// registers later does not pick up an old patch. Conversion failures are
// reported per field and skip just that entry.
func (m *Form) PatchValues(patch map[string]any) {
	if len(patch) == 0 {
		return
	}
	patched := 0
	for _, name := range m.order {
		raw, ok := patch[name]
		if !ok {
			continue
		}
		if err := m.fields[name].applyPatch(ValueOf(raw)); err != nil {
			fberrors.Report(&fberrors.Error{
				Op:    "form.PatchValues",
				Kind:  fberrors.KindPatch,
				Form:  m.name,
				Field: name,
				Err:   err,
			})
			continue
		}
		patched++
	}
	m.bumpGeneration()
	capitan.Emit(context.Background(), FormPatched,
		KeyForm.Field(m.name),
		KeyFieldCount.Field(patched),
	)
}

// SetEnabled flips the form-wide enable flag and propagates it to every
// registered field. Fields with the skipDisabled policy leave the value
// snapshot while disabled and rejoin it when re-enabled.
func (m *Form) SetEnabled(enabled bool) {
	if m.enabled == enabled {
		return
	}
	m.enabled = enabled
	for _, name := range m.order {
		m.fields[name].setFormEnabled(enabled)
	}
	m.bumpGeneration()
}

// Dispose drops the registry, snapshot, and listeners. Fields are not
// disposed: their creators own them, and their later Dispose calls
// degrade to no-ops against a disposed form.
func (m *Form) Dispose() {
	m.fields = nil
	m.order = nil
	m.values = nil
	m.listeners = nil
}

func (m *Form) bumpGeneration() {
	m.generation++
	// Copy before invoking so a listener may unsubscribe itself.
	fns := make([]func(), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn()
	}
}

// FieldOf returns the typed field registered under name, or nil when the
// name is unknown or registered with a different value type.
func FieldOf[T any](m *Form, name string) *Field[T] {
	if m == nil {
		return nil
	}
	f, _ := m.fields[name].(*Field[T])
	return f
}
