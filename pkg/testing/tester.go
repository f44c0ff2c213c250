package testing

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/go-drift/formbuilder/pkg/form"
)

// FormTester drives a form the way a bound widget layer would: it enters
// typed values, steps focus, and asserts on aggregate state. It performs
// no rendering; fields are exercised through the same controller surface
// input widgets use, so touched flags and autovalidation behave as they
// would in an application.
type FormTester struct {
	form *form.Form
	tb   testing.TB
}

// NewFormTester wraps a form for driving from tests. Call Cleanup when
// done, or use NewFormTesterWithT instead.
func NewFormTester(m *form.Form) *FormTester {
	return &FormTester{form: m}
}

// NewFormTesterWithT wraps a form and disposes it via t.Cleanup. Misuse,
// such as entering into a field that does not exist, fails the test
// instead of panicking. This is the recommended constructor for tests.
func NewFormTesterWithT(t *testing.T, m *form.Form) *FormTester {
	ft := &FormTester{form: m, tb: t}
	t.Cleanup(ft.Cleanup)
	return ft
}

// Cleanup disposes the wrapped form. Must be called if not using
// NewFormTesterWithT.
func (ft *FormTester) Cleanup() {
	ft.form.Dispose()
}

// Form returns the wrapped form.
func (ft *FormTester) Form() *form.Form {
	return ft.form
}

// fail reports tester misuse: through the test when one is attached,
// otherwise by panicking.
func (ft *FormTester) fail(format string, args ...any) {
	if ft.tb != nil {
		ft.tb.Helper()
		ft.tb.Fatalf(format, args...)
		return
	}
	panic(fmt.Sprintf(format, args...))
}

// controller returns the named field's controller and fails when the
// form has no field under that name.
func (ft *FormTester) controller(name string) form.Controller {
	ctrl := ft.form.Controller(name)
	if ctrl == nil {
		ft.fail("FormTester: no field named %q (have %v)", name, ft.form.Names())
	}
	return ctrl
}

// Enter focuses the named field and sets its value, the same sequence a
// bound input widget produces. The field must be registered with value
// type T exactly; entering an int into an int64 field fails.
func Enter[T any](ft *FormTester, name string, value T) {
	fld := form.FieldOf[T](ft.form, name)
	if fld == nil {
		if ft.form.Controller(name) == nil {
			ft.fail("FormTester: no field named %q (have %v)", name, ft.form.Names())
		}
		ft.fail("FormTester: field %q does not hold %T values", name, value)
		return
	}
	fld.RequestFocus()
	fld.SetValue(value)
}

// EnterText enters a string value. Shorthand for Enter with a string.
func (ft *FormTester) EnterText(name, text string) {
	Enter(ft, name, text)
}

// Focus moves focus to the named field without changing its value.
func (ft *FormTester) Focus(name string) {
	ft.controller(name).Node().RequestFocus()
}

// FocusNext advances focus to the next traversable field, as Tab would.
// Returns false when the form has no focusable field.
func (ft *FormTester) FocusNext() bool {
	return ft.form.FocusScope().MoveFocus(1)
}

// FocusPrev moves focus to the previous traversable field, as Shift+Tab
// would. Returns false when the form has no focusable field.
func (ft *FormTester) FocusPrev() bool {
	return ft.form.FocusScope().MoveFocus(-1)
}

// Focused returns the name of the field holding primary focus, or ""
// when nothing in the form is focused.
func (ft *FormTester) Focused() string {
	primary := ft.form.FocusScope().Primary()
	if primary == nil {
		return ""
	}
	for _, name := range ft.form.Names() {
		if ctrl := ft.form.Controller(name); ctrl != nil && ctrl.Node() == primary {
			return name
		}
	}
	return ""
}

// Validate runs a full validation pass over the form.
func (ft *FormTester) Validate() bool {
	return ft.form.Validate()
}

// Submit validates and saves. Returns the committed values, or an error
// listing every field failure when validation does not pass.
func (ft *FormTester) Submit() (form.ValueMap, error) {
	if !ft.form.Validate() {
		var failures []string
		for _, name := range ft.form.Names() {
			if msg := ft.form.Controller(name).EffectiveError(); msg != "" {
				failures = append(failures, fmt.Sprintf("%s: %s", name, msg))
			}
		}
		return nil, fmt.Errorf("submit blocked: %s", strings.Join(failures, "; "))
	}
	return ft.form.Save(), nil
}

// ExpectValues compares the form's raw value snapshot against want.
// The snapshot covers every registered field; fields without a value
// appear as nil. Want entries are normalized the way field values are,
// so plain Go literals compare correctly (an int compares equal to an
// int64 field value).
func (ft *FormTester) ExpectValues(t *testing.T, want map[string]any) {
	t.Helper()
	norm := make(map[string]any, len(want))
	for name, v := range want {
		norm[name] = form.ValueOf(v).Any()
	}
	got := ft.form.Values().Raw()
	if diff := cmp.Diff(norm, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("form values mismatch (-want +got):\n%s", diff)
	}
}

// ExpectSaved commits the form and compares the saved values against
// want. Saving applies each field's transform before collection.
func (ft *FormTester) ExpectSaved(t *testing.T, want map[string]any) {
	t.Helper()
	norm := make(map[string]any, len(want))
	for name, v := range want {
		norm[name] = form.ValueOf(v).Any()
	}
	got := ft.form.Save().Raw()
	if diff := cmp.Diff(norm, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("saved values mismatch (-want +got):\n%s", diff)
	}
}

// ExpectErrors compares the showing error per field against want. Only
// fields with a non-empty error appear in the comparison; pass an empty
// map to assert the form shows no errors. ExpectErrors reads existing
// state, so run Validate first when asserting on validator output.
func (ft *FormTester) ExpectErrors(t *testing.T, want map[string]string) {
	t.Helper()
	got := make(map[string]string)
	for _, name := range ft.form.Names() {
		if msg := ft.form.Controller(name).EffectiveError(); msg != "" {
			got[name] = msg
		}
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("field errors mismatch (-want +got):\n%s", diff)
	}
}

// ExpectTouched compares the set of touched fields against names. Pass
// no names to assert nothing has been touched.
func (ft *FormTester) ExpectTouched(t *testing.T, names ...string) {
	t.Helper()
	var got []string
	for _, name := range ft.form.Names() {
		if ft.form.Controller(name).Touched() {
			got = append(got, name)
		}
	}
	want := append([]string(nil), names...)
	sort.Strings(want)
	sort.Strings(got)
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("touched fields mismatch (-want +got):\n%s", diff)
	}
}
