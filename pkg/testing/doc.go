// Package testing provides a form testing harness for FormBuilder.
//
// # Quick Start
//
// Wrap a form in a tester, enter values, and make assertions:
//
//	func TestSignup(t *testing.T) {
//	    m := form.New(form.WithName("signup"))
//	    form.NewField[string](m, "email",
//	        form.WithValidators(validators.Required[string]("")))
//
//	    ft := fbtest.NewFormTesterWithT(t, m)
//	    ft.EnterText("email", "dev@example.com")
//
//	    if _, err := ft.Submit(); err != nil {
//	        t.Fatalf("submit: %v", err)
//	    }
//	    ft.ExpectTouched(t, "email")
//	}
//
// # Typed Entry
//
// Enter writes any field type through the same path a bound input widget
// uses, so touched flags, autovalidation, and form snapshots behave
// exactly as they would in an application:
//
//	fbtest.Enter(ft, "age", int64(30))
//	fbtest.Enter(ft, "topics", []string{"go", "cli"})
//
// # Signal Recording
//
// Record the capitan signals a form emits and assert on them:
//
//	rec := fbtest.RecordSignalsWithT(t, "signup")
//	ft.EnterText("email", "dev@example.com")
//	if got := rec.Count(form.FieldChanged); got != 1 {
//	    t.Errorf("expected 1 change event, got %d", got)
//	}
//
// Recording matches events by form name, so forms under test should be
// created with form.WithName.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import fbtest "github.com/go-drift/formbuilder/pkg/testing"
package testing
