// Package form provides headless form state management: named field
// controllers that register with an aggregating parent form, synchronizing
// value state, validation, focus, and lifecycle without any rendering
// dependency.
//
// # Components
//
// Two cooperating types:
//
//   - [Field] is a typed per-field controller owning a single value, its
//     validation status, touched and focus state, and an optional transform
//     applied when the form collects values.
//   - [Form] is the aggregating parent holding a registry of named fields,
//     with coordinated operations (Validate, Save, Reset, PatchValues) and
//     cross-field concerns (enable propagation, form-level initial values).
//
// # Wiring
//
// Fields take their form as an explicit constructor argument; there is no
// ambient lookup. A nil form is legal and yields a standalone field:
//
//	login := form.New(
//	    form.WithInitialValues(map[string]any{"remember": true}),
//	    form.WithAutovalidate(form.AutovalidateAfterTouched),
//	)
//	email := form.NewField[string](login, "email",
//	    form.WithValidators(validators.Required[string]("email is required")),
//	)
//	age := form.NewField[string](login, "age",
//	    form.WithInitial[string]("18"),
//	    form.WithTransform(transforms.ParseInt()),
//	)
//
//	if login.Validate() {
//	    values := login.Save() // map field name -> committed Value
//	}
//	_ = email
//	_ = age
//
// # Value Flow
//
// A field pushes its resolved initial value into the form at registration
// and pushes every subsequent change synchronously. Values always cross the
// boundary untransformed; the transform runs only when the form collects
// values (Save), never against stored state. The form pushes values down
// only during Reset and PatchValues.
//
// # Validation
//
// Validators run in order with first-failure-wins semantics. Validation
// failures are field-local state, not errors: nothing panics and nothing is
// reported, the message is recorded and surfaced through ErrorText.
// A custom error injected with Invalidate (for server-side rejections)
// overlays validator output until the next explicit Validate call.
// Form.Validate never short-circuits, so every field's error state is
// current after one pass.
//
// # Concurrency
//
// The package is single-threaded and cooperative: all mutations happen
// synchronously on the caller's goroutine, nothing blocks, and no locks are
// taken. Callers driving a form from multiple goroutines must serialize
// access themselves, the same way they serialize their UI event loop.
package form
