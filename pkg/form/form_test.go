package form_test

import (
	"strconv"
	"testing"

	fberrors "github.com/go-drift/formbuilder/pkg/errors"
	"github.com/go-drift/formbuilder/pkg/form"
)

func parseIntTransform() form.Transform[string] {
	return func(v string) form.Value {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return form.StringValue(v)
		}
		return form.IntValue(n)
	}
}

type capturingHandler struct {
	errors []*fberrors.Error
}

func (h *capturingHandler) HandleError(e *fberrors.Error)      { h.errors = append(h.errors, e) }
func (h *capturingHandler) HandlePanic(p *fberrors.PanicError) {}

// --- Registration tests ---

func TestForm_RegistrationPushesInitial(t *testing.T) {
	m := form.New()
	form.NewField[string](m, "email", form.WithInitial[string]("a@b.c"))

	got, ok := m.Values()["email"].AsString()
	if !ok || got != "a@b.c" {
		t.Errorf(`Values()["email"] = %q, %v, want initial pushed at registration`, got, ok)
	}
}

func TestForm_RegistrationPushesUntransformed(t *testing.T) {
	m := form.New()
	form.NewField[string](m, "age",
		form.WithInitial[string]("18"),
		form.WithTransform(parseIntTransform()),
	)

	if got := m.Values()["age"].Kind(); got != form.KindString {
		t.Errorf("snapshot kind = %s, want untransformed string", got)
	}
}

func TestForm_DuplicateNameLastWriterWins(t *testing.T) {
	handler := &capturingHandler{}
	fberrors.SetHandler(handler)
	defer fberrors.SetHandler(nil)

	m := form.New(form.WithName("signup"))
	first := form.NewField[string](m, "email", form.WithInitial[string]("first@example.com"))
	second := form.NewField[string](m, "email", form.WithInitial[string]("second@example.com"))

	if form.FieldOf[string](m, "email") != second {
		t.Error("registry did not keep the last writer")
	}
	got, _ := m.Values()["email"].AsString()
	if got != "second@example.com" {
		t.Errorf("snapshot = %q, want the replacement's value", got)
	}

	if len(handler.errors) != 1 {
		t.Fatalf("reported %d errors, want 1 replacement warning", len(handler.errors))
	}
	if handler.errors[0].Kind != fberrors.KindRegistry {
		t.Errorf("reported kind = %s, want %s", handler.errors[0].Kind, fberrors.KindRegistry)
	}
	if handler.errors[0].Field != "email" {
		t.Errorf("reported field = %q, want %q", handler.errors[0].Field, "email")
	}

	// The displaced field's detach must not touch the new entry.
	first.Dispose()
	if form.FieldOf[string](m, "email") != second {
		t.Error("stale Dispose removed the replacement from the registry")
	}
	if m.Values()["email"].IsAbsent() {
		t.Error("stale Dispose removed the replacement's snapshot value")
	}
}

func TestForm_StaleFieldPushesDropped(t *testing.T) {
	m := form.New()
	first := form.NewField[string](m, "email", form.WithInitial[string]("first@example.com"))
	form.NewField[string](m, "email", form.WithInitial[string]("second@example.com"))

	first.SetValue("stale write")

	got, _ := m.Values()["email"].AsString()
	if got != "second@example.com" {
		t.Errorf("snapshot = %q, stale field overwrote the live entry", got)
	}
}

func TestForm_UnregisterRemovesSnapshotEntry(t *testing.T) {
	m := form.New()
	f := form.NewField[string](m, "email", form.WithInitial[string]("a@b.c"))

	f.Dispose()

	if _, ok := m.Values()["email"]; ok {
		t.Error("snapshot entry survived unregistration")
	}
	if m.Controller("email") != nil {
		t.Error("registry entry survived unregistration")
	}
}

func TestForm_NamesInRegistrationOrder(t *testing.T) {
	m := form.New()
	for _, name := range []string{"c", "a", "b"} {
		form.NewField[string](m, name)
	}

	got := m.Names()
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}
}

func TestForm_FieldOfTypedLookup(t *testing.T) {
	m := form.New()
	f := form.NewField[string](m, "email")

	if form.FieldOf[string](m, "email") != f {
		t.Error("FieldOf[string] did not return the field")
	}
	if form.FieldOf[int](m, "email") != nil {
		t.Error("FieldOf[int] returned a string field")
	}
	if form.FieldOf[string](m, "missing") != nil {
		t.Error("FieldOf returned a field for an unknown name")
	}
	if form.FieldOf[string](nil, "email") != nil {
		t.Error("FieldOf on nil form returned a field")
	}
}

// --- Validation tests ---

func TestForm_ValidateAllFields(t *testing.T) {
	m := form.New()
	form.NewField[string](m, "a", form.WithInitial[string]("ok"), form.WithValidators(nonEmpty("a required")))
	form.NewField[string](m, "b", form.WithValidators(nonEmpty("b required")))

	if m.Validate() {
		t.Error("Validate() = true with an invalid field")
	}

	form.FieldOf[string](m, "b").SetValue("filled")
	if !m.Validate() {
		t.Error("Validate() = false with all fields valid")
	}
}

func TestForm_ValidateNoShortCircuit(t *testing.T) {
	m := form.New()
	form.NewField[string](m, "first", form.WithValidators(nonEmpty("first required")))
	form.NewField[string](m, "second", form.WithValidators(nonEmpty("second required")))

	m.Validate()

	// Both fields must show their error even though the first already failed.
	if got := form.FieldOf[string](m, "first").ErrorText(); got != "first required" {
		t.Errorf("first.ErrorText() = %q", got)
	}
	if got := form.FieldOf[string](m, "second").ErrorText(); got != "second required" {
		t.Errorf("second.ErrorText() = %q, want error despite earlier failure", got)
	}
}

func TestForm_ValidateClearsInjectedErrors(t *testing.T) {
	m := form.New()
	f := form.NewField[string](m, "email", form.WithInitial[string]("a@b.c"))

	f.Invalidate("rejected")
	if !m.Validate() {
		t.Error("Validate() = false, want injected error cleared by the pass")
	}
	if f.HasError() {
		t.Error("injected error survived Form.Validate")
	}
}

func TestForm_CrossFieldValidator(t *testing.T) {
	m := form.New()
	form.NewField[string](m, "password", form.WithInitial[string]("secret1"))
	confirm := form.NewField[string](m, "confirm",
		form.WithInitial[string]("secret2"),
		form.WithValidators(func(v string, ctx form.ValidationContext) string {
			other, _ := ctx.FieldValue("password")
			if s, _ := other.AsString(); s != v {
				return "passwords do not match"
			}
			return ""
		}),
	)

	if m.Validate() {
		t.Error("Validate() = true with mismatched passwords")
	}

	confirm.SetValue("secret1")
	if !m.Validate() {
		t.Errorf("Validate() = false, error %q", confirm.ErrorText())
	}
}

// --- Save tests ---

func TestForm_SaveAppliesTransforms(t *testing.T) {
	m := form.New()
	form.NewField[string](m, "age",
		form.WithInitial[string]("18"),
		form.WithTransform(parseIntTransform()),
	)
	form.NewField[string](m, "name", form.WithInitial[string]("ada"))

	saved := m.Save()

	if n, ok := saved["age"].AsInt(); !ok || n != 18 {
		t.Errorf(`saved["age"] = %v, want IntValue(18)`, saved["age"])
	}
	if s, ok := saved["name"].AsString(); !ok || s != "ada" {
		t.Errorf(`saved["name"] = %q, want passthrough`, s)
	}
}

func TestForm_AgeScenario(t *testing.T) {
	m := form.New()
	age := form.NewField[string](m, "age",
		form.WithInitial[string]("18"),
		form.WithTransform(parseIntTransform()),
	)

	if n, _ := m.Save()["age"].AsInt(); n != 18 {
		t.Errorf("Save() before edit = %d, want 18", n)
	}

	age.SetValue("21")
	if n, _ := m.Save()["age"].AsInt(); n != 21 {
		t.Errorf("Save() after edit = %d, want 21", n)
	}

	m.Reset()
	if got := age.Value(); got != "18" {
		t.Errorf("Value() after Reset = %q, want %q", got, "18")
	}
}

func TestForm_SaveIncludesDisabledByDefault(t *testing.T) {
	m := form.New()
	f := form.NewField[string](m, "email", form.WithInitial[string]("a@b.c"))

	f.SetEnabled(false)
	if _, ok := m.Save()["email"]; !ok {
		t.Error("disabled field without skipDisabled missing from Save()")
	}
}

// --- skipDisabled tests ---

func TestForm_SkipDisabledExcludesFromSnapshot(t *testing.T) {
	m := form.New()
	f := form.NewField[string](m, "promo",
		form.WithInitial[string]("CODE"),
		form.WithSkipDisabled[string](),
	)
	form.NewField[string](m, "email", form.WithInitial[string]("a@b.c"))

	if _, ok := m.Values()["promo"]; !ok {
		t.Fatal("enabled skipDisabled field missing from snapshot")
	}

	f.SetEnabled(false)
	if _, ok := m.Values()["promo"]; ok {
		t.Error("disabled skipDisabled field still in snapshot")
	}
	if _, ok := m.Save()["promo"]; ok {
		t.Error("disabled skipDisabled field still in Save()")
	}
	if _, ok := m.Values()["email"]; !ok {
		t.Error("unrelated field dropped from snapshot")
	}

	f.SetEnabled(true)
	got, _ := m.Values()["promo"].AsString()
	if got != "CODE" {
		t.Errorf("snapshot after re-enable = %q, want value restored", got)
	}
}

func TestForm_DisableFormSkipDisabled(t *testing.T) {
	m := form.New()
	form.NewField[string](m, "promo",
		form.WithInitial[string]("CODE"),
		form.WithSkipDisabled[string](),
	)

	m.SetEnabled(false)
	if _, ok := m.Values()["promo"]; ok {
		t.Error("form disable did not remove skipDisabled entry")
	}

	m.SetEnabled(true)
	if _, ok := m.Values()["promo"]; !ok {
		t.Error("form re-enable did not restore skipDisabled entry")
	}
}

// --- Reset tests ---

func TestForm_ResetClearsTouched(t *testing.T) {
	m := form.New()
	f := form.NewField[string](m, "email")

	f.RequestFocus()
	if !f.Touched() {
		t.Fatal("Touched() = false after focus")
	}

	m.Reset()
	if f.Touched() {
		t.Error("form-level Reset left touched set")
	}
}

func TestForm_ResetRestoresAllFields(t *testing.T) {
	m := form.New(form.WithInitialValues(map[string]any{"b": "bee"}))
	a := form.NewField[string](m, "a", form.WithInitial[string]("ay"))
	b := form.NewField[string](m, "b")

	a.SetValue("changed")
	b.SetValue("changed")
	m.Reset()

	if got := a.Value(); got != "ay" {
		t.Errorf("a.Value() = %q, want %q", got, "ay")
	}
	if got := b.Value(); got != "bee" {
		t.Errorf("b.Value() = %q, want form-level initial restored", got)
	}
}

// --- Patch tests ---

func TestForm_PatchValues(t *testing.T) {
	m := form.New()
	email := form.NewField[string](m, "email", form.WithInitial[string]("old@example.com"))
	age := form.NewField[int](m, "age", form.WithInitial[int](18))

	m.PatchValues(map[string]any{
		"email":   "new@example.com",
		"age":     21,
		"unknown": "ignored",
	})

	if got := email.Value(); got != "new@example.com" {
		t.Errorf("email.Value() = %q", got)
	}
	if got := age.Value(); got != 21 {
		t.Errorf("age.Value() = %d", got)
	}
	if _, ok := m.Values()["unknown"]; ok {
		t.Error("patch stored a value for an unregistered name")
	}
}

func TestForm_PatchIgnoredForLateRegistrant(t *testing.T) {
	m := form.New()
	m.PatchValues(map[string]any{"email": "patched@example.com"})

	late := form.NewField[string](m, "email")
	if late.HasValue() {
		t.Errorf("late registrant picked up a prior patch: %q", late.Value())
	}
}

func TestForm_PatchConversionFailureSkipsEntry(t *testing.T) {
	handler := &capturingHandler{}
	fberrors.SetHandler(handler)
	defer fberrors.SetHandler(nil)

	m := form.New()
	age := form.NewField[int](m, "age", form.WithInitial[int](18))
	email := form.NewField[string](m, "email")

	m.PatchValues(map[string]any{
		"age":   "not a number",
		"email": "a@b.c",
	})

	if got := age.Value(); got != 18 {
		t.Errorf("age.Value() = %d, want untouched on conversion failure", got)
	}
	if got := email.Value(); got != "a@b.c" {
		t.Errorf("email.Value() = %q, want other entries applied", got)
	}
	if len(handler.errors) != 1 || handler.errors[0].Kind != fberrors.KindPatch {
		t.Errorf("reported errors = %v, want one patch error", handler.errors)
	}
}

func TestForm_PatchAbsentClearsField(t *testing.T) {
	m := form.New()
	email := form.NewField[string](m, "email", form.WithInitial[string]("a@b.c"))

	m.PatchValues(map[string]any{"email": nil})

	if email.HasValue() {
		t.Error("nil patch entry left a value in place")
	}
	if !m.Values()["email"].IsAbsent() {
		t.Error("snapshot entry not absent after nil patch")
	}
}

func TestForm_PatchRevalidates(t *testing.T) {
	m := form.New(form.WithAutovalidate(form.AutovalidateOnChange))
	f := form.NewField[string](m, "email",
		form.WithInitial[string]("a@b.c"),
		form.WithValidators(nonEmpty("required")),
	)

	m.PatchValues(map[string]any{"email": ""})

	if !f.HasError() {
		t.Error("patched field did not revalidate")
	}
}

// --- Initial values tests ---

func TestForm_SetInitialValuesAffectsLateRegistrants(t *testing.T) {
	m := form.New()
	early := form.NewField[string](m, "early")

	m.SetInitialValues(map[string]any{"early": "e", "late": "l"})

	if early.HasValue() {
		t.Error("SetInitialValues changed an already-registered field")
	}

	late := form.NewField[string](m, "late")
	if got := late.Value(); got != "l" {
		t.Errorf("late.Value() = %q, want new initial", got)
	}
}

func TestForm_InitialValueConversionMismatchReported(t *testing.T) {
	handler := &capturingHandler{}
	fberrors.SetHandler(handler)
	defer fberrors.SetHandler(nil)

	m := form.New(form.WithInitialValues(map[string]any{"age": "not a number"}))
	f := form.NewField[int](m, "age")

	if f.HasValue() {
		t.Error("mismatched initial produced a value")
	}
	if len(handler.errors) != 1 || handler.errors[0].Kind != fberrors.KindRegistry {
		t.Errorf("reported errors = %v, want one registry error", handler.errors)
	}
}

// --- Change notification tests ---

func TestForm_OnChangedFiresForUserChanges(t *testing.T) {
	var changed []string
	m := form.New(form.WithOnChanged(func(name string) { changed = append(changed, name) }))
	f := form.NewField[string](m, "email")

	f.SetValue("a@b.c")
	if len(changed) != 1 || changed[0] != "email" {
		t.Fatalf("onChanged saw %v, want [email]", changed)
	}

	// Programmatic paths update the snapshot without the change callback.
	m.PatchValues(map[string]any{"email": "patched@example.com"})
	m.Reset()
	if len(changed) != 1 {
		t.Errorf("onChanged saw %v, want no callbacks for patch and reset", changed)
	}
}

func TestForm_GenerationAndListeners(t *testing.T) {
	m := form.New()
	f := form.NewField[string](m, "email")

	notified := 0
	unsubscribe := m.AddListener(func() { notified++ })

	before := m.Generation()
	f.SetValue("a@b.c")
	if m.Generation() <= before {
		t.Error("generation did not advance on a notifying change")
	}
	if notified == 0 {
		t.Error("listener not notified on a notifying change")
	}

	notified = 0
	unsubscribe()
	f.SetValue("b@c.d")
	if notified != 0 {
		t.Error("listener notified after unsubscribe")
	}
}

func TestForm_SetFieldValueSilent(t *testing.T) {
	m := form.New()
	form.NewField[string](m, "email")

	before := m.Generation()
	m.SetFieldValue("email", form.StringValue("direct"), false)

	if m.Generation() != before {
		t.Error("silent SetFieldValue bumped the generation")
	}
	got, _ := m.Values()["email"].AsString()
	if got != "direct" {
		t.Errorf("snapshot = %q, want silent write applied", got)
	}
}

// --- Multi-select field tests ---

func TestForm_StringsField(t *testing.T) {
	m := form.New()
	f := form.NewField[[]string](m, "tags", form.WithInitial[[]string]([]string{"go"}))

	f.SetValue([]string{"go", "forms"})

	got, ok := m.Values()["tags"].AsStrings()
	if !ok || len(got) != 2 || got[1] != "forms" {
		t.Errorf(`Values()["tags"] = %v, %v`, got, ok)
	}
}

// --- Lifecycle tests ---

func TestForm_DisposeThenFieldDispose(t *testing.T) {
	m := form.New()
	f := form.NewField[string](m, "email")

	m.Dispose()
	f.Dispose() // must not panic against a disposed form

	if m.Controller("email") != nil {
		t.Error("Controller() returned a field after Dispose")
	}
}

func TestForm_StandaloneField(t *testing.T) {
	f := form.NewField[string](nil, "lonely", form.WithInitial[string]("v"))

	if f.Form() != nil {
		t.Error("Form() != nil for standalone field")
	}
	f.SetValue("w")
	if !f.Validate() {
		t.Error("standalone field failed to validate")
	}
	if got, _ := f.Commit().AsString(); got != "w" {
		t.Errorf("Commit() = %q", got)
	}
	f.Dispose()
}
