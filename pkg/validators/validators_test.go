package validators_test

import (
	"strings"
	"testing"

	"github.com/go-drift/formbuilder/pkg/form"
	"github.com/go-drift/formbuilder/pkg/validators"
)

var noCtx form.ValidationContext

func TestRequired(t *testing.T) {
	rule := validators.Required[string]("")

	if msg := rule("value", noCtx); msg != "" {
		t.Errorf("Required(%q) = %q, want pass", "value", msg)
	}
	if msg := rule("", noCtx); msg == "" {
		t.Error("Required(\"\") passed")
	}
	if msg := rule("   ", noCtx); msg == "" {
		t.Error("Required on whitespace passed")
	}
}

func TestRequiredCustomMessage(t *testing.T) {
	rule := validators.Required[string]("email is required")
	if msg := rule("", noCtx); msg != "email is required" {
		t.Errorf("message = %q, want custom text", msg)
	}
}

func TestRequiredSlice(t *testing.T) {
	rule := validators.Required[[]string]("")
	if msg := rule(nil, noCtx); msg == "" {
		t.Error("Required on nil slice passed")
	}
	if msg := rule([]string{"a"}, noCtx); msg != "" {
		t.Errorf("Required on non-empty slice = %q", msg)
	}
}

func TestRequiredBool(t *testing.T) {
	rule := validators.Required[bool]("accept the terms")
	if msg := rule(false, noCtx); msg != "accept the terms" {
		t.Errorf("Required(false) = %q", msg)
	}
	if msg := rule(true, noCtx); msg != "" {
		t.Errorf("Required(true) = %q, want pass", msg)
	}
}

func TestMinMaxLength(t *testing.T) {
	tests := []struct {
		name string
		rule form.Validator[string]
		in   string
		pass bool
	}{
		{"min under", validators.MinLength(3, ""), "ab", false},
		{"min exact", validators.MinLength(3, ""), "abc", true},
		{"min multibyte", validators.MinLength(3, ""), "äöü", true},
		{"min empty optional pass", validators.MinLength(3, ""), "", true},
		{"max over", validators.MaxLength(3, ""), "abcd", false},
		{"max exact", validators.MaxLength(3, ""), "abc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.rule(tt.in, noCtx)
			if (msg == "") != tt.pass {
				t.Errorf("rule(%q) = %q, want pass=%v", tt.in, msg, tt.pass)
			}
		})
	}
}

func TestPattern(t *testing.T) {
	rule := validators.Pattern(`^[a-z]+$`, "lowercase only")

	if msg := rule("abc", noCtx); msg != "" {
		t.Errorf("Pattern(abc) = %q", msg)
	}
	if msg := rule("Abc", noCtx); msg != "lowercase only" {
		t.Errorf("Pattern(Abc) = %q", msg)
	}
	if msg := rule("", noCtx); msg != "" {
		t.Errorf("Pattern on empty = %q, want optional pass", msg)
	}
}

func TestMinMax(t *testing.T) {
	min := validators.Min(18, "")
	if msg := min(17, noCtx); msg == "" {
		t.Error("Min(18)(17) passed")
	}
	if msg := min(18, noCtx); msg != "" {
		t.Errorf("Min(18)(18) = %q", msg)
	}

	max := validators.Max(2.5, "")
	if msg := max(2.6, noCtx); msg == "" {
		t.Error("Max(2.5)(2.6) passed")
	}
	if msg := max(2.5, noCtx); msg != "" {
		t.Errorf("Max(2.5)(2.5) = %q", msg)
	}
}

func TestOneOf(t *testing.T) {
	rule := validators.OneOf([]string{"red", "green"}, "")

	if msg := rule("red", noCtx); msg != "" {
		t.Errorf("OneOf(red) = %q", msg)
	}
	if msg := rule("blue", noCtx); msg == "" {
		t.Error("OneOf(blue) passed")
	}
	if msg := rule("", noCtx); msg != "" {
		t.Errorf("OneOf on zero value = %q, want optional pass", msg)
	}
}

func TestEach(t *testing.T) {
	rule := validators.Each(validators.OneOf([]string{"go", "rust"}, "unknown tag"))

	if msg := rule([]string{"go", "rust"}, noCtx); msg != "" {
		t.Errorf("Each on valid slice = %q", msg)
	}
	if msg := rule([]string{"go", "cobol"}, noCtx); msg != "unknown tag" {
		t.Errorf("Each on invalid slice = %q", msg)
	}
	if msg := rule(nil, noCtx); msg != "" {
		t.Errorf("Each on empty slice = %q", msg)
	}
}

func TestRule(t *testing.T) {
	rule := validators.Rule[string]("email", "")

	if msg := rule("ada@example.com", noCtx); msg != "" {
		t.Errorf("Rule(email) on valid address = %q", msg)
	}
	if msg := rule("not-an-email", noCtx); msg == "" {
		t.Error("Rule(email) on invalid address passed")
	}
	if msg := rule("", noCtx); msg != "" {
		t.Errorf("Rule(email) on empty = %q, want optional pass", msg)
	}
	if msg := rule("not-an-email", noCtx); !strings.Contains(msg, "email") {
		t.Errorf("default message %q does not mention the rule", msg)
	}
}

func TestRuleNumericTag(t *testing.T) {
	rule := validators.Rule[int]("gte=0,lte=130", "out of range")

	if msg := rule(36, noCtx); msg != "" {
		t.Errorf("Rule(gte,lte)(36) = %q", msg)
	}
	if msg := rule(200, noCtx); msg != "out of range" {
		t.Errorf("Rule(gte,lte)(200) = %q", msg)
	}
}

func TestValidatorsWithField(t *testing.T) {
	f := form.NewField[string](nil, "email",
		form.WithValidators(
			validators.Required[string](""),
			validators.Rule[string]("email", ""),
		),
	)

	f.SetValue("nope")
	if f.Validate() {
		t.Error("Validate() = true on invalid email")
	}
	f.SetValue("ada@example.com")
	if !f.Validate() {
		t.Errorf("Validate() = false, error %q", f.ErrorText())
	}
}
