package transforms_test

import (
	"testing"

	"github.com/go-drift/formbuilder/pkg/form"
	"github.com/go-drift/formbuilder/pkg/transforms"
)

func TestTrim(t *testing.T) {
	got, _ := transforms.Trim()("  padded  ").AsString()
	if got != "padded" {
		t.Errorf("Trim() = %q, want %q", got, "padded")
	}
}

func TestLowerUpper(t *testing.T) {
	if got, _ := transforms.Lower()("MiXeD").AsString(); got != "mixed" {
		t.Errorf("Lower() = %q", got)
	}
	if got, _ := transforms.Upper()("MiXeD").AsString(); got != "MIXED" {
		t.Errorf("Upper() = %q", got)
	}
}

func TestParseInt(t *testing.T) {
	n, ok := transforms.ParseInt()(" 42 ").AsInt()
	if !ok || n != 42 {
		t.Errorf("ParseInt(42) = %d, %v", n, ok)
	}

	// Unparseable input must survive as the raw string.
	raw, ok := transforms.ParseInt()("forty-two").AsString()
	if !ok || raw != "forty-two" {
		t.Errorf("ParseInt(forty-two) = %q, %v, want raw passthrough", raw, ok)
	}
}

func TestParseFloat(t *testing.T) {
	f, ok := transforms.ParseFloat()("2.5").AsFloat()
	if !ok || f != 2.5 {
		t.Errorf("ParseFloat(2.5) = %g, %v", f, ok)
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"FALSE", false},
		{"yes", true},
		{"No", false},
		{"on", true},
		{"off", false},
		{"1", true},
		{"0", false},
	}
	for _, tt := range tests {
		b, ok := transforms.ParseBool()(tt.in).AsBool()
		if !ok || b != tt.want {
			t.Errorf("ParseBool(%q) = %v, %v, want %v", tt.in, b, ok, tt.want)
		}
	}

	if _, ok := transforms.ParseBool()("maybe").AsBool(); ok {
		t.Error("ParseBool(maybe) committed a bool")
	}
}

func TestSanitizeHTML(t *testing.T) {
	got, _ := transforms.SanitizeHTML()(`<b>bold</b><script>alert(1)</script>`).AsString()
	if got != "<b>bold</b>" {
		t.Errorf("SanitizeHTML() = %q, want script stripped and formatting kept", got)
	}
}

func TestStripHTML(t *testing.T) {
	got, _ := transforms.StripHTML()(`<p>hello <b>world</b></p>`).AsString()
	if got != "hello world" {
		t.Errorf("StripHTML() = %q, want %q", got, "hello world")
	}
}

func TestChain(t *testing.T) {
	chained := transforms.Chain(transforms.Trim(), transforms.ParseInt())

	n, ok := chained("  18  ").AsInt()
	if !ok || n != 18 {
		t.Errorf("Chain(Trim, ParseInt) = %d, %v, want 18", n, ok)
	}
}

func TestChainShortCircuitsOnNonString(t *testing.T) {
	chained := transforms.Chain(transforms.ParseInt(), transforms.Upper())

	// ParseInt commits an int; Upper must not run against it.
	n, ok := chained("18").AsInt()
	if !ok || n != 18 {
		t.Errorf("Chain(ParseInt, Upper) = %d, %v, want int preserved", n, ok)
	}
}

func TestTransformsWithField(t *testing.T) {
	f := form.NewField[string](nil, "age",
		form.WithInitial[string](" 21 "),
		form.WithTransform(transforms.Chain(transforms.Trim(), transforms.ParseInt())),
	)

	n, ok := f.Commit().AsInt()
	if !ok || n != 21 {
		t.Errorf("Commit() = %d, %v, want 21", n, ok)
	}
	if got := f.Value(); got != " 21 " {
		t.Errorf("Value() = %q, transform must not mutate stored state", got)
	}
}
