// Package transforms provides stock transforms applied when a form
// collects field values.
//
// A transform maps the field's stored value to the committed [form.Value]
// and declares the committed kind through the constructor it uses. Stored
// values are never mutated: a field holding "18" with [ParseInt] still
// reads "18" after the form saves {age: 18}.
package transforms

import (
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/go-drift/formbuilder/pkg/form"
)

// Trim commits the string with surrounding whitespace removed.
func Trim() form.Transform[string] {
	return func(v string) form.Value {
		return form.StringValue(strings.TrimSpace(v))
	}
}

// Lower commits the string lowercased.
func Lower() form.Transform[string] {
	return func(v string) form.Value {
		return form.StringValue(strings.ToLower(v))
	}
}

// Upper commits the string uppercased.
func Upper() form.Transform[string] {
	return func(v string) form.Value {
		return form.StringValue(strings.ToUpper(v))
	}
}

// ParseInt commits the string as an integer. Unparseable input commits
// the raw string so nothing is silently lost; pair the field with a
// numeric validator to keep bad input from reaching the save.
func ParseInt() form.Transform[string] {
	return func(v string) form.Value {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return form.StringValue(v)
		}
		return form.IntValue(n)
	}
}

// ParseFloat commits the string as a float. Unparseable input commits the
// raw string, as with [ParseInt].
func ParseFloat() form.Transform[string] {
	return func(v string) form.Value {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return form.StringValue(v)
		}
		return form.FloatValue(f)
	}
}

// ParseBool commits the string as a bool, accepting the strconv forms
// plus yes/no and on/off. Unparseable input commits the raw string.
func ParseBool() form.Transform[string] {
	return func(v string) form.Value {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes", "on":
			return form.BoolValue(true)
		case "no", "off":
			return form.BoolValue(false)
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return form.StringValue(v)
		}
		return form.BoolValue(b)
	}
}

var (
	ugcPolicyOnce sync.Once
	ugcPolicy     *bluemonday.Policy

	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

func ugcSanitizer() *bluemonday.Policy {
	ugcPolicyOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
	})
	return ugcPolicy
}

func strictSanitizer() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// SanitizeHTML commits the string with markup reduced to the bluemonday
// user-generated-content policy: safe formatting stays, scripts and event
// handlers go.
func SanitizeHTML() form.Transform[string] {
	return func(v string) form.Value {
		return form.StringValue(ugcSanitizer().Sanitize(v))
	}
}

// StripHTML commits the string with all markup removed.
func StripHTML() form.Transform[string] {
	return func(v string) form.Value {
		return form.StringValue(strings.TrimSpace(strictSanitizer().Sanitize(v)))
	}
}

// Chain composes string transforms left to right. Intermediate transforms
// must commit strings; the final transform decides the committed kind.
// A non-string intermediate result short-circuits and commits as-is.
func Chain(transforms ...form.Transform[string]) form.Transform[string] {
	return func(v string) form.Value {
		out := form.StringValue(v)
		for _, tr := range transforms {
			s, ok := out.AsString()
			if !ok {
				return out
			}
			out = tr(s)
		}
		return out
	}
}
