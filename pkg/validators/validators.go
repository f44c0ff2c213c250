// Package validators provides stock validation rules for form fields.
//
// Every constructor returns a [form.Validator] with first-failure-wins
// composition left to the field. Constructors take an optional message;
// passing the empty string selects a readable default. The [Rule] bridge
// exposes the go-playground/validator tag syntax for anything the stock
// set does not cover.
package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/go-drift/formbuilder/pkg/form"
)

// validate is the shared rule engine behind Rule.
var validate = validator.New()

// Required fails on empty values: blank strings, empty slices, unchecked
// bools, and zero values of other types.
func Required[T any](message string) form.Validator[T] {
	if message == "" {
		message = "this field is required"
	}
	return func(v T, _ form.ValidationContext) string {
		if isEmpty(v) {
			return message
		}
		return ""
	}
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x) == ""
	case []string:
		return len(x) == 0
	case bool:
		return !x
	default:
		rv := reflect.ValueOf(v)
		return !rv.IsValid() || rv.IsZero()
	}
}

// MinLength fails when a non-empty string has fewer than n runes. Empty
// strings pass so optional fields stay optional; combine with Required
// to forbid them.
func MinLength(n int, message string) form.Validator[string] {
	if message == "" {
		message = fmt.Sprintf("must be at least %d characters", n)
	}
	return func(v string, _ form.ValidationContext) string {
		if v != "" && utf8.RuneCountInString(v) < n {
			return message
		}
		return ""
	}
}

// MaxLength fails when the string has more than n runes.
func MaxLength(n int, message string) form.Validator[string] {
	if message == "" {
		message = fmt.Sprintf("must be at most %d characters", n)
	}
	return func(v string, _ form.ValidationContext) string {
		if utf8.RuneCountInString(v) > n {
			return message
		}
		return ""
	}
}

// Pattern fails when the string does not match the expression. The
// expression is compiled once at construction and panics when invalid;
// callers validating user-supplied patterns should compile them first.
func Pattern(expr, message string) form.Validator[string] {
	re := regexp.MustCompile(expr)
	if message == "" {
		message = fmt.Sprintf("must match %s", expr)
	}
	return func(v string, _ form.ValidationContext) string {
		if v != "" && !re.MatchString(v) {
			return message
		}
		return ""
	}
}

// Number is the constraint for numeric rule values.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Min fails when the value is below the limit.
func Min[T Number](limit T, message string) form.Validator[T] {
	if message == "" {
		message = fmt.Sprintf("must be at least %v", limit)
	}
	return func(v T, _ form.ValidationContext) string {
		if v < limit {
			return message
		}
		return ""
	}
}

// Max fails when the value is above the limit.
func Max[T Number](limit T, message string) form.Validator[T] {
	if message == "" {
		message = fmt.Sprintf("must be at most %v", limit)
	}
	return func(v T, _ form.ValidationContext) string {
		if v > limit {
			return message
		}
		return ""
	}
}

// OneOf fails when the value is not in the allowed set. Zero values pass
// so optional fields stay optional; combine with Required to forbid them.
func OneOf[T comparable](allowed []T, message string) form.Validator[T] {
	if message == "" {
		message = fmt.Sprintf("must be one of %v", allowed)
	}
	set := make(map[T]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(v T, _ form.ValidationContext) string {
		var zero T
		if v == zero {
			return ""
		}
		if _, ok := set[v]; !ok {
			return message
		}
		return ""
	}
}

// Each applies a rule to every element of a slice value, failing on the
// first failing element.
func Each[T any](rule form.Validator[T]) form.Validator[[]T] {
	return func(vs []T, ctx form.ValidationContext) string {
		for _, v := range vs {
			if message := rule(v, ctx); message != "" {
				return message
			}
		}
		return ""
	}
}

// Rule bridges a go-playground/validator tag expression, e.g. "email",
// "url", or "gte=0,lte=130". Empty strings pass so optional fields stay
// optional; combine with Required to forbid them.
func Rule[T any](tag, message string) form.Validator[T] {
	if message == "" {
		message = tagMessage(tag)
	}
	return func(v T, _ form.ValidationContext) string {
		if s, ok := any(v).(string); ok && s == "" {
			return ""
		}
		if err := validate.Var(v, tag); err != nil {
			return message
		}
		return ""
	}
}

// tagMessage maps common tags to readable defaults.
func tagMessage(tag string) string {
	base, _, _ := strings.Cut(tag, "=")
	switch base {
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "alphanum":
		return "must contain only letters and digits"
	case "numeric":
		return "must be numeric"
	case "ip":
		return "must be a valid IP address"
	case "hostname":
		return "must be a valid hostname"
	default:
		return fmt.Sprintf("fails rule %q", tag)
	}
}
