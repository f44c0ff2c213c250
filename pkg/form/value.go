package form

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ValueKind discriminates the variants of a [Value].
type ValueKind int

const (
	// KindAbsent marks a value that was never set.
	KindAbsent ValueKind = iota
	// KindString holds a string.
	KindString
	// KindInt holds an int64.
	KindInt
	// KindFloat holds a float64.
	KindFloat
	// KindBool holds a bool.
	KindBool
	// KindTime holds a time.Time.
	KindTime
	// KindStrings holds a []string, used by multi-select fields.
	KindStrings
	// KindAny holds a value outside the tagged set.
	KindAny
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindStrings:
		return "strings"
	case KindAny:
		return "any"
	default:
		return "invalid"
	}
}

// Value is the tagged variant carried across the field/form boundary.
// Fields store their values with full static types; a Value is the
// type-erased snapshot the form aggregates. The zero Value is absent,
// which represents a field that has no value at all.
type Value struct {
	kind ValueKind
	raw  any
}

// AbsentValue returns the absent Value.
func AbsentValue() Value {
	return Value{}
}

// StringValue wraps a string.
func StringValue(s string) Value {
	return Value{kind: KindString, raw: s}
}

// IntValue wraps an integer.
func IntValue(i int64) Value {
	return Value{kind: KindInt, raw: i}
}

// FloatValue wraps a float.
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, raw: f}
}

// BoolValue wraps a bool.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, raw: b}
}

// TimeValue wraps a time.
func TimeValue(t time.Time) Value {
	return Value{kind: KindTime, raw: t}
}

// StringsValue wraps a string slice. The slice is copied.
func StringsValue(ss []string) Value {
	out := make([]string, len(ss))
	copy(out, ss)
	return Value{kind: KindStrings, raw: out}
}

// AnyValue wraps an arbitrary value without normalization.
// A nil argument yields the absent Value.
func AnyValue(v any) Value {
	if v == nil {
		return Value{}
	}
	return Value{kind: KindAny, raw: v}
}

// ValueOf normalizes a Go value into a Value. Integer types widen to int64,
// float32 widens to float64, and a []any of strings collapses to KindStrings;
// values outside the tagged set are wrapped as KindAny. A Value passes
// through unchanged and nil yields absent.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case string:
		return StringValue(x)
	case int:
		return IntValue(int64(x))
	case int8:
		return IntValue(int64(x))
	case int16:
		return IntValue(int64(x))
	case int32:
		return IntValue(int64(x))
	case int64:
		return IntValue(x)
	case uint:
		return IntValue(int64(x))
	case uint8:
		return IntValue(int64(x))
	case uint16:
		return IntValue(int64(x))
	case uint32:
		return IntValue(int64(x))
	case float32:
		return FloatValue(float64(x))
	case float64:
		return FloatValue(x)
	case bool:
		return BoolValue(x)
	case time.Time:
		return TimeValue(x)
	case []string:
		return StringsValue(x)
	case []any:
		// YAML and JSON decoders produce []any; recover []string when
		// every element is a string.
		ss := make([]string, len(x))
		for i, e := range x {
			s, ok := e.(string)
			if !ok {
				return Value{kind: KindAny, raw: v}
			}
			ss[i] = s
		}
		return Value{kind: KindStrings, raw: ss}
	default:
		return Value{kind: KindAny, raw: v}
	}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsAbsent reports whether the value is absent.
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// AsString returns the string payload.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.raw.(string), true
}

// AsInt returns the integer payload.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.raw.(int64), true
}

// AsFloat returns the float payload. An integer payload widens.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.raw.(float64), true
	case KindInt:
		return float64(v.raw.(int64)), true
	default:
		return 0, false
	}
}

// AsBool returns the bool payload.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.raw.(bool), true
}

// AsTime returns the time payload.
func (v Value) AsTime() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.raw.(time.Time), true
}

// AsStrings returns a copy of the string-slice payload.
func (v Value) AsStrings() ([]string, bool) {
	if v.kind != KindStrings {
		return nil, false
	}
	src := v.raw.([]string)
	out := make([]string, len(src))
	copy(out, src)
	return out, true
}

// Any returns the underlying payload, or nil when absent.
func (v Value) Any() any {
	return v.raw
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindAbsent:
		return true
	case KindTime:
		return v.raw.(time.Time).Equal(other.raw.(time.Time))
	case KindStrings:
		a := v.raw.([]string)
		b := other.raw.([]string)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	case KindAny:
		return reflect.DeepEqual(v.raw, other.raw)
	default:
		return v.raw == other.raw
	}
}

// String formats the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindAbsent:
		return ""
	case KindString:
		return v.raw.(string)
	case KindInt:
		return strconv.FormatInt(v.raw.(int64), 10)
	case KindFloat:
		return strconv.FormatFloat(v.raw.(float64), 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.raw.(bool))
	case KindTime:
		return v.raw.(time.Time).Format(time.RFC3339)
	case KindStrings:
		return strings.Join(v.raw.([]string), ", ")
	default:
		return fmt.Sprintf("%v", v.raw)
	}
}

// ValueMap is a named-value snapshot keyed by field name.
type ValueMap map[string]Value

// Raw converts the snapshot to plain Go values. Absent entries map to nil.
func (m ValueMap) Raw() map[string]any {
	out := make(map[string]any, len(m))
	for name, v := range m {
		out[name] = v.raw
	}
	return out
}

// convertValue narrows a Value back to a concrete field type. Numeric
// payloads widen or narrow to the requested type the same way ValueOf
// widens on the way in; anything else falls back to a direct assertion.
func convertValue[T any](v Value) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case string:
		if s, ok := v.AsString(); ok {
			return any(s).(T), true
		}
	case int:
		if n, ok := v.AsInt(); ok {
			return any(int(n)).(T), true
		}
	case int32:
		if n, ok := v.AsInt(); ok {
			return any(int32(n)).(T), true
		}
	case int64:
		if n, ok := v.AsInt(); ok {
			return any(n).(T), true
		}
	case float64:
		if f, ok := v.AsFloat(); ok {
			return any(f).(T), true
		}
	case float32:
		if f, ok := v.AsFloat(); ok {
			return any(float32(f)).(T), true
		}
	case bool:
		if b, ok := v.AsBool(); ok {
			return any(b).(T), true
		}
	case time.Time:
		if t, ok := v.AsTime(); ok {
			return any(t).(T), true
		}
	case []string:
		if ss, ok := v.AsStrings(); ok {
			return any(ss).(T), true
		}
	}
	if t, ok := v.raw.(T); ok {
		return t, true
	}
	return zero, false
}
