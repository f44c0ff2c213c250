// Package schema builds forms from declarative definitions.
//
// A Schema is a YAML document (or one derived from an OpenAPI operation)
// that names a form's fields, their types, and their constraints. Build
// turns a validated Schema into a live form.Form with typed fields,
// validators, and transforms wired up. Nothing is registered ambiently:
// the schema layer is the explicit construction pass, and the returned
// form owns everything it built.
//
// # Document format
//
//	title: Sign up
//	autovalidate: afterTouched
//	initial:
//	  plan: free
//	fields:
//	  - name: email
//	    type: string
//	    required: true
//	    rules: [email]
//	    transform: trim,lower
//	  - name: age
//	    type: int
//	    min: 13
//	  - name: plan
//	    type: select
//	    enum: [free, pro, team]
//
// Unlike the runtime field registry, which resolves duplicate names by
// letting the last registration win, a schema document with duplicate
// field names is rejected outright.
package schema

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/formbuilder/pkg/form"
)

// Field types accepted in schema documents.
const (
	TypeString      = "string"
	TypeInt         = "int"
	TypeFloat       = "float"
	TypeBool        = "bool"
	TypeSelect      = "select"
	TypeMultiSelect = "multiselect"
)

var (
	// ErrNoFields is returned for a schema without any field entries.
	ErrNoFields = errors.New("schema: no fields defined")

	// ErrMissingName is returned when a field entry has a blank name.
	ErrMissingName = errors.New("schema: field name missing")

	// ErrDuplicateField is returned when two field entries share a name.
	ErrDuplicateField = errors.New("schema: duplicate field name")

	// ErrUnknownType is returned for a field type outside the Type
	// constants.
	ErrUnknownType = errors.New("schema: unknown field type")

	// ErrUnknownTransform is returned for a transform name the catalogue
	// does not provide.
	ErrUnknownTransform = errors.New("schema: unknown transform")

	// ErrUnknownAutovalidate is returned for an unrecognized autovalidate
	// mode name.
	ErrUnknownAutovalidate = errors.New("schema: unknown autovalidate mode")

	// ErrBadPattern is returned when a pattern constraint does not
	// compile.
	ErrBadPattern = errors.New("schema: invalid pattern")

	// ErrMissingEnum is returned for select and multiselect fields
	// without enum values.
	ErrMissingEnum = errors.New("schema: select field needs enum values")

	// ErrTransformType is returned when a transform is declared on a
	// field whose type is not string-backed.
	ErrTransformType = errors.New("schema: transforms apply to string fields only")

	// ErrBadDefault is returned by Build when a default value cannot be
	// converted to the field's Go type.
	ErrBadDefault = errors.New("schema: default value does not match field type")
)

// Schema is a declarative form definition.
type Schema struct {
	// Title labels the form. It becomes the form's diagnostic name.
	Title string `yaml:"title,omitempty"`
	// Autovalidate selects the form-wide revalidation mode: "disabled",
	// "onChange" or "afterTouched". Empty means disabled.
	Autovalidate string `yaml:"autovalidate,omitempty"`
	// Initial provides form-level initial values keyed by field name.
	// A field-level default takes precedence over an entry here.
	Initial map[string]any `yaml:"initial,omitempty"`
	// Fields declares the form's fields in presentation order.
	Fields []FieldSpec `yaml:"fields"`
}

// FieldSpec declares a single field.
type FieldSpec struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Label       string `yaml:"label,omitempty"`
	Placeholder string `yaml:"placeholder,omitempty"`
	Help        string `yaml:"help,omitempty"`
	// Secret marks the field for masked input (passwords, tokens).
	Secret bool `yaml:"secret,omitempty"`
	// Default is the field's initial value. It must be convertible to the
	// field's Go type.
	Default  any  `yaml:"default,omitempty"`
	Required bool `yaml:"required,omitempty"`
	// Rules lists validation tags resolved through the validator
	// catalogue, e.g. "email" or "gte=0,lte=130".
	Rules []string `yaml:"rules,omitempty"`
	// Pattern is an anchored-or-not regular expression string fields must
	// match. Compiled during Validate.
	Pattern   string   `yaml:"pattern,omitempty"`
	MinLength *int     `yaml:"minLength,omitempty"`
	MaxLength *int     `yaml:"maxLength,omitempty"`
	Min       *float64 `yaml:"min,omitempty"`
	Max       *float64 `yaml:"max,omitempty"`
	// Enum lists the allowed values for select and multiselect fields.
	Enum []string `yaml:"enum,omitempty"`
	// Transform names committed-value transforms, comma separated and
	// applied left to right, e.g. "trim,lower".
	Transform    string `yaml:"transform,omitempty"`
	Disabled     bool   `yaml:"disabled,omitempty"`
	SkipDisabled bool   `yaml:"skipDisabled,omitempty"`
}

// Parse decodes a YAML schema document and validates it.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a schema file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks the schema's structural rules: at least one field,
// unique non-blank names, known types and transforms, compilable
// patterns, and enum values on select fields. The first violation is
// returned wrapped around its sentinel error.
func (s *Schema) Validate() error {
	if len(s.Fields) == 0 {
		return ErrNoFields
	}
	if _, err := autovalidateMode(s.Autovalidate); err != nil {
		return err
	}
	seen := make(map[string]bool, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("field %d: %w", i, ErrMissingName)
		}
		if seen[f.Name] {
			return fmt.Errorf("field %q: %w", f.Name, ErrDuplicateField)
		}
		seen[f.Name] = true

		switch f.Type {
		case TypeString, TypeInt, TypeFloat, TypeBool, TypeSelect, TypeMultiSelect:
		default:
			return fmt.Errorf("field %q: type %q: %w", f.Name, f.Type, ErrUnknownType)
		}

		if f.Pattern != "" {
			if _, err := regexp.Compile(f.Pattern); err != nil {
				return fmt.Errorf("field %q: %w: %v", f.Name, ErrBadPattern, err)
			}
		}
		if (f.Type == TypeSelect || f.Type == TypeMultiSelect) && len(f.Enum) == 0 {
			return fmt.Errorf("field %q: %w", f.Name, ErrMissingEnum)
		}
		if f.Transform != "" && f.Type != TypeString && f.Type != TypeSelect {
			return fmt.Errorf("field %q: %w", f.Name, ErrTransformType)
		}
		for _, name := range transformNames(f.Transform) {
			if !knownTransform(name) {
				return fmt.Errorf("field %q: transform %q: %w", f.Name, name, ErrUnknownTransform)
			}
		}
	}
	return nil
}

// Field returns the field spec with the given name, or nil.
func (s *Schema) Field(name string) *FieldSpec {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// autovalidateMode maps a schema mode name to the form mode.
func autovalidateMode(name string) (form.AutovalidateMode, error) {
	switch name {
	case "", "disabled":
		return form.AutovalidateDisabled, nil
	case "onChange":
		return form.AutovalidateOnChange, nil
	case "afterTouched":
		return form.AutovalidateAfterTouched, nil
	default:
		return 0, fmt.Errorf("%q: %w", name, ErrUnknownAutovalidate)
	}
}

// transformNames splits a comma-separated transform list, dropping blanks.
func transformNames(list string) []string {
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}
