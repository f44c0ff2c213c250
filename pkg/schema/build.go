package schema

import (
	"fmt"

	"github.com/go-drift/formbuilder/pkg/form"
	"github.com/go-drift/formbuilder/pkg/transforms"
	"github.com/go-drift/formbuilder/pkg/validators"
)

// stockTransforms maps schema transform names to the catalogue.
var stockTransforms = map[string]func() form.Transform[string]{
	"trim":         transforms.Trim,
	"lower":        transforms.Lower,
	"upper":        transforms.Upper,
	"parseInt":     transforms.ParseInt,
	"parseFloat":   transforms.ParseFloat,
	"parseBool":    transforms.ParseBool,
	"sanitizeHTML": transforms.SanitizeHTML,
	"stripHTML":    transforms.StripHTML,
}

func knownTransform(name string) bool {
	_, ok := stockTransforms[name]
	return ok
}

// Build validates the schema and constructs a live form from it.
//
// Field types map to Go types as follows: string and select become
// Field[string], int becomes Field[int64], float becomes Field[float64],
// bool becomes Field[bool], and multiselect becomes Field[[]string].
// Retrieve them with form.FieldOf after building.
//
// Constraints become validators from the catalogue, transform names
// become committed-value transforms, and defaults become field initial
// values. A default that does not convert to the field's Go type fails
// the build with ErrBadDefault.
func (s *Schema) Build() (*form.Form, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	mode, err := autovalidateMode(s.Autovalidate)
	if err != nil {
		return nil, err
	}

	opts := []form.Option{form.WithAutovalidate(mode)}
	if s.Title != "" {
		opts = append(opts, form.WithName(s.Title))
	}
	if len(s.Initial) > 0 {
		opts = append(opts, form.WithInitialValues(s.Initial))
	}
	m := form.New(opts...)

	for i := range s.Fields {
		if err := buildField(m, &s.Fields[i]); err != nil {
			m.Dispose()
			return nil, fmt.Errorf("failed to build field %q: %w", s.Fields[i].Name, err)
		}
	}
	return m, nil
}

func buildField(m *form.Form, spec *FieldSpec) error {
	switch spec.Type {
	case TypeString, TypeSelect:
		return buildStringField(m, spec)
	case TypeInt:
		return buildIntField(m, spec)
	case TypeFloat:
		return buildFloatField(m, spec)
	case TypeBool:
		return buildBoolField(m, spec)
	case TypeMultiSelect:
		return buildMultiSelectField(m, spec)
	default:
		return fmt.Errorf("type %q: %w", spec.Type, ErrUnknownType)
	}
}

func buildStringField(m *form.Form, spec *FieldSpec) error {
	opts := commonOptions[string](spec)

	var vs []form.Validator[string]
	if spec.Required {
		vs = append(vs, validators.Required[string](""))
	}
	if spec.MinLength != nil {
		vs = append(vs, validators.MinLength(*spec.MinLength, ""))
	}
	if spec.MaxLength != nil {
		vs = append(vs, validators.MaxLength(*spec.MaxLength, ""))
	}
	if spec.Pattern != "" {
		vs = append(vs, validators.Pattern(spec.Pattern, ""))
	}
	if spec.Type == TypeSelect {
		vs = append(vs, validators.OneOf(spec.Enum, ""))
	}
	vs = appendRules[string](vs, spec)
	if len(vs) > 0 {
		opts = append(opts, form.WithValidators(vs...))
	}

	if t := transformChain(spec); t != nil {
		opts = append(opts, form.WithTransform(t))
	}

	if spec.Default != nil {
		v, ok := form.ValueOf(spec.Default).AsString()
		if !ok {
			return badDefault(spec)
		}
		opts = append(opts, form.WithInitial(v))
	}

	finishField(form.NewField(m, spec.Name, opts...), spec)
	return nil
}

func buildIntField(m *form.Form, spec *FieldSpec) error {
	opts := commonOptions[int64](spec)

	var vs []form.Validator[int64]
	if spec.Required {
		vs = append(vs, validators.Required[int64](""))
	}
	if spec.Min != nil {
		vs = append(vs, validators.Min(int64(*spec.Min), ""))
	}
	if spec.Max != nil {
		vs = append(vs, validators.Max(int64(*spec.Max), ""))
	}
	vs = appendRules[int64](vs, spec)
	if len(vs) > 0 {
		opts = append(opts, form.WithValidators(vs...))
	}

	if spec.Default != nil {
		v, ok := form.ValueOf(spec.Default).AsInt()
		if !ok {
			return badDefault(spec)
		}
		opts = append(opts, form.WithInitial(v))
	}

	finishField(form.NewField(m, spec.Name, opts...), spec)
	return nil
}

func buildFloatField(m *form.Form, spec *FieldSpec) error {
	opts := commonOptions[float64](spec)

	var vs []form.Validator[float64]
	if spec.Required {
		vs = append(vs, validators.Required[float64](""))
	}
	if spec.Min != nil {
		vs = append(vs, validators.Min(*spec.Min, ""))
	}
	if spec.Max != nil {
		vs = append(vs, validators.Max(*spec.Max, ""))
	}
	vs = appendRules[float64](vs, spec)
	if len(vs) > 0 {
		opts = append(opts, form.WithValidators(vs...))
	}

	if spec.Default != nil {
		v, ok := form.ValueOf(spec.Default).AsFloat()
		if !ok {
			return badDefault(spec)
		}
		opts = append(opts, form.WithInitial(v))
	}

	finishField(form.NewField(m, spec.Name, opts...), spec)
	return nil
}

func buildBoolField(m *form.Form, spec *FieldSpec) error {
	opts := commonOptions[bool](spec)

	var vs []form.Validator[bool]
	if spec.Required {
		vs = append(vs, validators.Required[bool](""))
	}
	vs = appendRules[bool](vs, spec)
	if len(vs) > 0 {
		opts = append(opts, form.WithValidators(vs...))
	}

	if spec.Default != nil {
		v, ok := form.ValueOf(spec.Default).AsBool()
		if !ok {
			return badDefault(spec)
		}
		opts = append(opts, form.WithInitial(v))
	}

	finishField(form.NewField(m, spec.Name, opts...), spec)
	return nil
}

func buildMultiSelectField(m *form.Form, spec *FieldSpec) error {
	opts := commonOptions[[]string](spec)

	var vs []form.Validator[[]string]
	if spec.Required {
		vs = append(vs, validators.Required[[]string](""))
	}
	vs = append(vs, validators.Each(validators.OneOf(spec.Enum, "")))
	vs = appendRules[[]string](vs, spec)
	opts = append(opts, form.WithValidators(vs...))

	if spec.Default != nil {
		v, ok := form.ValueOf(spec.Default).AsStrings()
		if !ok {
			return badDefault(spec)
		}
		opts = append(opts, form.WithInitial(v))
	}

	finishField(form.NewField(m, spec.Name, opts...), spec)
	return nil
}

// commonOptions collects the options shared by every field type.
func commonOptions[T any](spec *FieldSpec) []form.FieldOption[T] {
	var opts []form.FieldOption[T]
	if spec.Disabled {
		opts = append(opts, form.WithFieldDisabled[T]())
	}
	if spec.SkipDisabled {
		opts = append(opts, form.WithSkipDisabled[T]())
	}
	return opts
}

func appendRules[T any](vs []form.Validator[T], spec *FieldSpec) []form.Validator[T] {
	for _, tag := range spec.Rules {
		vs = append(vs, validators.Rule[T](tag, ""))
	}
	return vs
}

// transformChain resolves the spec's transform list against the
// catalogue. Validate has already vetted the names.
func transformChain(spec *FieldSpec) form.Transform[string] {
	names := transformNames(spec.Transform)
	switch len(names) {
	case 0:
		return nil
	case 1:
		return stockTransforms[names[0]]()
	}
	chain := make([]form.Transform[string], len(names))
	for i, name := range names {
		chain[i] = stockTransforms[name]()
	}
	return transforms.Chain(chain...)
}

// finishField applies presentation metadata to the constructed field.
func finishField[T any](f *form.Field[T], spec *FieldSpec) {
	if spec.Label != "" {
		f.Node().Label = spec.Label
	}
}

func badDefault(spec *FieldSpec) error {
	return fmt.Errorf("default %v (%T) for %s field: %w",
		spec.Default, spec.Default, spec.Type, ErrBadDefault)
}
