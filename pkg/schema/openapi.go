package schema

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	// ErrOperationNotFound is returned when no operation in the document
	// carries the requested id.
	ErrOperationNotFound = errors.New("schema: operation not found in document")

	// ErrNoRequestBody is returned when the operation's request body has
	// no object schema to derive fields from.
	ErrNoRequestBody = errors.New("schema: operation has no usable request body")
)

// requestMediaTypes orders the request content types we can map.
var requestMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// formatRules maps OpenAPI string formats to validation rule tags.
var formatRules = map[string]string{
	"email":    "email",
	"uri":      "url",
	"url":      "url",
	"uuid":     "uuid",
	"ipv4":     "ip",
	"ipv6":     "ip",
	"hostname": "hostname",
}

// FromOpenAPI loads an OpenAPI 3 document from a file and derives a
// Schema from the request body of the operation with the given id.
func FromOpenAPI(path, operationID string) (*Schema, error) {
	loader := &openapi3.Loader{
		Context:               context.Background(),
		IsExternalRefsAllowed: true,
	}
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	return fromDocument(doc, operationID)
}

// FromOpenAPIData derives a Schema from an in-memory OpenAPI 3 document.
func FromOpenAPIData(data []byte, operationID string) (*Schema, error) {
	loader := &openapi3.Loader{Context: context.Background()}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	return fromDocument(doc, operationID)
}

// fromDocument maps the operation's request body object to a Schema.
// Properties appear in alphabetical order. Properties whose type has no
// field equivalent, and readOnly properties, are skipped.
func fromDocument(doc *openapi3.T, operationID string) (*Schema, error) {
	op := findOperation(doc, operationID)
	if op == nil {
		return nil, fmt.Errorf("%q: %w", operationID, ErrOperationNotFound)
	}
	body := requestBodySchema(op)
	if body == nil || len(body.Properties) == 0 {
		return nil, fmt.Errorf("%q: %w", operationID, ErrNoRequestBody)
	}

	s := &Schema{Title: op.Summary}
	if s.Title == "" && doc.Info != nil {
		s.Title = doc.Info.Title
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil || ref.Value.ReadOnly {
			continue
		}
		spec, ok := fieldSpec(name, ref.Value, required[name])
		if !ok {
			continue
		}
		s.Fields = append(s.Fields, spec)
	}
	if len(s.Fields) == 0 {
		return nil, fmt.Errorf("%q: %w", operationID, ErrNoRequestBody)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		ops := []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete,
			item.Patch, item.Head, item.Options, item.Trace,
		}
		for _, op := range ops {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestBodySchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok {
			return schemaValue(mt.Schema)
		}
	}
	for _, mt := range content {
		return schemaValue(mt.Schema)
	}
	return nil
}

func schemaValue(ref *openapi3.SchemaRef) *openapi3.Schema {
	if ref == nil {
		return nil
	}
	return ref.Value
}

// fieldSpec maps one object property to a field declaration. The second
// return is false for property types that have no field equivalent.
func fieldSpec(name string, prop *openapi3.Schema, required bool) (FieldSpec, bool) {
	spec := FieldSpec{
		Name:     name,
		Label:    prop.Title,
		Help:     prop.Description,
		Required: required,
		Default:  prop.Default,
	}

	switch typeName(prop.Type) {
	case "string":
		spec.Type = TypeString
		if len(prop.Enum) > 0 {
			spec.Type = TypeSelect
			spec.Enum = enumStrings(prop.Enum)
		}
		spec.Secret = prop.Format == "password"
		if rule, ok := formatRules[prop.Format]; ok {
			spec.Rules = append(spec.Rules, rule)
		}
		if prop.MinLength > 0 {
			n := int(prop.MinLength)
			spec.MinLength = &n
		}
		if prop.MaxLength != nil {
			n := int(*prop.MaxLength)
			spec.MaxLength = &n
		}
		// Patterns that do not compile as Go regexps are dropped rather
		// than failing the whole derivation.
		if prop.Pattern != "" {
			if _, err := regexp.Compile(prop.Pattern); err == nil {
				spec.Pattern = prop.Pattern
			}
		}
	case "integer":
		spec.Type = TypeInt
		spec.Min = copyFloat(prop.Min)
		spec.Max = copyFloat(prop.Max)
		// The loader routes YAML through JSON, so numeric defaults arrive
		// as float64 even for integer properties.
		if f, ok := prop.Default.(float64); ok && f == math.Trunc(f) {
			spec.Default = int64(f)
		}
	case "number":
		spec.Type = TypeFloat
		spec.Min = copyFloat(prop.Min)
		spec.Max = copyFloat(prop.Max)
	case "boolean":
		spec.Type = TypeBool
	case "array":
		if prop.Items == nil || prop.Items.Value == nil {
			return spec, false
		}
		items := prop.Items.Value
		if typeName(items.Type) != "string" || len(items.Enum) == 0 {
			return spec, false
		}
		spec.Type = TypeMultiSelect
		spec.Enum = enumStrings(items.Enum)
	default:
		return spec, false
	}
	return spec, true
}

// typeName returns the property's first non-null type, so nullable
// declarations map the same as their plain counterparts.
func typeName(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, t := range types.Slice() {
		if t != "null" {
			return t
		}
	}
	return ""
}

func enumStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
