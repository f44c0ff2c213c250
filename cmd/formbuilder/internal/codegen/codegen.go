// Package codegen renders typed Go bindings for schema documents.
package codegen

import (
	"bytes"
	_ "embed"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/go-drift/formbuilder/pkg/schema"
)

//go:embed binding.go.tmpl
var bindingTemplate string

var tmpl = template.Must(template.New("binding").Funcs(template.FuncMap{
	"literal": goStringLiteral,
}).Parse(bindingTemplate))

// Options control one generation pass.
type Options struct {
	// Package is the package name of the generated file.
	Package string
	// TypeName is the name of the binding struct. It is mangled to an
	// exported Go identifier, so a schema title works as-is.
	TypeName string
}

type templateField struct {
	Ident  string
	Name   string
	GoType string
}

type templateData struct {
	Package   string
	TypeName  string
	SchemaDoc string
	Fields    []templateField
}

// Generate renders a Go source file binding the schema's fields to typed
// accessors. src is the raw schema document; it is embedded verbatim so
// the generated constructor rebuilds the exact form.
func Generate(s *schema.Schema, src []byte, opts Options) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if opts.Package == "" {
		return nil, fmt.Errorf("codegen: package name is required")
	}
	typeName := ExportedIdent(opts.TypeName)
	if typeName == "" {
		return nil, fmt.Errorf("codegen: type name %q has no identifier characters", opts.TypeName)
	}

	data := templateData{
		Package:   opts.Package,
		TypeName:  typeName,
		SchemaDoc: string(src),
	}
	seen := make(map[string]string)
	for _, spec := range s.Fields {
		ident := ExportedIdent(spec.Name)
		if ident == "" {
			return nil, fmt.Errorf("codegen: field %q has no identifier characters", spec.Name)
		}
		if prev, ok := seen[ident]; ok {
			return nil, fmt.Errorf("codegen: fields %q and %q map to the same accessor %s", prev, spec.Name, ident)
		}
		seen[ident] = spec.Name
		data.Fields = append(data.Fields, templateField{
			Ident:  ident,
			Name:   spec.Name,
			GoType: goType(spec.Type),
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render binding template: %w", err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w", err)
	}
	return out, nil
}

// ExportedIdent converts a schema name to an exported Go identifier:
// non-alphanumeric runes split words, each word is title-cased, and a
// leading digit gets a "Field" prefix to keep the result legal. Returns
// "" when the name contains no identifier characters at all.
func ExportedIdent(name string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			if upperNext {
				b.WriteRune(unicode.ToUpper(r))
				upperNext = false
			} else {
				b.WriteRune(r)
			}
		case unicode.IsDigit(r):
			if b.Len() == 0 {
				b.WriteString("Field")
			}
			b.WriteRune(r)
			upperNext = true
		default:
			upperNext = true
		}
	}
	return b.String()
}

// PackageName derives a legal package name from a directory name.
func PackageName(dir string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(dir) {
		isLetter := r >= 'a' && r <= 'z'
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !isDigit {
			continue
		}
		if b.Len() == 0 && isDigit {
			continue
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "forms"
	}
	return b.String()
}

// FileName returns the conventional file name for a binding type, such
// as signup_form_gen.go for SignupForm.
func FileName(typeName string) string {
	ident := ExportedIdent(typeName)
	var b strings.Builder
	for i, r := range ident {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String() + "_gen.go"
}

// goType maps a schema field type to the Go type its field carries.
// Unknown types cannot reach here; Generate validates the schema first.
func goType(fieldType string) string {
	switch fieldType {
	case schema.TypeInt:
		return "int64"
	case schema.TypeFloat:
		return "float64"
	case schema.TypeBool:
		return "bool"
	case schema.TypeMultiSelect:
		return "[]string"
	default:
		return "string"
	}
}

// goStringLiteral renders a schema document as a Go string literal,
// preferring a raw literal and falling back to a quoted one when the
// document itself contains a backtick.
func goStringLiteral(s string) string {
	if strings.Contains(s, "`") {
		return strconv.Quote(s)
	}
	return "`" + s + "`"
}
