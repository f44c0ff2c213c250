package cmd

import (
	"fmt"

	"github.com/go-drift/formbuilder/pkg/schema"
)

func init() {
	RegisterCommand(&Command{
		Name:  "validate",
		Short: "Check a schema document",
		Long: `Parse a YAML schema document and check that it describes a
buildable form.

Prints the form title and one line per field on success. Parse failures,
schema violations, and defaults that do not fit their field type are
reported with the offending field where known.`,
		Usage: "formbuilder validate <schema.yaml>",
		Run:   runValidate,
	})
}

func runValidate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("schema file is required\n\nUsage: formbuilder validate <schema.yaml>")
	}

	s, err := schema.Load(args[0])
	if err != nil {
		return err
	}

	// Building catches what static validation cannot, such as a default
	// that does not convert to the field type.
	m, err := s.Build()
	if err != nil {
		return err
	}
	m.Dispose()

	title := s.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Printf("%s: %s, %d fields\n", args[0], title, len(s.Fields))
	for _, f := range s.Fields {
		line := fmt.Sprintf("  %-16s %s", f.Name, f.Type)
		if f.Required {
			line += "  required"
		}
		if f.Disabled {
			line += "  disabled"
		}
		fmt.Println(line)
	}
	return nil
}
