package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/module"

	"github.com/go-drift/formbuilder/cmd/formbuilder/internal/codegen"
	"github.com/go-drift/formbuilder/cmd/formbuilder/internal/config"
	"github.com/go-drift/formbuilder/pkg/schema"
)

func init() {
	RegisterCommand(&Command{
		Name:  "gen",
		Short: "Generate typed Go bindings for a schema",
		Long: `Generate a Go source file binding a schema's fields to typed
accessors.

The generated file embeds the schema document and declares a struct with
one *form.Field accessor per field plus a constructor that builds the
form. The output package defaults to the output directory's name, and the
resulting import path is checked against the enclosing go.mod.

Flags:
  --out DIR       Output directory (default: gen.output from
                  .formbuilder.yaml, else the current directory)
  --package NAME  Package name for the generated file
  --type NAME     Exported struct name (default: derived from the schema
                  title, else the schema file name)`,
		Usage: "formbuilder gen <schema.yaml> [--out DIR] [--package NAME] [--type NAME]",
		Run:   runGen,
	})
}

func runGen(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("schema file is required\n\nUsage: formbuilder gen <schema.yaml>")
	}
	path := args[0]

	var outDir, pkgName, typeName string
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--out":
			if i+1 >= len(args) {
				return fmt.Errorf("--out requires a directory")
			}
			outDir = args[i+1]
			i++
		case "--package":
			if i+1 >= len(args) {
				return fmt.Errorf("--package requires a name")
			}
			pkgName = args[i+1]
			i++
		case "--type":
			if i+1 >= len(args) {
				return fmt.Errorf("--type requires a name")
			}
			typeName = args[i+1]
			i++
		default:
			return fmt.Errorf("unknown flag %q", args[i])
		}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	s, err := schema.Parse(src)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	root, err := config.FindProjectRoot()
	if err != nil {
		return err
	}
	resolved, err := config.Resolve(root)
	if err != nil {
		return err
	}

	// Flag paths are relative to the working directory, config paths to
	// the project root.
	if outDir == "" {
		outDir = resolved.GenOutput
		if !filepath.IsAbs(outDir) {
			outDir = filepath.Join(root, outDir)
		}
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}
	if pkgName == "" {
		pkgName = resolved.GenPackage
	}
	if pkgName == "" {
		pkgName = codegen.PackageName(filepath.Base(absOut))
	}

	rel, err := filepath.Rel(root, absOut)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("output directory %s is outside module %s", outDir, resolved.ModulePath)
	}
	importPath := resolved.ModulePath
	if rel != "." {
		importPath += "/" + filepath.ToSlash(rel)
	}
	if err := module.CheckImportPath(importPath); err != nil {
		return fmt.Errorf("invalid import path for output directory: %w", err)
	}

	if typeName == "" {
		typeName = s.Title
	}
	if typeName == "" {
		base := filepath.Base(path)
		typeName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	code, err := codegen.Generate(s, src, codegen.Options{
		Package:  pkgName,
		TypeName: typeName,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(absOut, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	outFile := filepath.Join(absOut, codegen.FileName(typeName))
	if err := os.WriteFile(outFile, code, 0o644); err != nil {
		return fmt.Errorf("failed to write generated file: %w", err)
	}
	fmt.Printf("wrote %s (package %s)\n", outFile, pkgName)
	return nil
}
