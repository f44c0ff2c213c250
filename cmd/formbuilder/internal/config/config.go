// Package config resolves the optional .formbuilder.yaml project settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

// Config represents the optional .formbuilder.yaml configuration.
type Config struct {
	Schema SchemaConfig `yaml:"schema"`
	Gen    GenConfig    `yaml:"gen"`
}

// SchemaConfig points at the project's schema documents.
type SchemaConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// GenConfig controls generated binding output.
type GenConfig struct {
	Output  string `yaml:"output,omitempty"`
	Package string `yaml:"package,omitempty"`
}

// Resolved contains resolved configuration values. Relative paths are
// relative to Root.
type Resolved struct {
	Root       string
	ModulePath string
	SchemaDir  string
	GenOutput  string
	GenPackage string
}

// LoadOptional reads .formbuilder.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, ".formbuilder.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read .formbuilder.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse .formbuilder.yaml: %w", err)
	}

	return &cfg, nil
}

// Resolve loads .formbuilder.yaml (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	schemaDir := strings.TrimSpace(cfg.Schema.Dir)
	if schemaDir == "" {
		schemaDir = "."
	}

	genOutput := strings.TrimSpace(cfg.Gen.Output)
	if genOutput == "" {
		genOutput = "."
	}

	return &Resolved{
		Root:       dir,
		ModulePath: modulePath,
		SchemaDir:  schemaDir,
		GenOutput:  genOutput,
		GenPackage: strings.TrimSpace(cfg.Gen.Package),
	}, nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}
