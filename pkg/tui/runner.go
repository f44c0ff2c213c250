// Package tui runs forms interactively in the terminal.
//
// A Runner pairs a schema (field order and prompt metadata) with its
// built form (typed fields, validators, transforms). It prompts for each
// enabled field in schema order, pushes the answer through the field,
// and re-asks while validation fails, up to an attempt budget. After the
// walk the whole form is validated once more and saved.
//
// Prompts go through the PromptDriver interface; the default driver
// renders with survey on the controlling terminal, and tests substitute
// a scripted one.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-drift/formbuilder/pkg/form"
	"github.com/go-drift/formbuilder/pkg/schema"
)

// DefaultAttempts bounds how often a field is re-asked after failing
// validation.
const DefaultAttempts = 3

// Runner drives a form through terminal prompts.
type Runner struct {
	schema   *schema.Schema
	form     *form.Form
	driver   PromptDriver
	attempts int
}

// RunnerOption configures a [Runner].
type RunnerOption func(*Runner)

// WithDriver substitutes the prompt driver.
func WithDriver(d PromptDriver) RunnerOption {
	return func(r *Runner) {
		if d != nil {
			r.driver = d
		}
	}
}

// WithAttempts sets the per-field attempt budget.
func WithAttempts(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// NewRunner pairs a schema with its built form. The schema supplies
// field order and prompt metadata; the form supplies the typed fields
// the answers flow through.
func NewRunner(s *schema.Schema, m *form.Form, opts ...RunnerOption) *Runner {
	r := &Runner{
		schema:   s,
		form:     m,
		driver:   NewSurveyDriver(),
		attempts: DefaultAttempts,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run prompts for every enabled schema field in order, then validates
// and saves the form. The returned map holds committed values. Fields
// the form does not know, and disabled fields, are skipped.
func (r *Runner) Run(ctx context.Context) (form.ValueMap, error) {
	for i := range r.schema.Fields {
		spec := &r.schema.Fields[i]
		ctrl := r.form.Controller(spec.Name)
		if ctrl == nil || !ctrl.Enabled() {
			continue
		}
		if err := r.promptField(ctx, spec, ctrl); err != nil {
			return nil, err
		}
	}
	if !r.form.Validate() {
		if err := r.driver.Info(ctx, invalidSummary(r.form)); err != nil {
			return nil, err
		}
		return nil, ErrInvalid
	}
	return r.form.Save(), nil
}

// promptField asks until the answer parses and validates, within the
// attempt budget. An empty retry message means the answer reached the
// field; validation then decides whether to ask again.
func (r *Runner) promptField(ctx context.Context, spec *schema.FieldSpec, ctrl form.Controller) error {
	for attempt := 0; attempt < r.attempts; attempt++ {
		retry, err := r.ask(ctx, spec)
		if err != nil {
			return err
		}
		if retry == "" {
			if ctrl.Validate() {
				return nil
			}
			retry = ctrl.EffectiveError()
		}
		if err := r.driver.Info(ctx, retry); err != nil {
			return err
		}
	}
	return fmt.Errorf("field %q: %w", spec.Name, ErrAttemptsExhausted)
}

func (r *Runner) ask(ctx context.Context, spec *schema.FieldSpec) (string, error) {
	switch spec.Type {
	case schema.TypeString:
		return r.askString(ctx, spec)
	case schema.TypeInt:
		return r.askInt(ctx, spec)
	case schema.TypeFloat:
		return r.askFloat(ctx, spec)
	case schema.TypeBool:
		return r.askBool(ctx, spec)
	case schema.TypeSelect:
		return r.askSelect(ctx, spec)
	case schema.TypeMultiSelect:
		return r.askMultiSelect(ctx, spec)
	default:
		return "", fmt.Errorf("field %q: type %q: %w", spec.Name, spec.Type, schema.ErrUnknownType)
	}
}

func (r *Runner) askString(ctx context.Context, spec *schema.FieldSpec) (string, error) {
	fld := form.FieldOf[string](r.form, spec.Name)
	if fld == nil {
		return "", typeMismatch(spec)
	}
	fld.RequestFocus()

	cfg := InputConfig{
		Message:     promptLabel(spec),
		Help:        spec.Help,
		Placeholder: spec.Placeholder,
	}
	if fld.HasValue() && !spec.Secret {
		cfg.Default = fld.Value()
	}

	var out string
	var err error
	if spec.Secret {
		out, err = r.driver.Password(ctx, cfg)
	} else {
		out, err = r.driver.Input(ctx, cfg)
	}
	if err != nil {
		return "", err
	}
	fld.SetValue(out)
	return "", nil
}

func (r *Runner) askInt(ctx context.Context, spec *schema.FieldSpec) (string, error) {
	fld := form.FieldOf[int64](r.form, spec.Name)
	if fld == nil {
		return "", typeMismatch(spec)
	}
	fld.RequestFocus()

	const badInt = "must be a whole number"
	cfg := InputConfig{
		Message:     promptLabel(spec),
		Help:        spec.Help,
		Placeholder: spec.Placeholder,
		Validator: func(s string) error {
			if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
				return errors.New(badInt)
			}
			return nil
		},
	}
	if fld.HasValue() {
		cfg.Default = strconv.FormatInt(fld.Value(), 10)
	}

	out, err := r.driver.Input(ctx, cfg)
	if err != nil {
		return "", err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return badInt, nil
	}
	fld.SetValue(n)
	return "", nil
}

func (r *Runner) askFloat(ctx context.Context, spec *schema.FieldSpec) (string, error) {
	fld := form.FieldOf[float64](r.form, spec.Name)
	if fld == nil {
		return "", typeMismatch(spec)
	}
	fld.RequestFocus()

	const badFloat = "must be a number"
	cfg := InputConfig{
		Message:     promptLabel(spec),
		Help:        spec.Help,
		Placeholder: spec.Placeholder,
		Validator: func(s string) error {
			if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
				return errors.New(badFloat)
			}
			return nil
		},
	}
	if fld.HasValue() {
		cfg.Default = strconv.FormatFloat(fld.Value(), 'g', -1, 64)
	}

	out, err := r.driver.Input(ctx, cfg)
	if err != nil {
		return "", err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return badFloat, nil
	}
	fld.SetValue(f)
	return "", nil
}

func (r *Runner) askBool(ctx context.Context, spec *schema.FieldSpec) (string, error) {
	fld := form.FieldOf[bool](r.form, spec.Name)
	if fld == nil {
		return "", typeMismatch(spec)
	}
	fld.RequestFocus()

	cfg := ConfirmConfig{
		Message: promptLabel(spec),
		Help:    spec.Help,
		Default: fld.Value(),
	}
	out, err := r.driver.Confirm(ctx, cfg)
	if err != nil {
		return "", err
	}
	fld.SetValue(out)
	return "", nil
}

func (r *Runner) askSelect(ctx context.Context, spec *schema.FieldSpec) (string, error) {
	fld := form.FieldOf[string](r.form, spec.Name)
	if fld == nil {
		return "", typeMismatch(spec)
	}
	fld.RequestFocus()

	cfg := SelectConfig{
		Message:      promptLabel(spec),
		Options:      spec.Enum,
		Help:         spec.Help,
		DefaultIndex: -1,
	}
	if fld.HasValue() {
		cfg.DefaultIndex = indexOf(spec.Enum, fld.Value())
	}

	idx, err := r.driver.Select(ctx, cfg)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(spec.Enum) {
		return "choose one of the listed options", nil
	}
	fld.SetValue(spec.Enum[idx])
	return "", nil
}

func (r *Runner) askMultiSelect(ctx context.Context, spec *schema.FieldSpec) (string, error) {
	fld := form.FieldOf[[]string](r.form, spec.Name)
	if fld == nil {
		return "", typeMismatch(spec)
	}
	fld.RequestFocus()

	cfg := SelectConfig{
		Message:      promptLabel(spec),
		Options:      spec.Enum,
		Help:         spec.Help,
		DefaultIndex: -1,
		Defaults:     indicesOf(spec.Enum, fld.Value()),
	}
	idxs, err := r.driver.MultiSelect(ctx, cfg)
	if err != nil {
		return "", err
	}
	chosen := make([]string, 0, len(idxs))
	for _, idx := range idxs {
		if idx >= 0 && idx < len(spec.Enum) {
			chosen = append(chosen, spec.Enum[idx])
		}
	}
	fld.SetValue(chosen)
	return "", nil
}

func promptLabel(spec *schema.FieldSpec) string {
	if spec.Label != "" {
		return spec.Label
	}
	return spec.Name
}

func typeMismatch(spec *schema.FieldSpec) error {
	return fmt.Errorf("field %q: form field does not match schema type %q", spec.Name, spec.Type)
}

// invalidSummary lists every field error, one per line, for the final
// validation report.
func invalidSummary(m *form.Form) string {
	var b strings.Builder
	b.WriteString("form is invalid:")
	for _, name := range m.Names() {
		ctrl := m.Controller(name)
		if ctrl == nil {
			continue
		}
		if msg := ctrl.EffectiveError(); msg != "" {
			b.WriteString("\n  ")
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(msg)
		}
	}
	return b.String()
}
