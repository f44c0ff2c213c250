// Package main provides the FormBuilder demo application.
// It walks a login form through the full lifecycle: build from a YAML
// schema, prefill from the server, validate, absorb a server-side
// rejection, and save.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/zoobzio/capitan"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/formbuilder/pkg/form"
	"github.com/go-drift/formbuilder/pkg/schema"
)

// loginSchema is the declarative form definition. The same document could
// be loaded from disk with schema.Load; it is embedded here so the demo
// stays a single self-contained file.
const loginSchema = `
title: Login
autovalidate: afterTouched
fields:
  - name: email
    type: string
    label: Email address
    required: true
    rules: [email]
    transform: trim,lower
  - name: password
    type: string
    label: Password
    secret: true
    required: true
    minLength: 8
  - name: otp
    type: int
    label: One-time code
    min: 0
    max: 999999
  - name: remember
    type: bool
    label: Remember me
    default: true
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	s, err := schema.Parse([]byte(loginSchema))
	if err != nil {
		return err
	}
	m, err := s.Build()
	if err != nil {
		return err
	}
	defer m.Dispose()

	fmt.Printf("built form %q with fields %v\n", m.Name(), m.Names())

	// Observe field changes the way an app would drive UI updates.
	capitan.Hook(form.FieldChanged, func(_ context.Context, e *capitan.Event) {
		if name, ok := form.KeyField.From(e); ok {
			log.Printf("field %q changed", name)
		}
	})

	email := form.FieldOf[string](m, "email")
	password := form.FieldOf[string](m, "password")

	// A returning visitor: the server already knows the account email.
	m.PatchValues(map[string]any{"email": "Ada@Example.COM"})
	fmt.Printf("prefilled email: %q\n", email.Value())

	// First submit attempt, password still blank.
	if !m.Validate() {
		fmt.Println("validation failed:")
		printErrors(m)
	}

	password.SetValue("hunter2hunter2")
	if !m.Validate() {
		printErrors(m)
		return fmt.Errorf("login form did not validate")
	}
	fmt.Println("form valid, submitting")

	// The server rejects the credentials. Surface the rejection on the
	// field itself; Invalidate also moves focus there.
	password.Invalidate("password does not match this account")
	fmt.Println("server rejected the submission:")
	printErrors(m)

	password.SetValue("correct horse battery staple")
	if !m.Validate() {
		printErrors(m)
		return fmt.Errorf("login form did not validate")
	}

	committed := m.Save()
	out, err := yaml.Marshal(committed.Raw())
	if err != nil {
		return err
	}
	fmt.Printf("committed values:\n%s", out)
	return nil
}

func printErrors(m *form.Form) {
	for _, name := range m.Names() {
		if msg := m.Controller(name).EffectiveError(); msg != "" {
			fmt.Printf("  %s: %s\n", name, msg)
		}
	}
}
