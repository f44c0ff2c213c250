package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/formbuilder/pkg/schema"
	"github.com/go-drift/formbuilder/pkg/tui"
)

func init() {
	RegisterCommand(&Command{
		Name:  "fill",
		Short: "Fill a form interactively",
		Long: `Build the form a schema describes and fill it at the terminal.

Each field is prompted in schema order with its label, help text, and
current default. An answer that fails the field's validators is re-asked
up to the attempt budget. When the whole form validates, the committed
values are printed as YAML.

Flags:
  --attempts N   Re-ask a failing field up to N times (default: 3)`,
		Usage: "formbuilder fill <schema.yaml> [--attempts N]",
		Run:   runFill,
	})
}

func runFill(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("schema file is required\n\nUsage: formbuilder fill <schema.yaml>")
	}
	path := args[0]

	attempts := 0
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--attempts":
			if i+1 >= len(args) {
				return fmt.Errorf("--attempts requires a number")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 1 {
				return fmt.Errorf("--attempts requires a positive number, got %q", args[i+1])
			}
			attempts = n
			i++
		default:
			return fmt.Errorf("unknown flag %q", args[i])
		}
	}

	s, err := schema.Load(path)
	if err != nil {
		return err
	}
	m, err := s.Build()
	if err != nil {
		return err
	}
	defer m.Dispose()

	var opts []tui.RunnerOption
	if attempts > 0 {
		opts = append(opts, tui.WithAttempts(attempts))
	}
	runner := tui.NewRunner(s, m, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	values, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			return fmt.Errorf("aborted")
		}
		return err
	}

	out, err := yaml.Marshal(values.Raw())
	if err != nil {
		return fmt.Errorf("failed to encode values: %w", err)
	}
	fmt.Println("---")
	fmt.Print(string(out))
	return nil
}
