package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")

	// ErrAttemptsExhausted is returned when a field stays invalid after
	// the runner's attempt budget.
	ErrAttemptsExhausted = errors.New("tui: attempts exhausted")

	// ErrInvalid is returned when the completed form fails validation.
	ErrInvalid = errors.New("tui: form is invalid")
)
