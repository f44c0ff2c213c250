package testing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/capitan"

	"github.com/go-drift/formbuilder/pkg/form"
)

// ErrWaitTimeout is returned when WaitFor exceeds its timeout.
var ErrWaitTimeout = errors.New("WaitFor timed out: expected signals not recorded")

// RecordedEvent is one observed form or field signal.
type RecordedEvent struct {
	// Signal is the emitting signal, such as [form.FieldChanged].
	Signal capitan.Signal
	// Form is the diagnostic name of the emitting form.
	Form string
	// Field is the field name, empty on form-level events.
	Field string
	// Error is the error message on validation and invalidation events.
	Error string
	// FieldCount is the field count carried by aggregate events.
	FieldCount int
	// InvalidCount is the failing-field count on failed validation passes.
	InvalidCount int
}

// SignalRecorder collects the capitan events one form emits. capitan
// hooks are process wide and cannot be removed, so one shared hook set is
// installed on first use and recorders attach to it; Stop detaches the
// recorder, never the hooks.
type SignalRecorder struct {
	form string

	mu     sync.Mutex
	events []RecordedEvent
}

var (
	recordersMu sync.Mutex
	recorders   []*SignalRecorder
	installOnce sync.Once
)

// RecordSignals starts recording events whose form name equals formName.
// Events emitted before the recorder starts are not seen. Call Stop when
// done, or use RecordSignalsWithT instead.
func RecordSignals(formName string) *SignalRecorder {
	installOnce.Do(installHooks)
	r := &SignalRecorder{form: formName}
	recordersMu.Lock()
	recorders = append(recorders, r)
	recordersMu.Unlock()
	return r
}

// RecordSignalsWithT starts recording and stops via t.Cleanup. This is
// the recommended constructor for tests.
func RecordSignalsWithT(t *testing.T, formName string) *SignalRecorder {
	r := RecordSignals(formName)
	t.Cleanup(r.Stop)
	return r
}

// Stop detaches the recorder. Already recorded events remain readable.
func (r *SignalRecorder) Stop() {
	recordersMu.Lock()
	defer recordersMu.Unlock()
	for i, rec := range recorders {
		if rec == r {
			recorders = append(recorders[:i], recorders[i+1:]...)
			return
		}
	}
}

// Events returns a copy of everything recorded so far, in arrival order.
func (r *SignalRecorder) Events() []RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many recorded events carry sig.
func (r *SignalRecorder) Count(sig capitan.Signal) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Signal == sig {
			n++
		}
	}
	return n
}

// Last returns the most recent event for sig, reporting whether one has
// been recorded.
func (r *SignalRecorder) Last(sig capitan.Signal) (RecordedEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Signal == sig {
			return r.events[i], true
		}
	}
	return RecordedEvent{}, false
}

// WaitFor blocks until at least n events for sig have been recorded or
// the timeout elapses. Dispatch is capitan's concern; waiting keeps
// assertions independent of its delivery model.
func (r *SignalRecorder) WaitFor(sig capitan.Signal, n int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if r.Count(sig) >= n {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %v count %d, want at least %d",
				ErrWaitTimeout, sig, r.Count(sig), n)
		}
		time.Sleep(time.Millisecond)
	}
}

func (r *SignalRecorder) observe(ev RecordedEvent) {
	if ev.Form != r.form {
		return
	}
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func installHooks() {
	capitan.Hook(form.FieldRegistered, record(form.FieldRegistered))
	capitan.Hook(form.FieldReplaced, record(form.FieldReplaced))
	capitan.Hook(form.FieldChanged, record(form.FieldChanged))
	capitan.Hook(form.FieldValidationFailed, record(form.FieldValidationFailed))
	capitan.Hook(form.FieldInvalidated, record(form.FieldInvalidated))
	capitan.Hook(form.FormValidated, record(form.FormValidated))
	capitan.Hook(form.FormValidationFailed, record(form.FormValidationFailed))
	capitan.Hook(form.FormSaved, record(form.FormSaved))
	capitan.Hook(form.FormReset, record(form.FormReset))
	capitan.Hook(form.FormPatched, record(form.FormPatched))
}

// record builds a hook that fans one signal's events out to every
// attached recorder.
func record(sig capitan.Signal) func(context.Context, *capitan.Event) {
	return func(_ context.Context, e *capitan.Event) {
		formName, _ := form.KeyForm.From(e)
		fieldName, _ := form.KeyField.From(e)
		errText, _ := form.KeyError.From(e)
		fieldCount, _ := form.KeyFieldCount.From(e)
		invalidCount, _ := form.KeyInvalidCount.From(e)
		ev := RecordedEvent{
			Signal:       sig,
			Form:         formName,
			Field:        fieldName,
			Error:        errText,
			FieldCount:   fieldCount,
			InvalidCount: invalidCount,
		}
		recordersMu.Lock()
		active := make([]*SignalRecorder, len(recorders))
		copy(active, recorders)
		recordersMu.Unlock()
		for _, r := range active {
			r.observe(ev)
		}
	}
}
