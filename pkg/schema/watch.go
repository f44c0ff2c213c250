package schema

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zoobzio/clockz"

	fberrors "github.com/go-drift/formbuilder/pkg/errors"
	"github.com/go-drift/formbuilder/pkg/form"
)

// DefaultDebounce is the default quiet period after a file change before
// the schema is rebuilt. Editors often write a file more than once per
// save; the debounce collapses such bursts into one rebuild.
const DefaultDebounce = 100 * time.Millisecond

// Reloader watches a schema file and rebuilds its form on change.
//
// Start performs the first build synchronously, then watches the file
// until the context is canceled. Every successful rebuild replaces the
// form returned by Form and is handed to the apply callback on the watch
// goroutine. A rebuild failure is reported through the error handler and
// leaves the last good form in place.
//
// The reloader never disposes a replaced form: callers may still hold
// fields from it, so retiring it is the apply callback's decision.
type Reloader struct {
	path     string
	apply    func(*form.Form)
	debounce time.Duration
	clock    clockz.Clock

	mu      sync.Mutex
	current *form.Form
}

// ReloaderOption configures a [Reloader].
type ReloaderOption func(*Reloader)

// WithDebounce sets the quiet period before a rebuild.
func WithDebounce(d time.Duration) ReloaderOption {
	return func(r *Reloader) {
		r.debounce = d
	}
}

// WithClock substitutes the clock used for debouncing. Use a
// clockz.FakeClock for deterministic tests.
func WithClock(clock clockz.Clock) ReloaderOption {
	return func(r *Reloader) {
		r.clock = clock
	}
}

// NewReloader creates a reloader for the given schema file. The apply
// callback receives every successfully built form, the initial one
// included; it may be nil when polling Form is enough.
func NewReloader(path string, apply func(*form.Form), opts ...ReloaderOption) *Reloader {
	r := &Reloader{
		path:     path,
		apply:    apply,
		debounce: DefaultDebounce,
		clock:    clockz.RealClock,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start builds the form from the file's current contents and begins
// watching. The initial build is synchronous: on failure the error is
// returned and nothing is watched.
func (r *Reloader) Start(ctx context.Context) error {
	m, err := r.build()
	if err != nil {
		return err
	}
	r.replace(m)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(r.path); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", r.path, err)
	}

	go r.watch(ctx, watcher)
	return nil
}

// Form returns the most recently built form.
func (r *Reloader) Form() *form.Form {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// watch runs the debounced event loop until the context is canceled.
func (r *Reloader) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	defer fberrors.Recover("schema.Reloader.watch")

	var (
		timer clockz.Timer
		dirty bool
	)

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				if dirty {
					r.rebuild()
				}
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			dirty = true
			if timer == nil {
				timer = r.clock.NewTimer(r.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(r.debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fberrors.Report(&fberrors.Error{
				Op:   "schema.Reloader.watch",
				Kind: fberrors.KindWatch,
				Err:  err,
			})

		case <-timerC:
			if dirty {
				r.rebuild()
				dirty = false
			}
		}
	}
}

// build loads the file and constructs a fresh form. The file is read at
// call time, so a burst of writes is rebuilt from its final contents.
func (r *Reloader) build() (*form.Form, error) {
	s, err := Load(r.path)
	if err != nil {
		return nil, err
	}
	return s.Build()
}

// rebuild is the watch-side build: failures are reported, not returned.
func (r *Reloader) rebuild() {
	m, err := r.build()
	if err != nil {
		fberrors.Report(&fberrors.Error{
			Op:   "schema.Reloader.rebuild",
			Kind: fberrors.KindWatch,
			Err:  err,
		})
		return
	}
	r.replace(m)
}

func (r *Reloader) replace(m *form.Form) {
	r.mu.Lock()
	r.current = m
	r.mu.Unlock()
	if r.apply != nil {
		r.apply(m)
	}
}
