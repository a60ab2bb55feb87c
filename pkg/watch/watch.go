// Package watch notifies subscribers when watched files change.
//
// Files are watched through their parent directories so that editors which
// replace a file on save (rename over the original) keep being observed.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/storysort/pkg/log"
)

// DefaultDebounce is how long the watcher waits for further events before
// notifying subscribers.
const DefaultDebounce = 100 * time.Millisecond

// Event is sent to subscribers when a watched file changes, or when the
// underlying watcher reports an error.
type Event struct {
	ctx context.Context //nolint:containedctx // Carries the trace of the change.

	Err  error
	Path string
	Op   fsnotify.Op
}

// GetContext returns the context of the change.
func (e Event) GetContext() context.Context {
	if e.ctx == nil {
		return context.Background()
	}

	return e.ctx
}

// Watcher watches a set of files and broadcasts an [Event] for each
// debounced change.
type Watcher struct {
	tracer  trace.Tracer
	watcher *fsnotify.Watcher

	// Absolute paths of watched files.
	files map[string]struct{}
	// Absolute paths of watched directories.
	dirs map[string]struct{}

	listeners []chan<- Event
	debounce  time.Duration
	mu        sync.Mutex
}

// Opt configures a [Watcher].
type Opt func(*Watcher)

// WithDebounce sets how long to wait for related events. Zero disables
// debouncing.
func WithDebounce(d time.Duration) Opt {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a new [Watcher].
func New(opts ...Opt) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		tracer:   otel.Tracer("github.com/macropower/storysort/pkg/watch"),
		watcher:  fw,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Add starts watching the given files. Empty paths and "-" are ignored.
func (w *Watcher) Add(paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range paths {
		if p == "" || p == "-" {
			continue
		}

		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("get absolute path: %w", err)
		}

		dir := filepath.Dir(abs)
		if _, ok := w.dirs[dir]; !ok {
			err = w.watcher.Add(dir)
			if err != nil {
				return fmt.Errorf("add path to watcher: %w", err)
			}

			w.dirs[dir] = struct{}{}
		}

		w.files[abs] = struct{}{}
	}

	slog.Debug("added file watchers",
		slog.Int("files", len(w.files)),
		slog.Int("dirs", len(w.dirs)),
	)

	return nil
}

// Reset stops watching all files.
func (w *Watcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for dir := range w.dirs {
		err := w.watcher.Remove(dir)
		if err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			slog.Error("remove path from watcher", slog.Any("err", err))
		}
	}

	clear(w.dirs)
	clear(w.files)
}

// Subscribe allows other components to listen for change events.
// Subscribers must be added before [Watcher.Run] is called.
func (w *Watcher) Subscribe(ch chan<- Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.listeners = append(w.listeners, ch)
}

func (w *Watcher) isWatched(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, ok := w.files[path]

	return ok
}

func (w *Watcher) broadcast(ctx context.Context, evt Event) {
	log.WithContext(evt.GetContext()).DebugContext(evt.GetContext(), "broadcasting event",
		slog.String("path", evt.Path),
		slog.String("op", evt.Op.String()),
		slog.Any("error", evt.Err),
	)

	w.mu.Lock()
	listeners := w.listeners
	w.mu.Unlock()

	for _, ch := range listeners {
		select {
		case ch <- evt:
		case <-ctx.Done():
			return
		}
	}
}

// Run listens for file system events until ctx is done or the watcher is
// closed. Changes to watched files are debounced and then broadcast.
func (w *Watcher) Run(ctx context.Context) {
	var (
		pending *fsnotify.Event
		timer   = time.NewTimer(time.Hour)
	)

	timer.Stop()
	defer timer.Stop()

	flush := func() {
		if pending == nil {
			return
		}

		evtCtx, span := w.tracer.Start(context.Background(), "file changed",
			trace.WithAttributes(
				attribute.String("path", pending.Name),
				attribute.String("op", pending.Op.String()),
			),
		)
		w.broadcast(ctx, Event{ctx: evtCtx, Path: pending.Name, Op: pending.Op})
		span.End()

		pending = nil
	}

	for {
		select {
		case <-ctx.Done():
			return

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Ignore events that are not related to file content changes.
			if evt.Has(fsnotify.Chmod) || !w.isWatched(evt.Name) {
				continue
			}

			pending = &evt
			if w.debounce <= 0 {
				flush()

				continue
			}

			timer.Reset(w.debounce)

		case <-timer.C:
			flush()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.broadcast(ctx, Event{Err: err})
		}
	}
}

// Close stops the underlying watcher, which ends [Watcher.Run].
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}
