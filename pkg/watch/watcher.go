package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one configuration document and triggers re-analysis
// when it changes. The parent directory is watched rather than the file so
// that exports which replace the file (write to temp, rename) are seen.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	file      string
	dir       string
	debounce  time.Duration
	callback  func(path string)
	logger    *slog.Logger
	mu        sync.Mutex
	pending   time.Time
}

// NewWatcher creates a watcher for file. A non-positive debounce defaults
// to 500ms.
func NewWatcher(file string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("invalid path %s: %w", file, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		file:      abs,
		dir:       filepath.Dir(abs),
		debounce:  debounce,
		logger:    logger,
	}, nil
}

// SetCallback sets the function to call when the file changes.
func (w *Watcher) SetCallback(cb func(path string)) {
	w.callback = cb
}

// Start watches until ctx is done. Callbacks run one at a time.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	color.Cyan("Watching %s for changes...", w.file)
	color.Cyan("Press Ctrl+C to stop")

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// handleEvent records a pending change when the event concerns the
// watched file.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if filepath.Clean(event.Name) != w.file {
		return
	}

	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
	w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
}

func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// processPending fires the callback once the file has been quiet for the
// debounce period.
func (w *Watcher) processPending() {
	w.mu.Lock()
	ready := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
	if ready {
		w.pending = time.Time{}
	}
	w.mu.Unlock()

	if ready && w.callback != nil {
		w.callback(w.file)
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// WatchedFiles returns the watched paths.
func (w *Watcher) WatchedFiles() []string {
	return w.fsWatcher.WatchList()
}
