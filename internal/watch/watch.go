// Package watch re-renders a plan file whenever its contents change.
package watch

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long the watcher waits for writes to settle.
const DefaultDelay = 200 * time.Millisecond

// Handler receives the full file contents after each settled change.
type Handler func(text string) error

// FileWatcher watches a single file. The parent directory is watched rather
// than the file so that editors which save by rename keep triggering events.
type FileWatcher struct {
	path    string
	delay   time.Duration
	handler Handler
	watcher *fsnotify.Watcher
	log     *slog.Logger

	mu       sync.Mutex
	timer    *time.Timer
	lastHash [sha256.Size]byte
	seen     bool
	stopped  bool
}

// New creates a watcher for path. Start it with Run.
func New(path string, handler Handler) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &FileWatcher{
		path:    abs,
		delay:   DefaultDelay,
		handler: handler,
		watcher: w,
		log:     slog.Default().With("component", "watch", "file", abs),
	}, nil
}

// SetDelay changes the debounce delay.
func (w *FileWatcher) SetDelay(d time.Duration) { w.delay = d }

// Run calls the handler once with the current contents, then again after
// every change, until ctx is cancelled. Handler errors are logged and do not
// stop the watch.
func (w *FileWatcher) Run(ctx context.Context) error {
	defer w.close()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	if err := w.reload(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *FileWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		if err := w.reload(); err != nil {
			w.log.Warn("reload failed", "error", err)
		}
	})
}

// reload reads the file and calls the handler when the contents differ from
// the last delivered version.
func (w *FileWatcher) reload() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			// Mid-rename; the Create event that follows reloads it.
			return nil
		}
		return fmt.Errorf("read %s: %w", w.path, err)
	}

	sum := sha256.Sum256(data)
	w.mu.Lock()
	if w.stopped || (w.seen && sum == w.lastHash) {
		w.mu.Unlock()
		return nil
	}
	w.lastHash, w.seen = sum, true
	w.mu.Unlock()

	if err := w.handler(string(data)); err != nil {
		w.log.Warn("render failed", "error", err)
	}
	return nil
}

func (w *FileWatcher) close() {
	w.mu.Lock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	_ = w.watcher.Close()
}
