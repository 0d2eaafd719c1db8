// Package watch implements the single-file watch controller. It watches
// the file's parent directory with fsnotify (non-recursive), filters events
// down to the target file, and debounces change bursts into one
// notification per quiet period.
package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultQuietPeriod is the debounce window for external file changes.
const DefaultQuietPeriod = 350 * time.Millisecond

// Controller watches at most one file at a time. Start replaces any
// previous watch; Stop is idempotent.
type Controller struct {
	mu     sync.Mutex
	active *fsnotify.Watcher
	done   chan struct{}

	quiet    time.Duration
	onChange func(path string)
	logger   *slog.Logger
}

// NewController creates a stopped controller. onChange fires on the event
// goroutine after the quiet period elapses without further events.
func NewController(quiet time.Duration, onChange func(path string), logger *slog.Logger) *Controller {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Controller{quiet: quiet, onChange: onChange, logger: logger}
}

// Start begins watching path, stopping any previous watch first.
func (c *Controller) Start(path string) error {
	c.Stop()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: new watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watch: add %s: %w", dir, err)
	}

	done := make(chan struct{})
	c.mu.Lock()
	c.active = w
	c.done = done
	c.mu.Unlock()

	c.logger.Info("watcher: started", slog.String("path", path))
	go c.run(w, done, path)
	return nil
}

// Stop cancels the active watch. Safe to call repeatedly.
func (c *Controller) Stop() {
	c.mu.Lock()
	w, done := c.active, c.done
	c.active, c.done = nil, nil
	c.mu.Unlock()

	if w != nil {
		close(done)
		w.Close()
	}
}

func (c *Controller) run(w *fsnotify.Watcher, done chan struct{}, path string) {
	target := filepath.Clean(path)

	// debounce is restarted on each new event for the watched file, so a
	// burst of writes collapses into one notification.
	var debounce *time.Timer
	var debounceCh <-chan time.Time
	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(c.quiet)
			debounceCh = debounce.C
		} else {
			debounce.Reset(c.quiet)
		}
	}

	for {
		select {
		case <-done:
			if debounce != nil {
				debounce.Stop()
			}
			c.logger.Info("watcher: stopped", slog.String("path", path))
			return

		case <-debounceCh:
			c.logger.Debug("watcher: change settled", slog.String("path", path))
			if c.onChange != nil {
				c.onChange(path)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return
			}
			c.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
