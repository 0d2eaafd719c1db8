// Package loadcoord coordinates document loads so that only the newest
// request is allowed to land. Each load captures a generation nonce and
// re-checks it after every suspension point (fetch, render, watch restart);
// a superseded load's result is discarded without firing any callback. The
// counter is the concurrency-control primitive; no lock is needed.
package loadcoord

import (
	"log/slog"
	"sync/atomic"

	"github.com/raudvere/lectern/internal/document"
)

// Result classifies how a load finished.
type Result int

const (
	// Success means the document was shown and all follow-up steps ran.
	Success Result = iota
	// Stale means a newer load superseded this one; nothing was surfaced.
	Stale
	// FailedBeforeLoad means no document was ever obtained.
	FailedBeforeLoad
	// FailedAfterLoad means the document was obtained and shown, but a
	// later step (render, watch) failed. The document stays current.
	FailedAfterLoad
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case Stale:
		return "stale"
	case FailedBeforeLoad:
		return "failed-before-load"
	case FailedAfterLoad:
		return "failed-after-load"
	}
	return "unknown"
}

// Loader fetches and renders a document.
type Loader interface {
	Load(path string, prefs document.RenderPreferences) (*document.Document, error)
}

// WatchController owns the single active file watch.
type WatchController interface {
	Start(path string) error
	Stop()
}

// Callbacks are the output hooks a load drives. Nil fields are skipped.
type Callbacks struct {
	OnLoadingStarted  func(path string)
	OnDocumentLoaded  func(requestedPath string, doc *document.Document)
	OnErrorCleared    func()
	RenderDocument    func(doc *document.Document) error
	OnLoadFailed      func(path, message string)
	OnLoadingComplete func(path string)
}

// Options tune a single load.
type Options struct {
	// RestartWatch stops the previous watch and starts one on the
	// resolved document path after a successful load.
	RestartWatch bool
}

// Coordinator runs one logical load at a time.
type Coordinator struct {
	generation atomic.Uint64
	closed     atomic.Bool

	loader    Loader
	watcher   WatchController
	prefs     func() document.RenderPreferences
	callbacks Callbacks
	logger    *slog.Logger
}

// New creates a Coordinator. prefs is consulted at the start of each load so
// preference changes apply without rebuilding the coordinator.
func New(loader Loader, watcher WatchController, prefs func() document.RenderPreferences, callbacks Callbacks, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		loader:    loader,
		watcher:   watcher,
		prefs:     prefs,
		callbacks: callbacks,
		logger:    logger,
	}
}

// Load fetches path and drives the output callbacks. Every step after an
// asynchronous boundary re-checks the captured nonce; a mismatch means a
// newer load took over and this one returns Stale with no side effects.
func (c *Coordinator) Load(path string, opts Options) Result {
	if c.closed.Load() {
		return Stale
	}
	nonce := c.generation.Add(1)
	if c.callbacks.OnLoadingStarted != nil {
		c.callbacks.OnLoadingStarted(path)
	}

	doc, err := c.loader.Load(path, c.prefs())
	if err != nil {
		if c.stale(nonce) {
			return Stale
		}
		c.fail(path, err.Error())
		return FailedBeforeLoad
	}
	if c.stale(nonce) {
		c.logger.Debug("load: stale result discarded", slog.String("path", path))
		return Stale
	}

	if c.callbacks.OnDocumentLoaded != nil {
		c.callbacks.OnDocumentLoaded(path, doc)
	}
	if c.callbacks.OnErrorCleared != nil {
		c.callbacks.OnErrorCleared()
	}

	if c.callbacks.RenderDocument != nil {
		renderErr := c.callbacks.RenderDocument(doc)
		if c.stale(nonce) {
			return Stale
		}
		if renderErr != nil {
			c.fail(path, renderErr.Error())
			return FailedAfterLoad
		}
	}

	if opts.RestartWatch && c.watcher != nil {
		c.watcher.Stop()
		if c.stale(nonce) {
			return Stale
		}
		if watchErr := c.watcher.Start(doc.Path); watchErr != nil {
			if c.stale(nonce) {
				return Stale
			}
			c.fail(path, watchErr.Error())
			return FailedAfterLoad
		}
		if c.stale(nonce) {
			return Stale
		}
	}

	if c.callbacks.OnLoadingComplete != nil {
		c.callbacks.OnLoadingComplete(path)
	}
	return Success
}

// Close tears down the coordinator. The generation bump turns any in-flight
// load stale so its eventual resolution is a no-op.
func (c *Coordinator) Close() {
	c.closed.Store(true)
	c.generation.Add(1)
}

func (c *Coordinator) stale(nonce uint64) bool {
	return c.closed.Load() || c.generation.Load() != nonce
}

func (c *Coordinator) fail(path, message string) {
	c.logger.Warn("load: failed", slog.String("path", path), slog.String("error", message))
	if c.callbacks.OnLoadFailed != nil {
		c.callbacks.OnLoadFailed(path, message)
	}
}
