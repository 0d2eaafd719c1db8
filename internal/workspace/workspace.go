// Package workspace composes the tab state machine with the load
// coordinator into the controller that owns all tab, document, recent, and
// find state. Every mutation goes through this controller; transitions are
// snapshot/compute/commit, so partial mutation is never observable.
package workspace

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/raudvere/lectern/internal/document"
	"github.com/raudvere/lectern/internal/findnav"
	"github.com/raudvere/lectern/internal/loadcoord"
	"github.com/raudvere/lectern/internal/pathutil"
	"github.com/raudvere/lectern/internal/recent"
	"github.com/raudvere/lectern/internal/tabs"
)

// ScrollQuietPeriod is the debounce window for scroll persistence. It is a
// separate timer from the file-change debounce.
const ScrollQuietPeriod = 140 * time.Millisecond

// Workspace event types published to the event sink.
const (
	EventDocumentLoaded = "document.loaded"
	EventDocumentFailed = "document.load-failed"
	EventTabsChanged    = "tabs.changed"
	EventFileUpdated    = "file.updated"
	EventWorkspaceEmpty = "workspace.empty"
	EventScrollRestore  = "scroll.restore"
	EventFindChanged    = "find.changed"
)

// CloseOutcome reports what closing a tab did to the workspace.
type CloseOutcome string

const (
	OutcomeUnchanged      CloseOutcome = "unchanged"
	OutcomeWorkspaceEmpty CloseOutcome = "workspace-empty"
	OutcomeActivatedNext  CloseOutcome = "activated-next"
)

// Store is the persistence surface the controller writes through. Loads
// never fail; saves are best-effort.
type Store interface {
	LoadTabSession() tabs.Session
	SaveTabSession(tabs.Session)
	LoadRecentDocuments(maxEntries int) recent.State
	SaveRecentDocuments(recent.State)
	ScrollOffset(path string) (float64, bool)
	SaveScrollOffset(path string, offset float64)
}

// Events receives workspace event broadcasts.
type Events interface {
	Publish(eventType string, data any)
}

// OpenOptions tune OpenInTab.
type OpenOptions struct {
	ActivateTab   bool
	RestartWatch  bool
	RestoreScroll bool
}

// Config wires a Controller.
type Config struct {
	Loader           loadcoord.Loader
	Watcher          loadcoord.WatchController
	Store            Store
	Events           Events
	Logger           *slog.Logger
	Preferences      document.RenderPreferences
	MaxRecentEntries int
	ScrollQuiet      time.Duration
}

// Controller is the single owner of workspace state.
type Controller struct {
	mu      sync.Mutex
	tabs    tabs.State
	current *document.Document
	recents recent.State
	find    findnav.State
	prefs   document.RenderPreferences

	lastError string
	scroll    map[string]float64
	dirty     map[string]struct{}

	scrollTimer *time.Timer
	scrollQuiet time.Duration
	closed      bool

	coord     *loadcoord.Coordinator
	watcher   loadcoord.WatchController
	store     Store
	events    Events
	logger    *slog.Logger
	maxRecent int
}

// New builds a Controller and restores the persisted tab session and
// recent-documents list. No load is triggered; call ReopenActive for that.
func New(cfg Config) *Controller {
	maxRecent := cfg.MaxRecentEntries
	if maxRecent <= 0 {
		maxRecent = recent.DefaultMaxEntries
	}
	quiet := cfg.ScrollQuiet
	if quiet <= 0 {
		quiet = ScrollQuietPeriod
	}

	c := &Controller{
		prefs:       cfg.Preferences,
		scroll:      make(map[string]float64),
		dirty:       make(map[string]struct{}),
		scrollQuiet: quiet,
		watcher:     cfg.Watcher,
		store:       cfg.Store,
		events:      cfg.Events,
		logger:      cfg.Logger,
		maxRecent:   maxRecent,
	}
	c.tabs = tabs.Restore(cfg.Store.LoadTabSession())
	c.recents = cfg.Store.LoadRecentDocuments(maxRecent)

	c.coord = loadcoord.New(cfg.Loader, cfg.Watcher, c.preferences, loadcoord.Callbacks{
		OnDocumentLoaded: c.onDocumentLoaded,
		OnErrorCleared:   c.onErrorCleared,
		OnLoadFailed:     c.onLoadFailed,
	}, cfg.Logger)
	return c
}

// OpenInTab opens path in a tab and loads it. A blank path is a no-op
// (reported as Stale, since nothing was surfaced). When the load fails
// before anything was shown, the speculative tab open is rolled back.
func (c *Controller) OpenInTab(path string, opts OpenOptions) loadcoord.Result {
	path = strings.TrimSpace(path)
	if path == "" {
		return loadcoord.Stale
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return loadcoord.Stale
	}
	c.persistCurrentScrollLocked()
	snapshot := c.tabs
	c.tabs = tabs.Open(c.tabs, path, opts.ActivateTab)
	c.store.SaveTabSession(tabs.ToSession(c.tabs))
	c.publishTabsLocked()
	c.mu.Unlock()

	res := c.coord.Load(path, loadcoord.Options{RestartWatch: opts.RestartWatch})
	switch {
	case res == loadcoord.FailedBeforeLoad:
		c.mu.Lock()
		c.tabs = snapshot
		c.store.SaveTabSession(tabs.ToSession(c.tabs))
		c.publishTabsLocked()
		c.mu.Unlock()
	case res == loadcoord.Success && opts.RestoreScroll:
		c.restoreScroll()
	}
	return res
}

// CloseTab removes the tab for path. Closing a non-active tab (or an
// unknown path) leaves the displayed document alone. Closing the active
// tab activates and loads its successor, rolling the close back when that
// load fails before showing anything.
func (c *Controller) CloseTab(path string) CloseOutcome {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return OutcomeUnchanged
	}
	c.persistCurrentScrollLocked()
	snapshot := c.tabs
	res := tabs.Close(c.tabs, path)
	if !res.Removed {
		c.mu.Unlock()
		return OutcomeUnchanged
	}
	c.tabs = res.State
	c.store.SaveTabSession(tabs.ToSession(c.tabs))
	c.publishTabsLocked()

	if !res.ClosedActive {
		c.mu.Unlock()
		return OutcomeUnchanged
	}
	if res.NextActivePath == "" {
		c.current = nil
		c.mu.Unlock()
		c.watcher.Stop()
		c.events.Publish(EventWorkspaceEmpty, struct{}{})
		return OutcomeWorkspaceEmpty
	}
	next := res.NextActivePath
	c.mu.Unlock()

	loadRes := c.coord.Load(next, loadcoord.Options{RestartWatch: true})
	if loadRes == loadcoord.FailedBeforeLoad {
		c.mu.Lock()
		c.tabs = snapshot
		c.store.SaveTabSession(tabs.ToSession(c.tabs))
		c.publishTabsLocked()
		c.mu.Unlock()
		return OutcomeUnchanged
	}
	if loadRes == loadcoord.Success {
		c.restoreScroll()
	}
	return OutcomeActivatedNext
}

// CloseActiveTab closes the active tab, falling back to the currently
// displayed document's path when no tab is marked active.
func (c *Controller) CloseActiveTab() CloseOutcome {
	c.mu.Lock()
	path := c.tabs.ActivePath
	if path == "" && c.current != nil {
		path = c.current.Path
	}
	c.mu.Unlock()
	if path == "" {
		return OutcomeUnchanged
	}
	return c.CloseTab(path)
}

// ActivateAdjacentTab opens the neighbor tab in the given direction. It
// no-ops when the neighbor is the currently displayed document, avoiding a
// redundant reload.
func (c *Controller) ActivateAdjacentTab(dir tabs.Direction) loadcoord.Result {
	c.mu.Lock()
	next := tabs.Adjacent(c.tabs, dir)
	current := ""
	if c.current != nil {
		current = c.current.Path
	}
	c.mu.Unlock()

	if next == "" ||
		pathutil.NormalizeForCompare(next) == pathutil.NormalizeForCompare(current) {
		return loadcoord.Stale
	}
	return c.OpenInTab(next, OpenOptions{ActivateTab: true, RestartWatch: true, RestoreScroll: true})
}

// ReopenActive loads the restored session's active tab, if any.
func (c *Controller) ReopenActive() loadcoord.Result {
	c.mu.Lock()
	path := c.tabs.ActivePath
	c.mu.Unlock()
	if path == "" {
		return loadcoord.Stale
	}
	return c.OpenInTab(path, OpenOptions{ActivateTab: true, RestartWatch: true, RestoreScroll: true})
}

// HandleFileChanged reloads the current document after an external change.
// Changes to other paths are ignored. The watch stays in place.
func (c *Controller) HandleFileChanged(path string) {
	c.mu.Lock()
	current := ""
	if c.current != nil {
		current = c.current.Path
	}
	c.mu.Unlock()

	if current == "" ||
		pathutil.NormalizeForCompare(path) != pathutil.NormalizeForCompare(current) {
		return
	}
	c.events.Publish(EventFileUpdated, map[string]string{"path": current})
	res := c.coord.Load(current, loadcoord.Options{})
	c.logger.Debug("workspace: reload after change",
		slog.String("path", current), slog.String("result", res.String()))
}

// SetScroll records the scroll offset for path and schedules a debounced
// persist.
func (c *Controller) SetScroll(path string, offset float64) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.scroll[path] = offset
	c.dirty[path] = struct{}{}
	if c.scrollTimer == nil {
		c.scrollTimer = time.AfterFunc(c.scrollQuiet, c.flushScroll)
	} else {
		c.scrollTimer.Reset(c.scrollQuiet)
	}
}

// UpdateFind derives the find cursor for a query and match count.
func (c *Controller) UpdateFind(query string, matchCount int) findnav.State {
	c.mu.Lock()
	c.find = findnav.Derive(c.find, query, matchCount)
	out := c.find
	c.mu.Unlock()
	c.events.Publish(EventFindChanged, out)
	return out
}

// StepFind moves the find cursor one match in the given direction.
func (c *Controller) StepFind(dir findnav.Direction) findnav.State {
	c.mu.Lock()
	c.find = findnav.Step(c.find, dir)
	out := c.find
	c.mu.Unlock()
	c.events.Publish(EventFindChanged, out)
	return out
}

// Tabs returns a copy of the current tab state.
func (c *Controller) Tabs() tabs.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := tabs.State{ActivePath: c.tabs.ActivePath, Tabs: make([]tabs.Tab, len(c.tabs.Tabs))}
	copy(out.Tabs, c.tabs.Tabs)
	return out
}

// CurrentDocument returns the displayed document, or nil.
func (c *Controller) CurrentDocument() *document.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Recents returns the recent-documents list.
func (c *Controller) Recents() recent.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recents
}

// FindState returns the current find cursor.
func (c *Controller) FindState() findnav.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.find
}

// LastError returns the most recent surfaced load error, or "".
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Preferences returns the render preferences applied to the next load.
func (c *Controller) Preferences() document.RenderPreferences {
	return c.preferences()
}

// SetPreferences replaces the render preferences for subsequent loads.
func (c *Controller) SetPreferences(prefs document.RenderPreferences) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefs = prefs
}

// Close shuts the controller down: pending scroll offsets are flushed, the
// coordinator's generation is bumped so in-flight loads land as stale, and
// the watch stops.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.scrollTimer != nil {
		c.scrollTimer.Stop()
	}
	for p := range c.dirty {
		c.store.SaveScrollOffset(p, c.scroll[p])
	}
	c.dirty = make(map[string]struct{})
	c.mu.Unlock()

	c.coord.Close()
	c.watcher.Stop()
}

func (c *Controller) preferences() document.RenderPreferences {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs
}

func (c *Controller) onDocumentLoaded(requestedPath string, doc *document.Document) {
	c.mu.Lock()
	c.tabs = tabs.ApplyLoadedDocument(c.tabs, requestedPath, doc.Path, doc.Title)
	c.current = doc
	c.recents = recent.Add(c.recents, doc.Path, c.maxRecent)
	c.store.SaveTabSession(tabs.ToSession(c.tabs))
	c.store.SaveRecentDocuments(c.recents)
	c.publishTabsLocked()
	c.mu.Unlock()

	c.events.Publish(EventDocumentLoaded, map[string]any{
		"path":               doc.Path,
		"title":              doc.Title,
		"wordCount":          doc.WordCount,
		"readingTimeMinutes": doc.ReadingTimeMinutes,
	})
}

func (c *Controller) onErrorCleared() {
	c.mu.Lock()
	c.lastError = ""
	c.mu.Unlock()
}

func (c *Controller) onLoadFailed(path, message string) {
	c.mu.Lock()
	c.lastError = message
	c.mu.Unlock()
	c.events.Publish(EventDocumentFailed, map[string]string{"path": path, "error": message})
}

// publishTabsLocked broadcasts the tab list. Callers hold c.mu.
func (c *Controller) publishTabsLocked() {
	out := make([]tabs.Tab, len(c.tabs.Tabs))
	copy(out, c.tabs.Tabs)
	c.events.Publish(EventTabsChanged, map[string]any{
		"tabs":       out,
		"activePath": c.tabs.ActivePath,
	})
}

// persistCurrentScrollLocked flushes the outgoing document's scroll offset
// immediately. Callers hold c.mu.
func (c *Controller) persistCurrentScrollLocked() {
	if c.current == nil {
		return
	}
	path := c.current.Path
	if _, pending := c.dirty[path]; !pending {
		return
	}
	c.store.SaveScrollOffset(path, c.scroll[path])
	delete(c.dirty, path)
}

// restoreScroll publishes the persisted scroll offset for the document
// that just loaded.
func (c *Controller) restoreScroll() {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()
	if current == nil {
		return
	}
	if offset, ok := c.store.ScrollOffset(current.Path); ok {
		c.events.Publish(EventScrollRestore, map[string]any{
			"path":   current.Path,
			"offset": offset,
		})
	}
}

func (c *Controller) flushScroll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for p := range c.dirty {
		c.store.SaveScrollOffset(p, c.scroll[p])
	}
	c.dirty = make(map[string]struct{})
}
