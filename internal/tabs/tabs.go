// Package tabs implements the document tab list as a value type with pure
// transition functions. The workspace controller holds the current State and
// funnels every mutation through these transitions.
package tabs

import (
	"strings"

	"github.com/raudvere/lectern/internal/pathutil"
)

// Tab is one open document. Path is the unique key.
type Tab struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// State is an ordered, path-unique tab list with at most one active tab.
// An empty ActivePath means no tab is active.
type State struct {
	Tabs       []Tab
	ActivePath string
}

// Direction selects a neighbor tab.
type Direction int

const (
	Next Direction = iota
	Previous
)

// CloseResult reports what a Close transition did.
type CloseResult struct {
	State          State
	Removed        bool
	ClosedActive   bool
	NextActivePath string
}

func indexOf(tabs []Tab, path string) int {
	for i, t := range tabs {
		if t.Path == path {
			return i
		}
	}
	return -1
}

func cloneTabs(tabs []Tab) []Tab {
	out := make([]Tab, len(tabs))
	copy(out, tabs)
	return out
}

// Open adds a tab for path, reusing an existing tab with the same path.
// When activate is true the tab becomes active. A blank path is a no-op.
func Open(s State, path string, activate bool) State {
	path = strings.TrimSpace(path)
	if path == "" {
		return s
	}
	next := State{Tabs: cloneTabs(s.Tabs), ActivePath: s.ActivePath}
	if indexOf(next.Tabs, path) < 0 {
		next.Tabs = append(next.Tabs, Tab{Path: path, Title: pathutil.Title(path)})
	}
	if activate {
		next.ActivePath = path
	}
	return next
}

// Close removes the tab for path. When the removed tab was active the
// successor is the tab that shifted into the removed slot, falling back to
// the new last tab; with no tabs left the active selection clears.
func Close(s State, path string) CloseResult {
	idx := indexOf(s.Tabs, path)
	if idx < 0 {
		return CloseResult{State: s}
	}

	next := State{Tabs: cloneTabs(s.Tabs), ActivePath: s.ActivePath}
	next.Tabs = append(next.Tabs[:idx], next.Tabs[idx+1:]...)

	if s.ActivePath != path {
		return CloseResult{State: next, Removed: true}
	}

	res := CloseResult{Removed: true, ClosedActive: true}
	if len(next.Tabs) == 0 {
		next.ActivePath = ""
	} else {
		pick := idx
		if last := len(next.Tabs) - 1; pick > last {
			pick = last
		}
		next.ActivePath = next.Tabs[pick].Path
		res.NextActivePath = next.ActivePath
	}
	res.State = next
	return res
}

// ApplyLoadedDocument commits a successful load, handling the case where the
// path actually served (symlink or case resolution) differs from the path
// requested. The requested-path tab is renamed in place to the loaded path,
// or dropped when a loaded-path tab already exists. The loaded tab ends up
// active with the resolved title.
func ApplyLoadedDocument(s State, requestedPath, loadedPath, loadedTitle string) State {
	next := State{Tabs: cloneTabs(s.Tabs), ActivePath: s.ActivePath}

	if requestedPath != loadedPath {
		if reqIdx := indexOf(next.Tabs, requestedPath); reqIdx >= 0 {
			if indexOf(next.Tabs, loadedPath) >= 0 {
				next.Tabs = append(next.Tabs[:reqIdx], next.Tabs[reqIdx+1:]...)
			} else {
				next.Tabs[reqIdx].Path = loadedPath
			}
			if next.ActivePath == requestedPath {
				next.ActivePath = loadedPath
			}
		}
	}

	title := loadedTitle
	if title == "" {
		title = pathutil.Title(loadedPath)
	}
	if idx := indexOf(next.Tabs, loadedPath); idx >= 0 {
		next.Tabs[idx].Title = title
	} else {
		next.Tabs = append(next.Tabs, Tab{Path: loadedPath, Title: title})
	}
	next.ActivePath = loadedPath
	return next
}

// Adjacent returns the neighbor tab's path in the given direction, wrapping
// at both ends. An unknown active path counts as index 0; an empty tab list
// yields "".
func Adjacent(s State, dir Direction) string {
	n := len(s.Tabs)
	if n == 0 {
		return ""
	}
	cur := indexOf(s.Tabs, s.ActivePath)
	if cur < 0 {
		cur = 0
	}
	switch dir {
	case Previous:
		return s.Tabs[(cur-1+n)%n].Path
	default:
		return s.Tabs[(cur+1)%n].Path
	}
}
