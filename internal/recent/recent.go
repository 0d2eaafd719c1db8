// Package recent maintains the bounded most-recently-used document list.
package recent

import (
	"strings"

	"github.com/raudvere/lectern/internal/pathutil"
)

// DefaultMaxEntries bounds the ring when callers pass no explicit cap.
const DefaultMaxEntries = 12

// Entry is one remembered document.
type Entry struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// State is the MRU list: most recent first, unique by path, bounded.
type State struct {
	Entries []Entry `json:"entries"`
}

// Add moves path to the front with a freshly derived title, evicting any
// previous entry for the same path and truncating to maxEntries. A blank
// path is a no-op.
func Add(s State, path string, maxEntries int) State {
	path = strings.TrimSpace(path)
	if path == "" {
		return s
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	out := make([]Entry, 0, len(s.Entries)+1)
	out = append(out, Entry{Path: path, Title: pathutil.Title(path)})
	for _, e := range s.Entries {
		if e.Path == path {
			continue
		}
		out = append(out, e)
	}
	if len(out) > maxEntries {
		out = out[:maxEntries]
	}
	return State{Entries: out}
}

// Merge sanitizes untrusted, already-parsed entries: only string paths
// survive, trimmed and deduplicated, with the title falling back to the
// path's final segment when absent or non-string.
func Merge(raw []any, maxEntries int) State {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	seen := make(map[string]struct{}, len(raw))
	var out []Entry
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		path, ok := m["path"].(string)
		if !ok {
			continue
		}
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}

		title, ok := m["title"].(string)
		if !ok || strings.TrimSpace(title) == "" {
			title = pathutil.Title(path)
		}
		out = append(out, Entry{Path: path, Title: title})
		if len(out) == maxEntries {
			break
		}
	}
	return State{Entries: out}
}
