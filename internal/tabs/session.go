package tabs

import "strings"

// Session is the persisted projection of State. Titles are not persisted;
// they are re-derived on restore.
type Session struct {
	TabPaths   []string `json:"tabPaths"`
	ActivePath string   `json:"activePath,omitempty"`
}

// Merge sanitizes an untrusted, already-parsed session: only string entries
// survive, trimmed, empties dropped, duplicates collapsed to the first
// occurrence. The active path is honored only when it is among the
// survivors; otherwise it falls back to the last path.
func Merge(tabPaths []any, activePath any) Session {
	seen := make(map[string]struct{}, len(tabPaths))
	var paths []string
	for _, raw := range tabPaths {
		s, ok := raw.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		paths = append(paths, s)
	}

	active := ""
	if s, ok := activePath.(string); ok {
		active = strings.TrimSpace(s)
	}
	return Session{TabPaths: paths, ActivePath: resolveActive(paths, active)}
}

// Restore replays a session into a fresh State without triggering loads.
func Restore(sess Session) State {
	var s State
	for _, p := range sess.TabPaths {
		s = Open(s, p, false)
	}
	paths := make([]string, len(s.Tabs))
	for i, t := range s.Tabs {
		paths[i] = t.Path
	}
	s.ActivePath = resolveActive(paths, sess.ActivePath)
	return s
}

// ToSession projects a State back into its persisted form.
func ToSession(s State) Session {
	paths := make([]string, len(s.Tabs))
	for i, t := range s.Tabs {
		paths[i] = t.Path
	}
	return Session{TabPaths: paths, ActivePath: s.ActivePath}
}

func resolveActive(paths []string, candidate string) string {
	if candidate != "" {
		for _, p := range paths {
			if p == candidate {
				return candidate
			}
		}
	}
	if len(paths) == 0 {
		return ""
	}
	return paths[len(paths)-1]
}
