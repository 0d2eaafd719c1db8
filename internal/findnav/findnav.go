// Package findnav tracks the in-document find cursor over a match count.
package findnav

import (
	"fmt"
	"strings"
)

// NoActiveMatch is the ActiveIndex value when nothing is highlighted.
const NoActiveMatch = -1

// State is the find cursor: a query, how many matches it has, and which
// match is active.
type State struct {
	Query       string `json:"query"`
	MatchCount  int    `json:"matchCount"`
	ActiveIndex int    `json:"activeIndex"`
}

// Direction steps the cursor forward or backward.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Derive computes the next cursor for a (possibly changed) query and match
// count. An unchanged query keeps the previous index clamped into range; a
// changed query resets to the first match.
func Derive(previous State, query string, matchCount int) State {
	query = strings.TrimSpace(query)
	if matchCount < 0 {
		matchCount = 0
	}

	next := State{Query: query, MatchCount: matchCount, ActiveIndex: NoActiveMatch}
	if query == "" || matchCount == 0 {
		return next
	}

	if query == previous.Query {
		idx := previous.ActiveIndex
		if idx < 0 {
			idx = 0
		}
		if idx >= matchCount {
			idx = matchCount - 1
		}
		next.ActiveIndex = idx
		return next
	}

	next.ActiveIndex = 0
	return next
}

// Step wraps the active index one match in the given direction. An
// out-of-range current index counts as 0.
func Step(s State, dir Direction) State {
	if s.MatchCount <= 0 {
		s.ActiveIndex = NoActiveMatch
		return s
	}
	cur := s.ActiveIndex
	if cur < 0 || cur >= s.MatchCount {
		cur = 0
	}
	switch dir {
	case Backward:
		s.ActiveIndex = (cur - 1 + s.MatchCount) % s.MatchCount
	default:
		s.ActiveIndex = (cur + 1) % s.MatchCount
	}
	return s
}

// StatusLabel renders the "n / total" indicator.
func (s State) StatusLabel() string {
	if s.MatchCount <= 0 || s.ActiveIndex < 0 {
		return "0 / 0"
	}
	return fmt.Sprintf("%d / %d", s.ActiveIndex+1, s.MatchCount)
}
