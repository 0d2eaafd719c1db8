package tabs

import "testing"

func openAll(paths ...string) State {
	var s State
	for _, p := range paths {
		s = Open(s, p, true)
	}
	return s
}

func paths(s State) []string {
	out := make([]string, len(s.Tabs))
	for i, t := range s.Tabs {
		out[i] = t.Path
	}
	return out
}

func equalPaths(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOpenDedupes(t *testing.T) {
	s := openAll("/a.md", "/b.md")
	s = Open(s, "/a.md", true)
	if !equalPaths(paths(s), []string{"/a.md", "/b.md"}) {
		t.Errorf("tabs = %v", paths(s))
	}
	if s.ActivePath != "/a.md" {
		t.Errorf("active = %q", s.ActivePath)
	}
}

func TestOpenBlankIsNoop(t *testing.T) {
	s := openAll("/a.md")
	got := Open(s, "   ", true)
	if !equalPaths(paths(got), []string{"/a.md"}) || got.ActivePath != "/a.md" {
		t.Errorf("state changed: %+v", got)
	}
}

func TestOpenWithoutActivate(t *testing.T) {
	s := openAll("/a.md")
	s = Open(s, "/b.md", false)
	if s.ActivePath != "/a.md" {
		t.Errorf("active = %q, want /a.md", s.ActivePath)
	}
	if len(s.Tabs) != 2 {
		t.Errorf("tabs = %v", paths(s))
	}
}

func TestOpenDoesNotMutateInput(t *testing.T) {
	s := openAll("/a.md")
	_ = Open(s, "/b.md", true)
	if len(s.Tabs) != 1 || s.ActivePath != "/a.md" {
		t.Errorf("input mutated: %+v", s)
	}
}

func TestCloseUnknownPath(t *testing.T) {
	s := openAll("/a.md")
	res := Close(s, "/missing.md")
	if res.Removed || res.ClosedActive {
		t.Errorf("res = %+v", res)
	}
	if !equalPaths(paths(res.State), []string{"/a.md"}) {
		t.Errorf("tabs = %v", paths(res.State))
	}
}

func TestCloseInactiveKeepsActive(t *testing.T) {
	s := openAll("/a.md", "/b.md", "/c.md") // active: /c.md
	res := Close(s, "/a.md")
	if !res.Removed || res.ClosedActive {
		t.Fatalf("res = %+v", res)
	}
	if res.State.ActivePath != "/c.md" {
		t.Errorf("active = %q", res.State.ActivePath)
	}
	if res.NextActivePath != "" {
		t.Errorf("NextActivePath = %q, want empty", res.NextActivePath)
	}
}

func TestCloseActiveMiddlePicksShiftedNeighbor(t *testing.T) {
	s := openAll("/a.md", "/b.md", "/c.md")
	s.ActivePath = "/b.md"
	res := Close(s, "/b.md")
	if !res.ClosedActive {
		t.Fatal("ClosedActive = false")
	}
	// /c.md shifts into the removed slot.
	if res.NextActivePath != "/c.md" {
		t.Errorf("NextActivePath = %q, want /c.md", res.NextActivePath)
	}
}

func TestCloseActiveLastPicksNewLast(t *testing.T) {
	s := openAll("/a.md", "/b.md", "/c.md") // active: /c.md
	res := Close(s, "/c.md")
	if res.NextActivePath != "/b.md" {
		t.Errorf("NextActivePath = %q, want /b.md", res.NextActivePath)
	}
}

func TestCloseLastRemainingClearsActive(t *testing.T) {
	s := openAll("/a.md")
	res := Close(s, "/a.md")
	if !res.ClosedActive {
		t.Fatal("ClosedActive = false")
	}
	if res.NextActivePath != "" || res.State.ActivePath != "" || len(res.State.Tabs) != 0 {
		t.Errorf("res = %+v", res)
	}
}

func TestApplyLoadedDocumentSamePath(t *testing.T) {
	s := openAll("/a.md")
	s = ApplyLoadedDocument(s, "/a.md", "/a.md", "Title A")
	if s.Tabs[0].Title != "Title A" {
		t.Errorf("title = %q", s.Tabs[0].Title)
	}
	if s.ActivePath != "/a.md" {
		t.Errorf("active = %q", s.ActivePath)
	}
}

func TestApplyLoadedDocumentRenamesRequestedTab(t *testing.T) {
	// Symlink resolution changed the path the loader actually served.
	s := openAll("/link.md")
	s = ApplyLoadedDocument(s, "/link.md", "/real.md", "Real")
	if !equalPaths(paths(s), []string{"/real.md"}) {
		t.Errorf("tabs = %v", paths(s))
	}
	if s.ActivePath != "/real.md" {
		t.Errorf("active = %q", s.ActivePath)
	}
}

func TestApplyLoadedDocumentDropsDuplicate(t *testing.T) {
	s := openAll("/real.md", "/link.md")
	s = ApplyLoadedDocument(s, "/link.md", "/real.md", "Real")
	if !equalPaths(paths(s), []string{"/real.md"}) {
		t.Errorf("tabs = %v", paths(s))
	}
	if s.Tabs[0].Title != "Real" {
		t.Errorf("title = %q", s.Tabs[0].Title)
	}
}

func TestApplyLoadedDocumentAddsMissingTab(t *testing.T) {
	var s State
	s = ApplyLoadedDocument(s, "/a.md", "/a.md", "A")
	if !equalPaths(paths(s), []string{"/a.md"}) || s.ActivePath != "/a.md" {
		t.Errorf("state = %+v", s)
	}
}

func TestAdjacentWraps(t *testing.T) {
	s := openAll("/a.md", "/b.md", "/c.md") // active: /c.md
	if got := Adjacent(s, Next); got != "/a.md" {
		t.Errorf("next from last = %q", got)
	}
	s.ActivePath = "/a.md"
	if got := Adjacent(s, Previous); got != "/c.md" {
		t.Errorf("previous from first = %q", got)
	}
}

func TestAdjacentRoundTrip(t *testing.T) {
	s := openAll("/a.md", "/b.md", "/c.md")
	s.ActivePath = "/b.md"
	next := Adjacent(s, Next)
	s2 := s
	s2.ActivePath = next
	if back := Adjacent(s2, Previous); back != "/b.md" {
		t.Errorf("round trip = %q", back)
	}
}

func TestAdjacentUnknownActive(t *testing.T) {
	s := openAll("/a.md", "/b.md")
	s.ActivePath = "/gone.md"
	if got := Adjacent(s, Next); got != "/b.md" {
		t.Errorf("next = %q", got)
	}
}

func TestAdjacentEmpty(t *testing.T) {
	if got := Adjacent(State{}, Next); got != "" {
		t.Errorf("got %q", got)
	}
}
