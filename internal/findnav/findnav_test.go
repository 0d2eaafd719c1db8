package findnav

import "testing"

func TestDeriveEmptyQuery(t *testing.T) {
	got := Derive(State{}, "", 5)
	if got.ActiveIndex != NoActiveMatch || got.MatchCount != 5 {
		t.Errorf("got %+v", got)
	}
}

func TestDeriveZeroMatches(t *testing.T) {
	got := Derive(State{}, "needle", 0)
	if got.ActiveIndex != NoActiveMatch {
		t.Errorf("index = %d", got.ActiveIndex)
	}
}

func TestDeriveNegativeCountClamped(t *testing.T) {
	got := Derive(State{}, "needle", -3)
	if got.MatchCount != 0 || got.ActiveIndex != NoActiveMatch {
		t.Errorf("got %+v", got)
	}
}

func TestDeriveNewQueryStartsAtFirst(t *testing.T) {
	got := Derive(State{Query: "old", MatchCount: 9, ActiveIndex: 4}, "new", 3)
	if got.ActiveIndex != 0 {
		t.Errorf("index = %d, want 0", got.ActiveIndex)
	}
}

func TestDeriveSameQueryKeepsIndex(t *testing.T) {
	prev := State{Query: "needle", MatchCount: 5, ActiveIndex: 3}
	got := Derive(prev, "needle", 5)
	if got.ActiveIndex != 3 {
		t.Errorf("index = %d, want 3", got.ActiveIndex)
	}
}

func TestDeriveSameQueryClampsShrunkCount(t *testing.T) {
	prev := State{Query: "needle", MatchCount: 5, ActiveIndex: 4}
	got := Derive(prev, "needle", 2)
	if got.ActiveIndex != 1 {
		t.Errorf("index = %d, want 1", got.ActiveIndex)
	}
}

func TestDeriveTrimsQuery(t *testing.T) {
	got := Derive(State{}, "  needle  ", 2)
	if got.Query != "needle" || got.ActiveIndex != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestStepForwardWraps(t *testing.T) {
	s := State{Query: "q", MatchCount: 3, ActiveIndex: 2}
	got := Step(s, Forward)
	if got.ActiveIndex != 0 {
		t.Errorf("index = %d, want 0", got.ActiveIndex)
	}
}

func TestStepBackwardWraps(t *testing.T) {
	s := State{Query: "q", MatchCount: 3, ActiveIndex: 0}
	got := Step(s, Backward)
	if got.ActiveIndex != 2 {
		t.Errorf("index = %d, want 2", got.ActiveIndex)
	}
}

func TestStepNoMatches(t *testing.T) {
	got := Step(State{Query: "q", MatchCount: 0, ActiveIndex: 5}, Forward)
	if got.ActiveIndex != NoActiveMatch {
		t.Errorf("index = %d", got.ActiveIndex)
	}
}

func TestStepOutOfRangeIndex(t *testing.T) {
	got := Step(State{Query: "q", MatchCount: 3, ActiveIndex: 99}, Forward)
	if got.ActiveIndex != 1 {
		t.Errorf("index = %d, want 1", got.ActiveIndex)
	}
}

func TestStatusLabel(t *testing.T) {
	if got := (State{}).StatusLabel(); got != "0 / 0" {
		t.Errorf("empty label = %q", got)
	}
	s := State{Query: "q", MatchCount: 7, ActiveIndex: 2}
	if got := s.StatusLabel(); got != "3 / 7" {
		t.Errorf("label = %q", got)
	}
}
