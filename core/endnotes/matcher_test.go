package endnotes

import "testing"

// TestMatchFound verifies a unique anchor matches and is withdrawn.
func TestMatchFound(t *testing.T) {
	notes := []*Note{{Anchor: "note-1"}, {Anchor: "note-2"}}
	m := NewMatcher(notes)

	note, outcome := m.Match("note-2")
	if outcome != MatchFound {
		t.Fatalf("outcome = %v, want MatchFound", outcome)
	}
	if note != notes[1] {
		t.Error("wrong note returned")
	}

	// The matched anchor is no longer a candidate.
	if _, outcome := m.Match("note-2"); outcome != MatchNone {
		t.Errorf("re-match outcome = %v, want MatchNone", outcome)
	}
	if m.Remaining() != 1 {
		t.Errorf("Remaining = %d, want 1", m.Remaining())
	}
}

// TestMatchNone verifies unknown anchors report no match.
func TestMatchNone(t *testing.T) {
	m := NewMatcher([]*Note{{Anchor: "note-1"}})
	if _, outcome := m.Match("note-5"); outcome != MatchNone {
		t.Errorf("outcome = %v, want MatchNone", outcome)
	}
}

// TestMatchDuplicate verifies duplicate anchors assign nothing and stay
// flagged on every attempt.
func TestMatchDuplicate(t *testing.T) {
	notes := []*Note{{Anchor: "note-3"}, {Anchor: "note-3"}}
	m := NewMatcher(notes)

	if _, outcome := m.Match("note-3"); outcome != MatchDuplicate {
		t.Fatalf("outcome = %v, want MatchDuplicate", outcome)
	}
	// Repeated attempts keep warning rather than silently resolving.
	if _, outcome := m.Match("note-3"); outcome != MatchDuplicate {
		t.Errorf("second attempt should also be MatchDuplicate")
	}
	for i, n := range notes {
		if n.Matched {
			t.Errorf("notes[%d] should stay unmatched", i)
		}
	}
}

// TestMatchEmptyAnchor verifies the empty anchor behaves like any other key.
func TestMatchEmptyAnchor(t *testing.T) {
	m := NewMatcher([]*Note{{Anchor: ""}})
	if _, outcome := m.Match(""); outcome != MatchFound {
		t.Errorf("outcome = %v, want MatchFound for single anonymous note", outcome)
	}
}
