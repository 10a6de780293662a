package endnotes

// MatchOutcome classifies the result of correlating a marker anchor with
// the endnote collection.
type MatchOutcome int

const (
	// MatchFound means exactly one unmatched note carried the anchor.
	MatchFound MatchOutcome = iota
	// MatchNone means no unmatched note carried the anchor.
	MatchNone
	// MatchDuplicate means more than one note carried the anchor; none is
	// assigned, so the collision surfaces as a data-integrity warning on
	// every occurrence.
	MatchDuplicate
)

// Matcher correlates marker anchors with endnotes. Anchors map to note
// entries up front; a successful match removes the entry, so each note can
// be correlated at most once and later markers with the same anchor report
// no match.
type Matcher struct {
	byAnchor map[string][]*Note
}

// NewMatcher indexes the notes by anchor.
func NewMatcher(notes []*Note) *Matcher {
	m := &Matcher{byAnchor: make(map[string][]*Note, len(notes))}
	for _, note := range notes {
		m.byAnchor[note.Anchor] = append(m.byAnchor[note.Anchor], note)
	}
	return m
}

// Match finds the note carrying the given anchor. The note is returned only
// for MatchFound, and is then withdrawn from further candidacy.
func (m *Matcher) Match(anchor string) (*Note, MatchOutcome) {
	candidates := m.byAnchor[anchor]
	switch {
	case len(candidates) == 0:
		return nil, MatchNone
	case len(candidates) > 1:
		return nil, MatchDuplicate
	}
	delete(m.byAnchor, anchor)
	return candidates[0], MatchFound
}

// Remaining returns how many anchors are still open for correlation.
func (m *Matcher) Remaining() int {
	return len(m.byAnchor)
}
