package endnotes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/epubstudio/renote/core/xhtml"
	"github.com/epubstudio/renote/internal/logging"
)

// Policy selects what happens to markers with no matching endnote.
type Policy int

const (
	// KeepOrphans leaves unmatched markers in place, renumbered but
	// pointing at a nonexistent entry.
	KeepOrphans Policy = iota
	// RemoveOrphans deletes unmatched markers from their document.
	RemoveOrphans
)

// Reporter receives renumbering events. Implementations may persist them;
// a nil Reporter is valid and events are dropped.
type Reporter interface {
	// MarkerChanged records one marker identity change.
	MarkerChanged(file, oldAnchor, newAnchor string, number int)
	// FileWritten records one rewritten document and its content hash.
	FileWritten(path, hash string)
}

// Scanner finds reference markers, assigns them sequential numbers, and
// correlates them with the endnote collection. The numbering counter is
// threaded through each call explicitly: every scan takes a starting value
// and returns the next one.
type Scanner struct {
	Matcher      *Matcher
	Policy       Policy
	EndnotesFile string   // target document for rewritten marker hrefs
	Reporter     Reporter // optional
}

// ScanResult carries the totals of one scan back to the caller.
type ScanResult struct {
	Next       int  // counter value for the next marker
	Changed    int  // markers whose identity changed
	Dirty      bool // whether the scanned tree was mutated
	Orphans    int  // markers with no matching endnote
	Duplicates int  // markers whose anchor matched several endnotes
}

func (r *ScanResult) add(other ScanResult) {
	r.Next = other.Next
	r.Changed += other.Changed
	r.Dirty = r.Dirty || other.Dirty
	r.Orphans += other.Orphans
	r.Duplicates += other.Duplicates
}

// ScanDocument processes every reference marker of one content file in
// document order, starting the numbering at start.
func (s *Scanner) ScanDocument(doc *xhtml.Document, file string, start int) (ScanResult, error) {
	links, err := doc.XPath("//a")
	if err != nil {
		return ScanResult{Next: start}, err
	}
	return s.scanLinks(links, file, start), nil
}

// scanLinks applies the renumber/correlate sequence to each noteref link.
// The counter advances once per marker regardless of match outcome.
func (s *Scanner) scanLinks(links []*xhtml.Node, file string, start int) ScanResult {
	res := ScanResult{Next: start}
	for _, link := range links {
		if !link.HasRole("noteref") {
			continue
		}

		oldAnchor := ExtractAnchor(link.Attr("href"))
		newAnchor := fmt.Sprintf("note-%d", res.Next)
		if newAnchor != oldAnchor {
			link.SetAttr("href", s.EndnotesFile+"#"+newAnchor)
			link.SetAttr("id", fmt.Sprintf("noteref-%d", res.Next))
			link.SetText(strconv.Itoa(res.Next))
			res.Changed++
			res.Dirty = true
			logging.MarkerRenumbered(file, oldAnchor, newAnchor)
			if s.Reporter != nil {
				s.Reporter.MarkerChanged(file, oldAnchor, newAnchor, res.Next)
			}
		}

		note, outcome := s.Matcher.Match(oldAnchor)
		switch outcome {
		case MatchNone:
			removed := s.Policy == RemoveOrphans
			logging.OrphanMarker(file, oldAnchor, removed)
			if removed {
				link.Detach()
				res.Dirty = true
			}
			res.Orphans++
		case MatchDuplicate:
			logging.DuplicateAnchor(file, oldAnchor)
			res.Duplicates++
		case MatchFound:
			note.Number = res.Next
			note.Matched = true
			note.SourceFile = file
		}

		res.Next++
	}
	return res
}

// ExtractAnchor returns the fragment portion of an href
// (e.g. "../text/endnotes.xhtml#note-1" yields "note-1"), or "" when the
// href carries no fragment.
func ExtractAnchor(href string) string {
	if i := strings.Index(href, "#"); i >= 0 {
		return href[i+1:]
	}
	return ""
}
