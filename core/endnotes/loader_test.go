package endnotes

import (
	"strings"
	"testing"

	"github.com/epubstudio/renote/core/xhtml"
)

const endnotesXHTML = `<?xml version="1.0" encoding="utf-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head>
	<title>Endnotes</title>
</head>
<body>
	<section id="endnotes" epub:type="endnotes">
		<ol>
			<li id="note-2" epub:type="endnote"><p>Second note. <a href="chapter-2.xhtml#noteref-2" epub:type="se:referrer">↩</a></p></li>
			<li id="note-9" epub:type="endnote"><p>Ninth note. <a href="chapter-1.xhtml#noteref-9" epub:type="se:referrer">↩</a></p></li>
			<li><p>Anonymous note.</p></li>
		</ol>
	</section>
</body>
</html>`

func parseDoc(t *testing.T, text string) *xhtml.Document {
	t.Helper()
	doc, err := xhtml.Parse([]byte(text))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

// TestParseNotes verifies notes are loaded in document order with anchors
// and back links.
func TestParseNotes(t *testing.T) {
	notes, err := ParseNotes(parseDoc(t, endnotesXHTML))
	if err != nil {
		t.Fatalf("ParseNotes failed: %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(notes))
	}

	if notes[0].Anchor != "note-2" {
		t.Errorf("notes[0].Anchor = %q", notes[0].Anchor)
	}
	if notes[1].Anchor != "note-9" {
		t.Errorf("notes[1].Anchor = %q", notes[1].Anchor)
	}
	if notes[2].Anchor != "" {
		t.Errorf("anonymous note anchor = %q, want empty", notes[2].Anchor)
	}

	if notes[0].BackLink != "chapter-2.xhtml#noteref-2" {
		t.Errorf("notes[0].BackLink = %q", notes[0].BackLink)
	}
	if notes[2].BackLink != "" {
		t.Errorf("anonymous note BackLink = %q, want empty", notes[2].BackLink)
	}

	for i, note := range notes {
		if note.Matched {
			t.Errorf("notes[%d] should start unmatched", i)
		}
		if note.Number != 0 {
			t.Errorf("notes[%d].Number = %d, want 0", i, note.Number)
		}
	}
}

// TestParseNotesFragments verifies text and markup children are both kept,
// in order.
func TestParseNotesFragments(t *testing.T) {
	doc := parseDoc(t, `<?xml version="1.0"?>
<html xmlns="http://www.w3.org/1999/xhtml"><body>
<ol><li id="note-1">leading <b>bold</b> trailing</li></ol>
</body></html>`)

	notes, err := ParseNotes(doc)
	if err != nil {
		t.Fatalf("ParseNotes failed: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}

	frags := notes[0].Contents
	if len(frags) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(frags))
	}
	if frags[0].Kind != FragmentText || frags[0].Text != "leading " {
		t.Errorf("frags[0] = %+v", frags[0])
	}
	if frags[1].Kind != FragmentElement || frags[1].Node.Name() != "b" {
		t.Errorf("frags[1] should be <b> element")
	}
	if frags[2].Kind != FragmentText || !strings.Contains(frags[2].Text, "trailing") {
		t.Errorf("frags[2] = %+v", frags[2])
	}
}

// TestParseNotesFragmentsAreCopies verifies note contents do not alias the
// parsed document.
func TestParseNotesFragmentsAreCopies(t *testing.T) {
	doc := parseDoc(t, endnotesXHTML)
	notes, err := ParseNotes(doc)
	if err != nil {
		t.Fatalf("ParseNotes failed: %v", err)
	}

	// Clearing the list must not invalidate the loaded fragments.
	ol, _ := doc.XPathFirst("//ol")
	ol.ClearChildren()

	if len(notes[0].Contents) == 0 {
		t.Fatal("note contents missing")
	}
	text := notes[0].Contents[0].Node.Text()
	if !strings.Contains(text, "Second note.") {
		t.Errorf("fragment text lost after list clear: %q", text)
	}
}

// TestParseNotesBackLinkFirstWins verifies the first referrer link sets the
// back link.
func TestParseNotesBackLinkFirstWins(t *testing.T) {
	doc := parseDoc(t, `<?xml version="1.0"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops"><body>
<ol><li id="note-1"><p><a href="a.xhtml#noteref-1" epub:type="se:referrer">↩</a> and <a href="b.xhtml#noteref-1" epub:type="se:referrer">↩</a></p></li></ol>
</body></html>`)

	notes, err := ParseNotes(doc)
	if err != nil {
		t.Fatalf("ParseNotes failed: %v", err)
	}
	if notes[0].BackLink != "a.xhtml#noteref-1" {
		t.Errorf("BackLink = %q, want the first referrer href", notes[0].BackLink)
	}
}

// TestParseNotesBacklinkRole verifies the EPUB 3 backlink role is accepted.
func TestParseNotesBacklinkRole(t *testing.T) {
	doc := parseDoc(t, `<?xml version="1.0"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops"><body>
<ol><li id="note-1"><p>Text <a href="c.xhtml#noteref-1" epub:type="backlink">↩</a></p></li></ol>
</body></html>`)

	notes, err := ParseNotes(doc)
	if err != nil {
		t.Fatalf("ParseNotes failed: %v", err)
	}
	if notes[0].BackLink != "c.xhtml#noteref-1" {
		t.Errorf("BackLink = %q", notes[0].BackLink)
	}
}

// TestParseNotesNoList verifies a document without an ordered list fails.
func TestParseNotesNoList(t *testing.T) {
	doc := parseDoc(t, `<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml"><body><p>nothing here</p></body></html>`)
	if _, err := ParseNotes(doc); err == nil {
		t.Error("expected error for missing list")
	}
}
