// Package endnotes implements renumbering of endnote references across an
// EPUB source directory. Reference markers in body text are assigned
// sequential numbers in spine order, correlated with entries in the endnotes
// document, and the endnotes list is rebuilt to match the new numbering.
package endnotes

import "github.com/epubstudio/renote/core/xhtml"

// Note holds one entry of the endnotes list.
type Note struct {
	// Number is the sequential position assigned during the current run;
	// zero until the note is matched.
	Number int
	// Anchor is the id that originally named this entry, used as the
	// correlation key before renumbering.
	Anchor string
	// Contents are the fragments inside the list item, in original order.
	Contents []Fragment
	// BackLink is the href of the "return to text" link, refreshed during
	// rebuild.
	BackLink string
	// SourceFile is the content file whose marker this note was correlated
	// with; the endnotes document's own name when matched via a
	// self-reference.
	SourceFile string
	// Matched is true only after correlation with exactly one marker.
	Matched bool
}

// FragmentKind distinguishes plain text from markup inside a note.
type FragmentKind int

const (
	// FragmentText is a run of character data.
	FragmentText FragmentKind = iota
	// FragmentElement is a markup node (element, comment, or CDATA).
	// Link search applies only to this kind.
	FragmentElement
)

// Fragment is one piece of a note's content. Element fragments hold owned
// copies of the original nodes, so clearing and rebuilding the endnotes
// list cannot invalidate them.
type Fragment struct {
	Kind FragmentKind
	Text string      // set for FragmentText
	Node *xhtml.Node // set for FragmentElement
}

// isReferrer reports whether a link returns the reader to the originating
// marker. Standard Ebooks uses se:referrer; EPUB 3 uses backlink.
func isReferrer(link *xhtml.Node) bool {
	return link.HasRole("se:referrer") || link.HasRole("referrer") || link.HasRole("backlink")
}
