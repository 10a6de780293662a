package endnotes

import (
	"github.com/epubstudio/renote/core/errors"
	"github.com/epubstudio/renote/core/xhtml"
)

// ParseNotes reads the endnotes document and returns its entries in
// document order. Each list item of the single ordered list becomes one
// Note; its children are copied out of the tree so the list can later be
// cleared and rebuilt without touching the notes.
func ParseNotes(doc *xhtml.Document) ([]*Note, error) {
	ol, err := doc.XPathFirst("//ol")
	if err != nil {
		return nil, errors.Wrap(err, "locating endnote list")
	}
	if ol == nil {
		return nil, errors.NewParse("XHTML", "", "no ordered list in endnotes document")
	}

	var notes []*Note
	for _, item := range ol.ChildNodes() {
		if !item.IsElement() || item.Name() != "li" {
			continue
		}
		note := &Note{Anchor: item.Attr("id")}
		for _, child := range item.ChildNodes() {
			if child.IsText() {
				note.Contents = append(note.Contents, Fragment{
					Kind: FragmentText,
					Text: child.Text(),
				})
				continue
			}
			frag := Fragment{Kind: FragmentElement, Node: child.Clone()}
			for _, link := range frag.Node.Links() {
				if isReferrer(link) && note.BackLink == "" {
					if href := link.Attr("href"); href != "" {
						note.BackLink = href
					}
				}
			}
			note.Contents = append(note.Contents, frag)
		}
		notes = append(notes, note)
	}
	return notes, nil
}
