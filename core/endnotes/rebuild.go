package endnotes

import (
	"fmt"
	"sort"

	"github.com/epubstudio/renote/core/errors"
	"github.com/epubstudio/renote/core/xhtml"
)

// Rebuild rewrites the ordered list of the endnotes document to match the
// new numbering: matched notes in ascending number order, each with a fresh
// id and its referrer link repointed at the correct source file. Unmatched
// notes are dropped.
func Rebuild(doc *xhtml.Document, notes []*Note) error {
	ol, err := doc.XPathFirst("//ol")
	if err != nil {
		return errors.Wrap(err, "locating endnote list")
	}
	if ol == nil {
		return errors.NewParse("XHTML", "", "no ordered list in endnotes document")
	}

	sorted := make([]*Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Number < sorted[j].Number
	})

	ol.ClearChildren()
	for _, note := range sorted {
		if !note.Matched {
			continue
		}
		li := xhtml.NewElement("li")
		li.SetAttr("id", fmt.Sprintf("note-%d", note.Number))
		li.SetRole("endnote")
		for _, frag := range note.Contents {
			switch frag.Kind {
			case FragmentText:
				li.AppendChild(xhtml.NewText(frag.Text))
			case FragmentElement:
				for _, link := range frag.Node.Links() {
					if isReferrer(link) && link.Attr("href") != "" {
						back := fmt.Sprintf("%s#noteref-%d", note.SourceFile, note.Number)
						link.SetAttr("href", back)
						note.BackLink = back
					}
				}
				li.AppendChild(frag.Node)
			}
		}
		ol.AppendChild(li)
	}
	return nil
}
