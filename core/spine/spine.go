// Package spine reads the content reading order from an EPUB package
// document (content.opf).
package spine

import (
	"github.com/epubstudio/renote/core/errors"
	"github.com/epubstudio/renote/core/xhtml"
)

// EndnotesFile is the conventional name of the endnotes document.
const EndnotesFile = "endnotes.xhtml"

// DefaultExclusions lists the spine items that never carry endnote
// references and are skipped during processing. Standard Ebooks spines use
// the content file name as the itemref idref.
var DefaultExclusions = []string{
	"titlepage.xhtml",
	"colophon.xhtml",
	"uncopyright.xhtml",
	"imprint.xhtml",
	"halftitle.xhtml",
	EndnotesFile,
}

// ContentFiles returns the spine item identifiers of the package document,
// in declared order. Duplicates are preserved; no existence check is made.
func ContentFiles(doc *xhtml.Document) ([]string, error) {
	itemrefs, err := doc.XPath("//itemref")
	if err != nil {
		return nil, errors.Wrap(err, "reading spine")
	}
	if len(itemrefs) == 0 {
		return nil, errors.NewParse("OPF", "", "no itemref elements in spine")
	}
	files := make([]string, 0, len(itemrefs))
	for _, ref := range itemrefs {
		files = append(files, ref.Attr("idref"))
	}
	return files, nil
}

// Exclusions is a set of spine identifiers to skip.
type Exclusions map[string]struct{}

// NewExclusions builds an exclusion set from the given identifiers.
func NewExclusions(names []string) Exclusions {
	set := make(Exclusions, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Excluded reports whether the identifier is in the exclusion set.
func (e Exclusions) Excluded(name string) bool {
	_, ok := e[name]
	return ok
}
