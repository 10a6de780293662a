package endnotes

import "github.com/epubstudio/renote/core/xhtml"

// ScanNotes processes reference markers nested inside the note contents
// themselves: a note whose text cites another note. It runs once, after all
// content files, continuing the same counter, so self-references are always
// numbered after every body marker. Matched notes get the endnotes document
// as their source file, since that is where the marker now lives.
//
// Only one level is resolved: markers inside note contents are scanned, but
// chains beyond that are not followed further.
func (s *Scanner) ScanNotes(notes []*Note, start int) ScanResult {
	res := ScanResult{Next: start}
	for _, note := range notes {
		var links []*xhtml.Node
		for _, frag := range note.Contents {
			if frag.Kind != FragmentElement {
				continue
			}
			links = append(links, frag.Node.Links()...)
		}
		if len(links) == 0 {
			continue
		}
		res.add(s.scanLinks(links, s.EndnotesFile, res.Next))
	}
	return res
}
