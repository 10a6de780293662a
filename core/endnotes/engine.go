package endnotes

import (
	"os"
	"path/filepath"

	"github.com/epubstudio/renote/core/errors"
	"github.com/epubstudio/renote/core/spine"
	"github.com/epubstudio/renote/core/xhtml"
	"github.com/epubstudio/renote/internal/fileutil"
	"github.com/epubstudio/renote/internal/logging"
)

// Project layout inside the source directory.
const (
	opfRelPath  = "src/epub/content.opf"
	textRelPath = "src/epub/text"
)

// Config configures one renumbering run.
type Config struct {
	// Root is the EPUB source directory (containing src/epub).
	Root string
	// RemoveOrphans deletes markers with no matching endnote instead of
	// leaving them renumbered and dangling.
	RemoveOrphans bool
	// Backup writes an xz-compressed copy of each file before rewriting it.
	Backup bool
	// EndnotesFile is the name of the endnotes document inside the text
	// directory. Defaults to spine.EndnotesFile.
	EndnotesFile string
	// TextDir is the content directory relative to Root, slash-separated.
	// Defaults to "src/epub/text".
	TextDir string
	// Exclusions are spine identifiers to skip. Defaults to
	// spine.DefaultExclusions. The endnotes file is always excluded.
	Exclusions []string
	// Reporter receives renumbering events; may be nil.
	Reporter Reporter
}

// Result summarizes a completed run.
type Result struct {
	NotesFound     int // markers encountered (body files plus self-references)
	NotesChanged   int // markers whose identity changed
	FilesProcessed int // content files scanned
	FilesWritten   int // documents actually rewritten on disk
	Orphans        int // markers with no matching endnote
	Duplicates     int // markers whose anchor matched several endnotes
	Rebuilt        bool
}

// Engine walks the spine in order, renumbers every reference marker, and
// rebuilds the endnotes document when anything changed.
type Engine struct {
	cfg Config
}

// New creates an Engine, filling config defaults.
func New(cfg Config) *Engine {
	if cfg.EndnotesFile == "" {
		cfg.EndnotesFile = spine.EndnotesFile
	}
	if cfg.TextDir == "" {
		cfg.TextDir = textRelPath
	}
	if cfg.Exclusions == nil {
		cfg.Exclusions = spine.DefaultExclusions
	}
	return &Engine{cfg: cfg}
}

// Run executes the full renumbering pass. Missing manifest or endnotes
// files are fatal; unreadable content files are skipped with a warning and
// contribute zero markers.
func (e *Engine) Run() (*Result, error) {
	opfPath := filepath.Join(e.cfg.Root, filepath.FromSlash(opfRelPath))
	textDir := filepath.Join(e.cfg.Root, filepath.FromSlash(e.cfg.TextDir))
	notesPath := filepath.Join(textDir, e.cfg.EndnotesFile)

	if _, err := os.Stat(opfPath); err != nil {
		return nil, errors.NewNotFound("manifest", opfPath)
	}
	if _, err := os.Stat(notesPath); err != nil {
		return nil, errors.NewNotFound("endnotes file", notesPath)
	}

	notesText, err := fileutil.ReadText(notesPath)
	if err != nil {
		return nil, err
	}
	notesDoc, err := xhtml.Parse(notesText)
	if err != nil {
		return nil, errors.NewParse("XHTML", notesPath, err.Error())
	}
	notes, err := ParseNotes(notesDoc)
	if err != nil {
		return nil, err
	}

	opfText, err := fileutil.ReadText(opfPath)
	if err != nil {
		return nil, err
	}
	opfDoc, err := xhtml.Parse(opfText)
	if err != nil {
		return nil, errors.NewParse("OPF", opfPath, err.Error())
	}
	files, err := spine.ContentFiles(opfDoc)
	if err != nil {
		return nil, err
	}

	excluded := spine.NewExclusions(append([]string{e.cfg.EndnotesFile}, e.cfg.Exclusions...))
	policy := KeepOrphans
	if e.cfg.RemoveOrphans {
		policy = RemoveOrphans
	}
	scanner := &Scanner{
		Matcher:      NewMatcher(notes),
		Policy:       policy,
		EndnotesFile: e.cfg.EndnotesFile,
		Reporter:     e.cfg.Reporter,
	}

	res := &Result{}
	total := ScanResult{Next: 1}
	for _, name := range files {
		if excluded.Excluded(name) {
			continue
		}
		logging.Info("processing_file", "file", name)
		res.FilesProcessed++

		path := filepath.Join(textDir, name)
		text, err := fileutil.ReadText(path)
		if err != nil {
			logging.FileSkipped(path, err)
			continue
		}
		doc, err := xhtml.Parse(text)
		if err != nil {
			logging.FileSkipped(path, err)
			continue
		}

		scan, err := scanner.ScanDocument(doc, name, total.Next)
		if err != nil {
			logging.FileSkipped(path, err)
			continue
		}
		total.add(scan)
		logging.Debug("notes_so_far", "count", total.Next-1)

		if scan.Dirty {
			if err := e.writeDoc(path, doc, res); err != nil {
				return nil, err
			}
		}
	}

	if res.FilesProcessed == 0 {
		logging.Warn("no content files processed; is the spine populated?")
	}

	// Notes referencing other notes are numbered last, continuing the same
	// counter. Mutations in this pass live only in the cloned note contents,
	// so they reach disk through the rebuild alone; a removal with no
	// renumbering leaves the change count at zero and must force the rebuild
	// through the dirty flag instead.
	noteScan := scanner.ScanNotes(notes, total.Next)
	total.add(noteScan)

	res.NotesFound = total.Next - 1
	res.NotesChanged = total.Changed
	res.Orphans = total.Orphans
	res.Duplicates = total.Duplicates

	if total.Changed > 0 || noteScan.Dirty {
		if err := Rebuild(notesDoc, notes); err != nil {
			return nil, err
		}
		if err := e.writeDoc(notesPath, notesDoc, res); err != nil {
			return nil, err
		}
		res.Rebuilt = true
	}

	return res, nil
}

func (e *Engine) writeDoc(path string, doc *xhtml.Document, res *Result) error {
	out, err := doc.Format(xhtml.FormatOptions{})
	if err != nil {
		return errors.Wrapf(err, "formatting %s", path)
	}
	if e.cfg.Backup {
		if err := fileutil.BackupXZ(path); err != nil {
			return err
		}
	}
	wrote, hash, err := fileutil.WriteIfChanged(path, out)
	if err != nil {
		return err
	}
	if wrote {
		res.FilesWritten++
		if e.cfg.Reporter != nil {
			e.cfg.Reporter.FileWritten(path, hash)
		}
	}
	return nil
}
