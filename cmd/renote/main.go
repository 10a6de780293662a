// Command renote renumbers endnotes across an EPUB source directory,
// keeping marker numbers in reading order and rebuilding the endnotes
// document to match.
package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/epubstudio/renote/core/endnotes"
	"github.com/epubstudio/renote/internal/audit"
	"github.com/epubstudio/renote/internal/config"
	"github.com/epubstudio/renote/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for renote.
var CLI struct {
	// Global flags
	Verbose bool `short:"v" help:"Enable debug logging."`
	JSON    bool `name:"json-log" help:"Emit logs as JSON."`

	Renumber RenumberCmd `cmd:"" default:"withargs" help:"Renumber endnotes from the beginning, in spine order."`
	Version  VersionCmd  `cmd:"" help:"Print version information."`
}

// RenumberCmd renumbers every endnote reference in a project.
type RenumberCmd struct {
	Directory     string `arg:"" help:"EPUB source directory (containing src/epub)." type:"existingdir"`
	RemoveOrphans bool   `name:"remove-orphans" help:"Delete reference markers that have no matching endnote."`
	Backup        bool   `help:"Save an xz-compressed copy of each file before rewriting it."`
	Report        string `help:"Record the run in a SQLite report database at this path." type:"path"`
	Config        string `help:"Settings file to use instead of <directory>/renote.yaml." type:"path"`
}

func (c *RenumberCmd) Run() error {
	var (
		cfg *config.Config
		err error
	)
	if c.Config != "" {
		cfg, err = config.Load(c.Config)
	} else {
		cfg, err = config.FromProject(c.Directory)
	}
	if err != nil {
		return err
	}

	engineCfg := endnotes.Config{
		Root:          c.Directory,
		RemoveOrphans: c.RemoveOrphans,
		Backup:        c.Backup,
		EndnotesFile:  cfg.EndnotesFile,
		TextDir:       cfg.TextDir,
		Exclusions:    cfg.Exclude,
	}

	if c.Report != "" {
		policy := "keep"
		if c.RemoveOrphans {
			policy = "remove"
		}
		recorder, err := audit.Open(c.Report, c.Directory, policy)
		if err != nil {
			return err
		}
		defer recorder.Close()
		engineCfg.Reporter = recorder
		logging.Info("recording_run", "report", c.Report, "run_id", recorder.RunID())
	}

	result, err := endnotes.New(engineCfg).Run()
	if err != nil {
		return err
	}

	if result.FilesProcessed == 0 {
		fmt.Println("No files processed. Did you update the manifest and order the spine?")
		return nil
	}
	fmt.Printf("Found %d endnotes.\n", result.NotesFound)
	if result.NotesChanged > 0 {
		fmt.Printf("Changed %d endnotes.\n", result.NotesChanged)
	} else {
		fmt.Println("No changes made.")
	}
	if result.Orphans > 0 {
		fmt.Printf("%d markers had no matching endnote.\n", result.Orphans)
	}
	if result.Duplicates > 0 {
		fmt.Printf("%d markers matched duplicate anchors.\n", result.Duplicates)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("renote %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("renote"),
		kong.Description("Renumber endnotes from the beginning of an EPUB source directory."),
		kong.UsageOnError(),
	)

	level := logging.LevelInfo
	if CLI.Verbose {
		level = logging.LevelDebug
	}
	format := logging.FormatText
	if CLI.JSON {
		format = logging.FormatJSON
	}
	logging.InitLogger(level, format)

	ctx.FatalIfErrorf(ctx.Run())
}
