// Package audit records renumbering runs in a SQLite report database so
// operators can review what changed after the fact.
package audit

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/epubstudio/renote/core/errors"
	"github.com/epubstudio/renote/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id      TEXT PRIMARY KEY,
	root    TEXT NOT NULL,
	policy  TEXT NOT NULL,
	started TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS changes (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	file       TEXT NOT NULL,
	old_anchor TEXT NOT NULL,
	new_anchor TEXT NOT NULL,
	number     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS writes (
	run_id TEXT NOT NULL REFERENCES runs(id),
	path   TEXT NOT NULL,
	blake3 TEXT NOT NULL
);
`

// Recorder writes one run's events to the report database. It satisfies
// the engine's Reporter interface; recording failures are logged, never
// propagated, so reporting can never abort a run.
type Recorder struct {
	db    *sql.DB
	runID string
}

// Open creates (or opens) the report database at path and registers a new
// run with the given root directory and orphan policy label.
func Open(path, root, policy string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating report schema")
	}

	runID := uuid.New().String()
	started := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.Exec(
		`INSERT INTO runs (id, root, policy, started) VALUES (?, ?, ?, ?)`,
		runID, root, policy, started,
	); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "registering run")
	}

	return &Recorder{db: db, runID: runID}, nil
}

// RunID returns the identifier of the current run.
func (r *Recorder) RunID() string {
	return r.runID
}

// MarkerChanged records one marker identity change.
func (r *Recorder) MarkerChanged(file, oldAnchor, newAnchor string, number int) {
	if _, err := r.db.Exec(
		`INSERT INTO changes (run_id, file, old_anchor, new_anchor, number) VALUES (?, ?, ?, ?, ?)`,
		r.runID, file, oldAnchor, newAnchor, number,
	); err != nil {
		logging.Error("report_change_failed", "file", file, "error", err.Error())
	}
}

// FileWritten records one rewritten document and its content hash.
func (r *Recorder) FileWritten(path, hash string) {
	if _, err := r.db.Exec(
		`INSERT INTO writes (run_id, path, blake3) VALUES (?, ?, ?)`,
		r.runID, path, hash,
	); err != nil {
		logging.Error("report_write_failed", "path", path, "error", err.Error())
	}
}

// Close releases the database handle.
func (r *Recorder) Close() error {
	return r.db.Close()
}
