// Package fileutil provides file access helpers for document rewriting:
// content-hash gated writes and compressed backups of originals.
package fileutil

import (
	"encoding/hex"
	"os"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/epubstudio/renote/core/errors"
)

// Blake3Sum returns the hex-encoded BLAKE3 hash of data.
func Blake3Sum(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ReadText reads a document's full text by path.
func ReadText(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	return data, nil
}

// WriteIfChanged writes data to path unless the file already holds
// byte-identical content. It reports whether a write happened and the
// BLAKE3 hash of data.
func WriteIfChanged(path string, data []byte) (bool, string, error) {
	hash := Blake3Sum(data)
	if existing, err := os.ReadFile(path); err == nil && Blake3Sum(existing) == hash {
		return false, hash, nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, hash, errors.NewIO("write", path, err)
	}
	return true, hash, nil
}

// BackupXZ saves the current content of path as an xz-compressed sidecar
// file (<path>.orig.xz). A missing original is not an error; an existing
// backup is left untouched so the first run's original survives reruns.
func BackupXZ(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewIO("open", path, err)
	}

	backupPath := path + ".orig.xz"
	if _, err := os.Stat(backupPath); err == nil {
		return nil
	}

	out, err := os.Create(backupPath)
	if err != nil {
		return errors.NewIO("create", backupPath, err)
	}
	defer out.Close()

	w, err := xz.NewWriter(out)
	if err != nil {
		return errors.Wrap(err, "creating xz writer")
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return errors.NewIO("write", backupPath, err)
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "closing xz writer")
	}
	return nil
}
