// Package store implements the file-backed state the producer and viewer
// processes coordinate through: the published image path list, the persisted
// window settings, and the first-image fingerprint.
//
// There is no locking. Each write replaces a whole file, and at most one
// producer is assumed live at a time; readers see either the old or the new
// full content. Malformed or missing state always degrades to defaults.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"floatview/internal/errors"
	"floatview/internal/log"
)

const pathsFileName = "image_paths.json"

// PathStore is the durable, ordered list of image locations the producer
// publishes and the viewer polls.
type PathStore struct {
	path string
}

// NewPathStore creates a path store backed by image_paths.json in dir.
func NewPathStore(dir string) *PathStore {
	return &PathStore{path: filepath.Join(dir, pathsFileName)}
}

// File returns the backing file path.
func (s *PathStore) File() string {
	return s.path
}

// Write replaces the stored list wholesale with the given paths.
func (s *PathStore) Write(paths []string) error {
	if paths == nil {
		paths = []string{}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.NewFileError("cannot create state directory", filepath.Dir(s.path), errors.FileAccessDenied, err)
	}

	data, err := json.MarshalIndent(paths, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot encode image path list")
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errors.NewFileError("cannot write image path list", s.path, errors.FileAccessDenied, err)
	}
	return nil
}

// Read returns the stored list. An absent or unparsable file yields an empty
// list; the condition is logged, never surfaced.
func (s *PathStore) Read() []string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.LogWithFields(log.F("file", s.path), log.F("error", err)).Warn("cannot read image path list")
		}
		return []string{}
	}

	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		log.LogWithFields(log.F("file", s.path), log.F("error", err)).Warn("unparsable image path list, treating as empty")
		return []string{}
	}
	if paths == nil {
		return []string{}
	}
	return paths
}

// Clear removes the backing file, best-effort. Absence is not an error.
func (s *PathStore) Clear() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		log.LogWithFields(log.F("file", s.path), log.F("error", err)).Warn("cannot remove image path list")
	}
}
