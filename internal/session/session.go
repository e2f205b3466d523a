// Package session holds the viewer's in-process state and the polling logic
// that keeps it synchronized with the producer's published path list.
package session

import (
	"sync"

	"floatview/pkg/types"
)

// State describes what the viewer currently has to show.
type State int

const (
	// Idle means no session content; the viewer waits for the next publish.
	Idle State = iota
	// Displaying means a non-empty path list is active.
	Displaying
)

// Session is the state of one viewer process: the active image list, the
// index being displayed, the pin flag and the window geometry. The poll loop
// and the UI event handlers both touch it, so access is serialized.
type Session struct {
	mu       sync.Mutex
	paths    []string
	index    int
	pinned   bool
	geometry types.Geometry
}

// New creates an empty session with the given initial geometry.
func New(geometry types.Geometry) *Session {
	return &Session{geometry: geometry}
}

// State returns Idle or Displaying.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.paths) == 0 {
		return Idle
	}
	return Displaying
}

// SetPaths replaces the active list and resets the index to the first image.
func (s *Session) SetPaths(paths []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append([]string{}, paths...)
	s.index = 0
}

// Paths returns a copy of the active list.
func (s *Session) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.paths...)
}

// Count returns the number of images in the session.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.paths)
}

// Index returns the currently displayed position.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Current returns the path under the index, or false when the session is
// empty.
func (s *Session) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.paths) == 0 {
		return "", false
	}
	return s.paths[s.index], true
}

// Next advances to the following image, wrapping past the end.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.paths) == 0 {
		return
	}
	s.index = (s.index + 1) % len(s.paths)
}

// Previous steps back to the preceding image, wrapping before the start.
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.paths) == 0 {
		return
	}
	s.index = (s.index - 1 + len(s.paths)) % len(s.paths)
}

// Pinned reports the always-on-top flag.
func (s *Session) Pinned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pinned
}

// SetPinned sets the always-on-top flag.
func (s *Session) SetPinned(pinned bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinned = pinned
}

// TogglePinned flips the always-on-top flag and returns the new value.
func (s *Session) TogglePinned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinned = !s.pinned
	return s.pinned
}

// Geometry returns the tracked window geometry.
func (s *Session) Geometry() types.Geometry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.geometry
}

// SetGeometry replaces the tracked window geometry.
func (s *Session) SetGeometry(g types.Geometry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.geometry = g
}

// SetSize updates only the size portion of the geometry; position is
// pass-through state owned by whoever persisted it.
func (s *Session) SetSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.geometry.Width = width
	s.geometry.Height = height
}

// Record captures the persistable subset of the session, fingerprinting the
// first image with fp when the session is non-empty.
func (s *Session) Record(fp func(string) string) types.SettingsRecord {
	s.mu.Lock()
	first := ""
	if len(s.paths) > 0 {
		first = s.paths[0]
	}
	rec := types.SettingsRecord{
		AlwaysOnTop: s.pinned,
		Geometry:    s.geometry,
	}
	s.mu.Unlock()

	if first != "" && fp != nil {
		rec.FirstImageHash = fp(first)
	}
	return rec
}
