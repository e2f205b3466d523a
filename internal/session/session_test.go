package session_test

import (
	"testing"

	"floatview/internal/session"
	"floatview/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptySessionIsIdle(t *testing.T) {
	s := session.New(types.DefaultGeometry())

	assert.Equal(t, session.Idle, s.State())
	_, ok := s.Current()
	assert.False(t, ok)

	// Navigation on an empty session is a no-op, not a panic.
	s.Next()
	s.Previous()
	assert.Equal(t, 0, s.Index())
}

func TestSetPathsResetsIndex(t *testing.T) {
	s := session.New(types.DefaultGeometry())
	s.SetPaths([]string{"a.png", "b.png", "c.png"})
	s.Next()
	s.Next()
	assert.Equal(t, 2, s.Index())

	s.SetPaths([]string{"x.png", "y.png"})

	assert.Equal(t, 0, s.Index())
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "x.png", cur)
	assert.Equal(t, session.Displaying, s.State())
}

func TestNavigationWraps(t *testing.T) {
	s := session.New(types.DefaultGeometry())
	s.SetPaths([]string{"a.png", "b.png", "c.png"})

	s.Previous()
	cur, _ := s.Current()
	assert.Equal(t, "c.png", cur)

	s.Next()
	cur, _ = s.Current()
	assert.Equal(t, "a.png", cur)

	for i := 0; i < 3; i++ {
		s.Next()
	}
	cur, _ = s.Current()
	assert.Equal(t, "a.png", cur)
}

func TestSingleImageNavigation(t *testing.T) {
	s := session.New(types.DefaultGeometry())
	s.SetPaths([]string{"only.png"})

	s.Next()
	s.Previous()
	cur, _ := s.Current()
	assert.Equal(t, "only.png", cur)
	assert.Equal(t, 0, s.Index())
}

func TestPathsReturnsCopy(t *testing.T) {
	s := session.New(types.DefaultGeometry())
	s.SetPaths([]string{"a.png", "b.png"})

	got := s.Paths()
	got[0] = "mutated.png"

	cur, _ := s.Current()
	assert.Equal(t, "a.png", cur)
}

func TestTogglePinned(t *testing.T) {
	s := session.New(types.DefaultGeometry())

	assert.False(t, s.Pinned())
	assert.True(t, s.TogglePinned())
	assert.False(t, s.TogglePinned())

	s.SetPinned(true)
	assert.True(t, s.Pinned())
}

func TestSetSizeKeepsPosition(t *testing.T) {
	s := session.New(types.Geometry{X: 30, Y: 40, Width: 600, Height: 600})

	s.SetSize(800, 500)

	g := s.Geometry()
	assert.Equal(t, 30, g.X)
	assert.Equal(t, 40, g.Y)
	assert.Equal(t, 800, g.Width)
	assert.Equal(t, 500, g.Height)
}

func TestRecordFingerprintsFirstImage(t *testing.T) {
	s := session.New(types.Geometry{X: 1, Y: 2, Width: 3, Height: 4})
	s.SetPinned(true)
	s.SetPaths([]string{"first.png", "second.png"})

	rec := s.Record(func(path string) string {
		assert.Equal(t, "first.png", path)
		return "hash-of-first"
	})

	assert.True(t, rec.AlwaysOnTop)
	assert.Equal(t, types.Geometry{X: 1, Y: 2, Width: 3, Height: 4}, rec.Geometry)
	assert.Equal(t, "hash-of-first", rec.FirstImageHash)
}

func TestRecordEmptySessionHasNoHash(t *testing.T) {
	s := session.New(types.DefaultGeometry())

	rec := s.Record(func(string) string {
		t.Fatal("fingerprint must not run for an empty session")
		return ""
	})
	assert.Empty(t, rec.FirstImageHash)
}
