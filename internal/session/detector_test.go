package session_test

import (
	"testing"
	"time"

	"floatview/internal/cache"
	"floatview/internal/session"
	"floatview/internal/store"
	"floatview/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector(t *testing.T, onChange func([]string)) (*session.Detector, *store.PathStore, *session.Session, *cache.Cache) {
	t.Helper()

	paths := store.NewPathStore(t.TempDir())
	images := cache.New(5)
	sess := session.New(types.DefaultGeometry())
	d := session.NewDetector(paths, images, sess, 20*time.Millisecond, onChange)
	return d, paths, sess, images
}

func TestTickPicksUpNewList(t *testing.T) {
	var notified []string
	d, paths, sess, _ := newTestDetector(t, func(p []string) { notified = p })

	require.NoError(t, paths.Write([]string{"a.png", "b.png"}))

	assert.True(t, d.Tick())
	assert.Equal(t, []string{"a.png", "b.png"}, sess.Paths())
	assert.Equal(t, []string{"a.png", "b.png"}, notified)
	assert.Equal(t, 0, sess.Index())
}

func TestTickIdenticalRewriteIsNoOp(t *testing.T) {
	calls := 0
	d, paths, sess, _ := newTestDetector(t, func([]string) { calls++ })

	require.NoError(t, paths.Write([]string{"a.png", "b.png"}))
	require.True(t, d.Tick())
	sess.Next()

	// Rewriting the same content must not reset the session.
	require.NoError(t, paths.Write([]string{"a.png", "b.png"}))
	assert.False(t, d.Tick())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, sess.Index())
}

func TestTickTransitionResetsIndexAndCache(t *testing.T) {
	d, paths, sess, images := newTestDetector(t, nil)

	require.NoError(t, paths.Write([]string{"a.png", "b.png", "c.png"}))
	require.True(t, d.Tick())
	sess.Next()
	sess.Next()
	require.Equal(t, 2, sess.Index())

	require.NoError(t, paths.Write([]string{"x.png"}))
	assert.True(t, d.Tick())

	assert.Equal(t, []string{"x.png"}, sess.Paths())
	assert.Equal(t, 0, sess.Index())
	decoded, scaled := images.Sizes()
	assert.Zero(t, decoded)
	assert.Zero(t, scaled)
}

func TestTickEmptyListClearsSession(t *testing.T) {
	d, paths, sess, _ := newTestDetector(t, nil)

	require.NoError(t, paths.Write([]string{"a.png"}))
	require.True(t, d.Tick())
	require.Equal(t, session.Displaying, sess.State())

	require.NoError(t, paths.Write([]string{}))
	assert.True(t, d.Tick())
	assert.Equal(t, session.Idle, sess.State())
}

func TestTickMissingFileWhileIdle(t *testing.T) {
	d, _, sess, _ := newTestDetector(t, nil)

	// No sync file at all reads as empty, which matches the empty session.
	assert.False(t, d.Tick())
	assert.Equal(t, session.Idle, sess.State())
}

func TestTickOrderChangeIsAChange(t *testing.T) {
	d, paths, sess, _ := newTestDetector(t, nil)

	require.NoError(t, paths.Write([]string{"a.png", "b.png"}))
	require.True(t, d.Tick())

	require.NoError(t, paths.Write([]string{"b.png", "a.png"}))
	assert.True(t, d.Tick())
	assert.Equal(t, []string{"b.png", "a.png"}, sess.Paths())
}

func TestStartStopPolling(t *testing.T) {
	changed := make(chan []string, 1)
	d, paths, _, _ := newTestDetector(t, func(p []string) {
		select {
		case changed <- p:
		default:
		}
	})

	d.Start()
	defer d.Stop()

	require.NoError(t, paths.Write([]string{"live.png"}))

	select {
	case got := <-changed:
		assert.Equal(t, []string{"live.png"}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("poll loop never observed the new list")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	d, _, _, _ := newTestDetector(t, nil)

	d.Start()
	d.Stop()
	d.Stop()
}
