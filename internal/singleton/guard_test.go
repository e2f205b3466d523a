package singleton_test

import (
	"os/exec"
	"testing"
	"time"

	"floatview/internal/singleton"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoViewerForUnlikelyMarker(t *testing.T) {
	g := singleton.NewGuard("floatview-marker-that-no-process-carries-7f3a9")

	assert.False(t, g.IsViewerRunning())
}

func TestEmptyMarkersNeverMatch(t *testing.T) {
	g := singleton.NewGuard()

	assert.False(t, g.IsViewerRunning())
}

func TestEmptyMarkerStringIgnored(t *testing.T) {
	// An empty marker would substring-match every command line.
	g := singleton.NewGuard("")

	assert.False(t, g.IsViewerRunning())
}

func TestDetectsLiveProcessByCmdline(t *testing.T) {
	marker := "floatview-guard-test-sentinel"
	// The marker rides in the command line as $0 of the shell.
	cmd := exec.Command("sh", "-c", "sleep 5", marker)
	require.NoError(t, cmd.Start())
	defer func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	}()

	g := singleton.NewGuard(marker)

	// The scan excludes the calling process, so a hit must be the child.
	found := false
	for i := 0; i < 10; i++ {
		if g.IsViewerRunning() {
			found = true
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	assert.True(t, found)
}

func TestAnyOfSeveralMarkersMatches(t *testing.T) {
	marker := "floatview-guard-test-secondary"
	cmd := exec.Command("sh", "-c", "sleep 5", marker)
	require.NoError(t, cmd.Start())
	defer func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	}()

	g := singleton.NewGuard("no-such-process-xyz", marker)

	found := false
	for i := 0; i < 10; i++ {
		if g.IsViewerRunning() {
			found = true
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	assert.True(t, found)
}
