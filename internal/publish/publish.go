// Package publish implements the producer side of the preview pipeline:
// validating image paths, writing the sync file and making sure exactly one
// viewer process is up to display them.
package publish

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"floatview/internal/config"
	"floatview/internal/errors"
	"floatview/internal/log"
	"floatview/internal/store"
)

// staleGlob matches scratch copies a producer may leave behind in the state
// directory between runs.
const staleGlob = "preview_*"

// viewerAlive is the slice of the singleton guard a publisher needs.
type viewerAlive interface {
	IsViewerRunning() bool
}

// Publisher writes image lists for the viewer and spawns one when none is
// running.
type Publisher struct {
	cfg   *config.Config
	paths *store.PathStore
	guard viewerAlive

	// launch is replaceable in tests; the default spawns a detached viewer.
	launch func() error
}

// New creates a publisher over the configured state directory.
func New(cfg *config.Config, paths *store.PathStore, guard viewerAlive) *Publisher {
	p := &Publisher{
		cfg:   cfg,
		paths: paths,
		guard: guard,
	}
	p.launch = p.spawnViewer
	return p
}

// Publish validates the given image paths, replaces the published list
// wholesale and ensures a viewer is running. Paths that fail validation
// reject the whole publish; paths that merely do not exist yet are accepted
// with a warning, since producers often publish before the file is flushed.
func (p *Publisher) Publish(imagePaths []string) error {
	if len(imagePaths) == 0 {
		return errors.NewInvalidInputError("no image paths given", nil)
	}

	cleaned := make([]string, 0, len(imagePaths))
	for _, raw := range imagePaths {
		path := strings.TrimSpace(raw)
		if path == "" {
			return errors.NewInvalidInputError("empty image path", nil)
		}
		if !p.cfg.MatchesImage(path) {
			return errors.NewInvalidInputError(fmt.Sprintf("not a supported image type: %s", path), nil)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return errors.Wrap(err, "resolving image path")
		}
		if _, err := os.Stat(abs); err != nil {
			log.LogWithFields(log.F("file", abs)).Warn("publishing image that does not exist yet")
		}
		cleaned = append(cleaned, abs)
	}

	p.sweepStale()

	if err := p.paths.Write(cleaned); err != nil {
		return err
	}
	log.LogWithFields(log.F("count", len(cleaned))).Info("image list published")

	if p.guard.IsViewerRunning() {
		log.Debug("viewer already running, reusing it")
		return nil
	}
	return p.launch()
}

// Clear empties the published list so a viewer polling it goes idle.
func (p *Publisher) Clear() {
	p.paths.Clear()
}

// RegisterCleanup arranges for the published list to be cleared when the
// process is interrupted. Used by transient producers whose images vanish
// with them.
func (p *Publisher) RegisterCleanup() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		p.Clear()
		os.Exit(0)
	}()
}

// sweepStale removes leftover scratch files from the state directory.
// Best-effort; a failed sweep never blocks a publish.
func (p *Publisher) sweepStale() {
	matches, err := filepath.Glob(filepath.Join(p.cfg.Paths.StateDir, staleGlob))
	if err != nil {
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err == nil {
			log.LogWithFields(log.F("file", m)).Debug("removed stale scratch file")
		}
	}
}

// spawnViewer starts a detached viewer process running this same binary.
// The child survives the producer exiting and owns no producer file
// descriptors beyond the inherited stdio.
func (p *Publisher) spawnViewer() error {
	exe, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "locating own executable")
	}

	cmd := exec.Command(exe, "viewer")
	cmd.Env = append(os.Environ(), "LANG=C.UTF-8", "LC_ALL=C.UTF-8")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "starting viewer process")
	}
	log.LogWithFields(log.F("pid", cmd.Process.Pid)).Info("viewer started")

	// Detach: the viewer outlives us, so never wait on it.
	return cmd.Process.Release()
}

var _ viewerAlive = (*alwaysDown)(nil)

// alwaysDown is a guard stub that reports no viewer. Used when singleton
// detection is disabled.
type alwaysDown struct{}

// NoGuard returns a guard that always reports the viewer as down, forcing a
// spawn on every publish.
func NoGuard() viewerAlive { return &alwaysDown{} }

func (*alwaysDown) IsViewerRunning() bool { return false }
