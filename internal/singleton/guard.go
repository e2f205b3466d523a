// Package singleton detects whether a viewer process is already running by
// scanning the process table, so that repeated publishes reuse one window
// instead of spawning a stack of them.
package singleton

import (
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"floatview/internal/errors"
	"floatview/internal/log"
)

// Guard scans for live viewer processes.
type Guard struct {
	markers []string
	selfPID int32
}

// NewGuard creates a guard that treats any process whose command line
// contains one of the markers as a running viewer. The calling process is
// always excluded from the scan.
func NewGuard(markers ...string) *Guard {
	return &Guard{
		markers: markers,
		selfPID: int32(os.Getpid()),
	}
}

// IsViewerRunning reports whether another process matching the markers is
// alive. Scan failures are logged and read as "not running"; a spurious
// second window is preferable to a publish that silently shows nothing.
func (g *Guard) IsViewerRunning() bool {
	running, err := g.scan()
	if err != nil {
		log.LogWithFields(log.F("error", err)).Warn("process scan failed, assuming no viewer")
		return false
	}
	return running
}

func (g *Guard) scan() (bool, error) {
	procs, err := process.Processes()
	if err != nil {
		return false, errors.Wrap(err, "listing processes")
	}

	for _, p := range procs {
		if p.Pid == g.selfPID {
			continue
		}
		cmdline, err := p.Cmdline()
		if err != nil {
			// Short-lived or privileged processes come and go mid-scan.
			continue
		}
		if g.matches(cmdline) {
			log.LogWithFields(log.F("pid", p.Pid)).Debug("found running viewer")
			return true, nil
		}
	}
	return false, nil
}

func (g *Guard) matches(cmdline string) bool {
	if cmdline == "" {
		return false
	}
	for _, m := range g.markers {
		if m != "" && strings.Contains(cmdline, m) {
			return true
		}
	}
	return false
}
