package session

import (
	"sync"
	"time"

	"floatview/internal/cache"
	"floatview/internal/log"
	"floatview/internal/store"
)

// Detector polls the published path list and swaps the session content when
// the list changes. Change detection is a deep compare against the list the
// session already holds, so a rewrite of the same content is a no-op and a
// malformed or missing file (which reads as empty) only matters when the
// session is non-empty.
type Detector struct {
	paths    *store.PathStore
	images   *cache.Cache
	sess     *Session
	interval time.Duration
	onChange func([]string)

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
}

// NewDetector wires a detector over the given store, cache and session.
// onChange runs after the session has been swapped to the new list; it may
// be nil.
func NewDetector(paths *store.PathStore, images *cache.Cache, sess *Session, interval time.Duration, onChange func([]string)) *Detector {
	return &Detector{
		paths:    paths,
		images:   images,
		sess:     sess,
		interval: interval,
		onChange: onChange,
	}
}

// Tick performs one poll cycle and reports whether the session content
// changed.
func (d *Detector) Tick() bool {
	current := d.paths.Read()
	if pathsEqual(current, d.sess.Paths()) {
		return false
	}

	log.LogWithFields(log.F("count", len(current))).Info("image list changed")

	d.images.InvalidateAll()
	d.sess.SetPaths(current)

	if d.onChange != nil {
		d.onChange(current)
	}
	return true
}

// Start launches the polling loop. Safe to call once per detector; a second
// call while running is ignored.
func (d *Detector) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		log.Warn("detector already running")
		return
	}
	d.running = true
	d.stopChan = make(chan struct{})

	go d.loop(d.stopChan)
	log.LogWithFields(log.F("interval", d.interval.String())).Info("change detection started")
}

// Stop terminates the polling loop and waits for no further ticks.
func (d *Detector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}
	close(d.stopChan)
	d.running = false
}

func (d *Detector) loop(stop chan struct{}) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			d.Tick()
		}
	}
}

func pathsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
