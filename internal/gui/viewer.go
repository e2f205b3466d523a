// Package gui implements the floating preview window.
package gui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"floatview/internal/cache"
	"floatview/internal/config"
	"floatview/internal/log"
	"floatview/internal/session"
	"floatview/internal/store"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/atotto/clipboard"
)

// Viewer is the GUI application: one window that displays whatever image
// list the producer last published.
type Viewer struct {
	fyneApp fyne.App
	window  fyne.Window

	cfg      *config.Config
	paths    *store.PathStore
	settings *store.SettingsStore
	images   *cache.Cache
	sess     *session.Session
	detector *session.Detector

	canvasImg   *canvas.Image
	indicator   *widget.Label
	placeholder *widget.Label

	stopOnce sync.Once
	stopChan chan struct{}
}

// NewViewer creates the viewer application, restoring the previous session
// when its image list is still valid.
func NewViewer(cfg *config.Config) *Viewer {
	fyneApp := app.NewWithID("io.github.floatview")

	v := &Viewer{
		fyneApp:  fyneApp,
		cfg:      cfg,
		paths:    store.NewPathStore(cfg.Paths.StateDir),
		settings: store.NewSettingsStore(cfg.Paths.StateDir),
		images:   cache.New(cfg.Viewer.CacheSize),
		stopChan: make(chan struct{}),
	}

	rec := v.settings.Load()
	v.sess = session.New(rec.Geometry)
	v.sess.SetPinned(rec.AlwaysOnTop)

	if !session.Restore(v.paths, v.settings, v.sess) {
		log.Debug("no previous session to restore")
	}

	v.detector = session.NewDetector(v.paths, v.images, v.sess,
		time.Duration(cfg.Viewer.PollIntervalMs)*time.Millisecond, nil)

	v.window = fyneApp.NewWindow("Float Preview")
	v.window.Resize(fyne.NewSize(float32(rec.Geometry.Width), float32(rec.Geometry.Height)))
	// Window position is persisted and round-tripped, but fyne offers no
	// API to place a window, so x/y are carried without being applied.

	v.buildContent()
	v.bindKeys()

	return v
}

// Run shows the window and blocks until it closes.
func (v *Viewer) Run() {
	v.window.SetCloseIntercept(func() {
		v.shutdown()
		v.window.Close()
	})

	v.render()
	go v.pollLoop()

	v.window.ShowAndRun()
	v.shutdown()
}

func (v *Viewer) buildContent() {
	v.canvasImg = canvas.NewImageFromImage(nil)
	v.canvasImg.FillMode = canvas.ImageFillContain

	v.placeholder = widget.NewLabel("Waiting for images...")
	v.indicator = widget.NewLabel("")

	bottom := container.NewCenter(v.indicator)
	stack := container.NewStack(v.canvasImg, container.NewCenter(v.placeholder))
	v.window.SetContent(container.NewBorder(nil, bottom, nil, nil, stack))
}

func (v *Viewer) bindKeys() {
	v.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyRight, fyne.KeyDown, fyne.KeySpace:
			v.sess.Next()
			v.render()
		case fyne.KeyLeft, fyne.KeyUp:
			v.sess.Previous()
			v.render()
		case fyne.KeyEscape:
			v.shutdown()
			v.window.Close()
		}
	})

	c := v.window.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyT, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		v.togglePinned()
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		v.saveCopy()
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyC, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		v.copyPath()
	})
}

// pollLoop is the viewer's single periodic driver: it picks up published
// list changes and tracks window resizes, re-rendering on either.
func (v *Viewer) pollLoop() {
	ticker := time.NewTicker(time.Duration(v.cfg.Viewer.PollIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-v.stopChan:
			return
		case <-ticker.C:
			changed := v.detector.Tick()

			size := v.window.Canvas().Size()
			w, h := int(size.Width), int(size.Height)
			g := v.sess.Geometry()
			if w > 0 && h > 0 && (w != g.Width || h != g.Height) {
				v.sess.SetSize(w, h)
				changed = true
			}

			if changed {
				v.render()
			}
		}
	}
}

// render pushes the session's current image onto the canvas. Safe to call
// from the poll goroutine; fyne canvas refreshes are thread-safe.
func (v *Viewer) render() {
	cur, ok := v.sess.Current()
	if !ok {
		v.canvasImg.Image = nil
		v.canvasImg.Refresh()
		v.indicator.Hide()
		v.placeholder.Show()
		return
	}

	size := v.window.Canvas().Size()
	w, h := int(size.Width), int(size.Height)
	if w < 1 || h < 1 {
		w, h = v.cfg.Viewer.WindowWidth, v.cfg.Viewer.WindowHeight
	}

	img, err := v.images.Scaled(cur, w, h)
	if err != nil {
		log.LogWithFields(log.F("file", cur)).Warn("cannot display image")
		v.placeholder.SetText(fmt.Sprintf("Cannot display %s", filepath.Base(cur)))
		v.placeholder.Show()
		v.indicator.Hide()
		return
	}

	v.placeholder.Hide()
	v.canvasImg.Image = img
	v.canvasImg.Refresh()

	if v.sess.Count() > 1 {
		v.indicator.SetText(fmt.Sprintf("❮  %d / %d  ❯", v.sess.Index()+1, v.sess.Count()))
		v.indicator.Show()
	} else {
		v.indicator.Hide()
	}
}

func (v *Viewer) togglePinned() {
	pinned := v.sess.TogglePinned()
	// fyne has no always-on-top control; the preference is persisted for
	// window managers that honor it via the saved settings.
	log.LogWithFields(log.F("pinned", pinned)).Info("always-on-top toggled")
}

// saveCopy lets the user keep a permanent copy of the displayed image, which
// is typically a temp file the producer will delete.
func (v *Viewer) saveCopy() {
	cur, ok := v.sess.Current()
	if !ok {
		return
	}

	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()

		src, err := os.Open(cur)
		if err != nil {
			log.LogWithFields(log.F("file", cur), log.F("error", err)).Error("cannot read image for saving")
			return
		}
		defer src.Close()

		if _, err := io.Copy(wc, src); err != nil {
			log.LogWithFields(log.F("error", err)).Error("saving image copy failed")
			return
		}
		log.LogWithFields(log.F("to", wc.URI().String())).Info("image copy saved")
	}, v.window)
	d.SetFileName(filepath.Base(cur))
	d.Show()
}

// copyPath puts the displayed image's path on the system clipboard.
func (v *Viewer) copyPath() {
	cur, ok := v.sess.Current()
	if !ok {
		return
	}
	if err := clipboard.WriteAll(cur); err != nil {
		log.LogWithFields(log.F("error", err)).Warn("clipboard write failed")
		return
	}
	log.LogWithFields(log.F("file", cur)).Debug("image path copied")
}

// shutdown stops the poll loop and persists the session exactly once.
func (v *Viewer) shutdown() {
	v.stopOnce.Do(func() {
		close(v.stopChan)

		size := v.window.Canvas().Size()
		if size.Width > 0 && size.Height > 0 {
			v.sess.SetSize(int(size.Width), int(size.Height))
		}

		v.settings.Save(v.sess.Record(store.Fingerprint))
		log.Info("viewer session persisted")
	})
}
