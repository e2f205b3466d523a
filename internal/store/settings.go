package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"floatview/internal/log"
	"floatview/pkg/types"
)

const settingsFileName = "settings.json"

// settingsFile is the on-disk shape. Fields are decoded loosely so that one
// mistyped value costs only that field, not the whole record.
type settingsFile struct {
	AlwaysOnTop    interface{} `json:"always_on_top"`
	X              interface{} `json:"x"`
	Y              interface{} `json:"y"`
	Width          interface{} `json:"width"`
	Height         interface{} `json:"height"`
	FirstImageHash interface{} `json:"first_image_hash"`
}

// settingsOut is the strictly typed shape written back out.
type settingsOut struct {
	AlwaysOnTop    bool    `json:"always_on_top"`
	X              int     `json:"x"`
	Y              int     `json:"y"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	FirstImageHash *string `json:"first_image_hash"`
}

// SettingsStore persists window geometry, the pin flag and the first-image
// fingerprint across viewer restarts.
type SettingsStore struct {
	path string
}

// NewSettingsStore creates a settings store backed by settings.json in dir.
func NewSettingsStore(dir string) *SettingsStore {
	return &SettingsStore{path: filepath.Join(dir, settingsFileName)}
}

// File returns the backing file path.
func (s *SettingsStore) File() string {
	return s.path
}

// Load reads the settings record. Every missing or mistyped field defaults
// independently; a corrupt file degrades to the full default record. Load
// never fails.
func (s *SettingsStore) Load() types.SettingsRecord {
	rec := types.DefaultSettings()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.LogWithFields(log.F("file", s.path), log.F("error", err)).Warn("cannot read settings, using defaults")
		}
		return rec
	}

	var raw settingsFile
	if err := json.Unmarshal(data, &raw); err != nil {
		log.LogWithFields(log.F("file", s.path), log.F("error", err)).Warn("unparsable settings, using defaults")
		return rec
	}

	if v, ok := raw.AlwaysOnTop.(bool); ok {
		rec.AlwaysOnTop = v
	}
	if v, ok := asInt(raw.X); ok {
		rec.Geometry.X = v
	}
	if v, ok := asInt(raw.Y); ok {
		rec.Geometry.Y = v
	}
	if v, ok := asInt(raw.Width); ok && v > 0 {
		rec.Geometry.Width = v
	}
	if v, ok := asInt(raw.Height); ok && v > 0 {
		rec.Geometry.Height = v
	}
	if v, ok := raw.FirstImageHash.(string); ok {
		rec.FirstImageHash = v
	}

	return rec
}

// Save writes the full record, best-effort. Failures are logged, not
// surfaced; losing a geometry update is preferable to interrupting the
// viewer's shutdown path.
func (s *SettingsStore) Save(rec types.SettingsRecord) {
	out := settingsOut{
		AlwaysOnTop: rec.AlwaysOnTop,
		X:           rec.Geometry.X,
		Y:           rec.Geometry.Y,
		Width:       rec.Geometry.Width,
		Height:      rec.Geometry.Height,
	}
	if rec.FirstImageHash != "" {
		hash := rec.FirstImageHash
		out.FirstImageHash = &hash
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		log.LogWithFields(log.F("dir", filepath.Dir(s.path)), log.F("error", err)).Warn("cannot create settings directory")
		return
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.LogWithFields(log.F("error", err)).Warn("cannot encode settings")
		return
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		log.LogWithFields(log.F("file", s.path), log.F("error", err)).Warn("cannot write settings")
	}
}

// Update applies mutate to a freshly loaded record and writes it back, so
// fields written by an earlier concurrent save are preserved.
func (s *SettingsStore) Update(mutate func(*types.SettingsRecord)) {
	rec := s.Load()
	mutate(&rec)
	s.Save(rec)
}

// asInt accepts the numeric shapes JSON decoding can produce.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}
