package types

// SettingsRecord is the persisted subset of the viewer session: window
// placement, the pinned-on-top flag and a partial content hash of the first
// image shown, used to recognize an unchanged session across restarts.
type SettingsRecord struct {
	AlwaysOnTop    bool
	Geometry       Geometry
	FirstImageHash string
}

// DefaultSettings returns the record used when the settings file is missing
// or unreadable. Each field also defaults independently on partial damage.
func DefaultSettings() SettingsRecord {
	return SettingsRecord{
		AlwaysOnTop:    false,
		Geometry:       DefaultGeometry(),
		FirstImageHash: "",
	}
}
