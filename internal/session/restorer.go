package session

import (
	"floatview/internal/cache"
	"floatview/internal/log"
	"floatview/internal/store"
)

// Restore attempts to resume the previous session from the persisted path
// list and settings. The stored list is resumed only when it is non-empty,
// every file in it still exists and decodes, and the stored fingerprint of
// the first image either matches or was never recorded. On success the
// session displays the first image; on any failure the session is left
// untouched and the viewer starts idle.
func Restore(paths *store.PathStore, settings *store.SettingsStore, sess *Session) bool {
	stored := paths.Read()
	if len(stored) == 0 {
		return false
	}

	for _, p := range stored {
		if !cache.Decodable(p) {
			log.LogWithFields(log.F("file", p)).Info("stored image gone or unreadable, starting fresh")
			return false
		}
	}

	rec := settings.Load()
	if rec.FirstImageHash != "" && rec.FirstImageHash != store.Fingerprint(stored[0]) {
		log.Info("stored image list belongs to an older session, starting fresh")
		return false
	}

	sess.SetPaths(stored)
	log.LogWithFields(log.F("count", len(stored))).Info("previous session restored")
	return true
}
