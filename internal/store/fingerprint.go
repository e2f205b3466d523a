package store

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"floatview/internal/log"
)

// fingerprintBytes is how much of a file identity checks read. A leading
// byte-range hash is enough to tell two generated images apart; this is not
// an integrity check.
const fingerprintBytes = 1024

// Fingerprint returns the hex SHA-256 of the first kilobyte of the file at
// path, or the empty string when the file cannot be read.
func Fingerprint(path string) string {
	f, err := os.Open(path)
	if err != nil {
		log.LogWithFields(log.F("file", path), log.F("error", err)).Warn("cannot fingerprint image")
		return ""
	}
	defer f.Close()

	buf := make([]byte, fingerprintBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		log.LogWithFields(log.F("file", path), log.F("error", err)).Warn("cannot fingerprint image")
		return ""
	}

	sum := sha256.Sum256(buf[:n])
	return hex.EncodeToString(sum[:])
}
