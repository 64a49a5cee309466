package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the hex-encoded SHA-256 digest of a password.
//
// The digest is unsalted and deterministic: login recomputes it from the
// typed password and compares the (username, digest) pair against the
// stored row for exact equality, so the same password must always map to
// the same digest on every client.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
