// Package identity derives content-addressable keys for hierarchy paths.
//
// PathHash exists purely to populate an indexable surrogate column for
// path equality lookups. Uniqueness decisions always compare the path
// string itself, never the digest alone.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// PathHash returns the SHA-256 digest of path as lowercase hex.
// Deterministic and side-effect free.
func PathHash(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])
}
