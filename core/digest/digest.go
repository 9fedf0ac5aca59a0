// Package digest is the sole source of content-addressed identity for the
// chain: every composition record, reduction record, and the chain head
// itself is named by the digest this package produces.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
)

// Algorithm identifies the hash function pinned across a deployment. Changing
// it invalidates every digest already written to a store.
const Algorithm = "sha256"

// EmptyInit is the digest of the empty byte sequence, the sentinel parent
// hash for a chain's genesis composition record.
var EmptyInit = Bytes(nil)

// Bytes returns the lowercase hex digest of data.
func Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
