// Package identity decides who an action is attributed to: a signed-in account,
// or an anonymous fingerprint derived from the client address and the target.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex SHA-256 digest of identifier followed by targetID.
// There is no salt, so the same pair hashes identically across restarts and instances.
func Hash(identifier, targetID string) string {
	sum := sha256.Sum256([]byte(identifier + targetID))
	return hex.EncodeToString(sum[:])
}
