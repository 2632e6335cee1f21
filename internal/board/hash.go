package board

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent returns the SHA-256 digest of content's UTF-8 bytes as
// a 64-character lowercase hex string. Identical content always
// produces an identical hash, across processes and platforms.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
