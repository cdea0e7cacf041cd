package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
)

// HashLen is the number of hex characters of the content digest kept in a
// hashed filename. Fixed so hashed names are stable across runs.
const HashLen = 12

// HashContent digests raw bytes. Same bytes, same hash, regardless of where
// the bytes came from or in which order files were discovered.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])[:HashLen]
}

// HashedName inserts a content hash before the file extension:
// "js/app.js" with hash "3f4a9c2d1b0e" becomes "js/app-3f4a9c2d1b0e.js".
// Extensionless files get the hash as a suffix.
func HashedName(rel, hash string) string {
	ext := path.Ext(rel)
	base := strings.TrimSuffix(rel, ext)
	return base + "-" + hash + ext
}
