// Package resumeid provides a deterministic candidate ID from a file path for
// resumes ingested from disk.
package resumeid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "resume:"

// FromPath returns a stable candidate ID for the given absolute path.
// Same path always yields the same ID, so a file dropped into a watched
// directory twice produces rows with the same ID (duplicate rows are allowed
// by the store).
func FromPath(absolutePath string) string {
	normalized := filepath.Clean(absolutePath)
	hash := sha256.Sum256([]byte(normalized))
	return prefix + hex.EncodeToString(hash[:])
}
