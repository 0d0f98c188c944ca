package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// CommitIDLength is the number of hex characters in a commit ID.
const CommitIDLength = 8

// GenerateCommitID derives a commit ID from the commit's content.
// Salt is bumped by the caller when the derived ID collides with an
// existing commit.
func GenerateCommitID(message string, timestamp time.Time, parentID string, snapshot Snapshot, salt int) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%d", message, timestamp.Format(time.RFC3339Nano), parentID, snapshot.Digest(), salt)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])[:CommitIDLength]
}

// IsCommitID reports whether s has the shape of a full commit ID.
func IsCommitID(s string) bool {
	if len(s) != CommitIDLength {
		return false
	}
	return isHex(s)
}

// IsCommitPrefix reports whether s could abbreviate a commit ID.
func IsCommitPrefix(s string) bool {
	return len(s) >= 4 && len(s) <= CommitIDLength && isHex(s)
}

func isHex(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
