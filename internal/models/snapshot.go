package models

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Snapshot maps repository-relative slash paths to file contents.
type Snapshot map[string][]byte

// Paths returns the snapshot's paths in sorted order.
func (s Snapshot) Paths() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Clone returns a shallow copy. Contents are shared since they are never mutated.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for p, c := range s {
		out[p] = c
	}
	return out
}

// Equal reports whether both snapshots hold the same paths with the same bytes.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for p, c := range s {
		oc, ok := other[p]
		if !ok || !bytes.Equal(c, oc) {
			return false
		}
	}
	return true
}

// Digest hashes paths and contents in path order.
func (s Snapshot) Digest() string {
	if len(s) == 0 {
		return ""
	}
	h := sha256.New()
	for _, p := range s.Paths() {
		h.Write([]byte(p))
		h.Write([]byte{0})
		sum := sha256.Sum256(s[p])
		h.Write(sum[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
