package models

import "time"

// StagedEntry is a pending change for one path.
// A Deleted entry stages the removal of a tracked file.
type StagedEntry struct {
	Path     string    `json:"path"`
	Content  []byte    `json:"content,omitempty"`
	Deleted  bool      `json:"deleted,omitempty"`
	StagedAt time.Time `json:"staged_at"`
}

// ApplyStaged overlays staged entries onto base and returns the result.
// Base is not modified.
func ApplyStaged(base Snapshot, entries []*StagedEntry) Snapshot {
	out := base.Clone()
	for _, e := range entries {
		if e.Deleted {
			delete(out, e.Path)
			continue
		}
		out[e.Path] = e.Content
	}
	return out
}
