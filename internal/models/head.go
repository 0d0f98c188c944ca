package models

// HeadState represents the current HEAD position
type HeadState struct {
	CommitID   string // Current commit ID, empty when unborn
	BranchName string // Empty if detached HEAD
	IsDetached bool   // True if not on a branch
}

// IsUnborn reports whether HEAD is attached to a branch with no commits yet.
func (h *HeadState) IsUnborn() bool {
	return !h.IsDetached && h.CommitID == ""
}
