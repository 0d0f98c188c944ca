package core

import (
	"strconv"
	"strings"

	"github.com/kilupskalvis/wbg/internal/errs"
)

// ResolveRef resolves a ref to a commit ID.
// Returns (commitID, branchName, error) where branchName is empty if ref is a commit.
// Supports: branch names, full/short commit IDs, HEAD, HEAD~N
func (r *Repository) ResolveRef(ref string) (commitID string, branchName string, err error) {
	if ref == "HEAD" || strings.HasPrefix(ref, "HEAD~") {
		commitID, err := r.resolveHEADRef(ref)
		return commitID, "", err
	}

	// Try as branch first
	branch, err := r.Refs.GetBranch(ref)
	if err != nil {
		return "", "", err
	}
	if branch != nil {
		return branch.CommitID, branch.Name, nil
	}

	id, err := r.Commits.ResolveCommit(ref)
	if err != nil {
		if errs.KindOf(err) == errs.KindTargetNotFound {
			return "", "", errs.Wrap(errs.KindTargetNotFound, err, "'%s' is not a valid branch or commit", ref)
		}
		return "", "", err
	}
	return id, "", nil
}

// resolveHEADRef resolves HEAD or HEAD~N to a commit ID
func (r *Repository) resolveHEADRef(ref string) (string, error) {
	head, err := r.Refs.ResolveHead()
	if err != nil {
		return "", err
	}

	if ref == "HEAD" {
		return head, nil
	}

	n, err := strconv.Atoi(strings.TrimPrefix(ref, "HEAD~"))
	if err != nil || n < 0 {
		return "", errs.New(errs.KindTargetNotFound, "invalid ref '%s': expected HEAD~N where N is a non-negative number", ref)
	}

	// Walk back N commits following the parent chain
	commitID := head
	for i := 0; i < n; i++ {
		commit, err := r.Commits.GetCommit(commitID)
		if err != nil {
			return "", err
		}
		if commit.ParentID == "" {
			return "", errs.New(errs.KindTargetNotFound, "cannot resolve %s: reached root commit after %d step(s)", ref, i)
		}
		commitID = commit.ParentID
	}

	return commitID, nil
}
