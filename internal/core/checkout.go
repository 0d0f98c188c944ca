package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/kilupskalvis/wbg/internal/diff"
	"github.com/kilupskalvis/wbg/internal/errs"
	"github.com/kilupskalvis/wbg/internal/models"
	"go.uber.org/zap"
)

// CheckoutOptions configures checkout behavior
type CheckoutOptions struct {
	Create bool // create the target as a new branch at HEAD (-b)
	Force  bool // discard staged and unstaged changes
}

// CheckoutResult contains the result of a checkout operation
type CheckoutResult struct {
	PreviousCommit string
	TargetCommit   string
	BranchName     string // empty if detached
	IsDetached     bool
	Created        bool
	FilesWritten   int
	FilesRemoved   int
}

// Checkout switches HEAD to a branch or commit and rewrites the working
// tree to match it. Untracked files are left alone.
func (r *Repository) Checkout(ctx context.Context, target string, opts CheckoutOptions) (*CheckoutResult, error) {
	if opts.Create {
		return r.checkoutNewBranch(target)
	}

	head, headSnap, err := r.head()
	if err != nil {
		return nil, err
	}

	commitID, branchName, err := r.resolveCheckoutTarget(target)
	if err != nil {
		return nil, err
	}

	if !opts.Force {
		dirty, err := r.hasUncommittedChanges(headSnap)
		if err != nil {
			return nil, fmt.Errorf("failed to check for changes: %w", err)
		}
		if dirty {
			return nil, errs.New(errs.KindUncommittedChanges, "you have uncommitted changes; commit them or use --force to discard")
		}
	}

	_, targetSnap, err := r.Commits.ReadCommit(commitID)
	if err != nil {
		return nil, err
	}
	_, indexSnap, err := r.index(headSnap)
	if err != nil {
		return nil, err
	}
	known := tracked(headSnap, indexSnap)

	if !opts.Force {
		conflicts, err := r.untrackedConflicts(targetSnap, known)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, errs.New(errs.KindUncommittedChanges,
				"untracked working tree files would be overwritten by checkout: %s; move or remove them, or use --force",
				strings.Join(conflicts, ", "))
		}
	}

	result := &CheckoutResult{
		PreviousCommit: head.CommitID,
		TargetCommit:   commitID,
		BranchName:     branchName,
		IsDetached:     branchName == "",
	}

	written, removed, err := r.syncTree(targetSnap, known)
	if err != nil {
		return nil, err
	}
	result.FilesWritten, result.FilesRemoved = written, removed

	if err := r.Refs.ClearStaged(); err != nil {
		return nil, err
	}

	if branchName != "" {
		err = r.Refs.SetHeadAttached(branchName)
	} else {
		err = r.Refs.SetHeadDetached(commitID)
	}
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("checked out",
		zap.String("target", commitID),
		zap.String("branch", branchName),
		zap.Int("written", written),
		zap.Int("removed", removed),
	)
	return result, nil
}

// checkoutNewBranch creates a branch at HEAD and attaches to it. The tree
// and index already match the new branch, so both are kept.
func (r *Repository) checkoutNewBranch(name string) (*CheckoutResult, error) {
	if err := models.ValidateBranchName(name); err != nil {
		return nil, errs.Wrap(errs.KindInvalidName, err, "invalid branch name '%s'", name)
	}
	if err := r.ensureNoBranch(name); err != nil {
		return nil, err
	}
	headID, err := r.Refs.ResolveHead()
	if err != nil {
		if errs.KindOf(err) == errs.KindUnbornHead {
			return nil, errs.New(errs.KindNoCommits, "cannot create branch '%s': no commits yet", name)
		}
		return nil, err
	}

	if err := r.Refs.CreateBranch(name, headID); err != nil {
		return nil, err
	}
	if err := r.Refs.SetHeadAttached(name); err != nil {
		return nil, err
	}

	r.Logger.Debug("branch created and checked out", zap.String("branch", name), zap.String("commit", headID))
	return &CheckoutResult{
		PreviousCommit: headID,
		TargetCommit:   headID,
		BranchName:     name,
		Created:        true,
	}, nil
}

// resolveCheckoutTarget resolves target as a branch first, then as a commit.
func (r *Repository) resolveCheckoutTarget(target string) (string, string, error) {
	if target == "" {
		return "", "", errs.New(errs.KindTargetNotFound, "no checkout target given")
	}
	commitID, branchName, err := r.ResolveRef(target)
	if err != nil {
		if errs.KindOf(err) == errs.KindUnbornHead {
			return "", "", errs.Wrap(errs.KindTargetNotFound, err, "'%s' does not resolve to a commit", target)
		}
		return "", "", err
	}
	return commitID, branchName, nil
}

// hasUncommittedChanges reports staged entries or tracked files whose
// working-tree content differs from the index.
func (r *Repository) hasUncommittedChanges(headSnap models.Snapshot) (bool, error) {
	count, err := r.Refs.StagedCount()
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	workSnap, err := r.readTree(headSnap.Paths())
	if err != nil {
		return false, err
	}
	return diff.Changed(diff.Compute(headSnap, workSnap)), nil
}

// untrackedConflicts lists untracked files on disk that target would
// overwrite with different content.
func (r *Repository) untrackedConflicts(target models.Snapshot, known map[string]bool) ([]string, error) {
	var conflicts []string
	for _, p := range target.Paths() {
		if known[p] {
			continue
		}
		content, err := r.Tree.Read(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		if !bytes.Equal(content, target[p]) {
			conflicts = append(conflicts, p)
		}
	}
	return conflicts, nil
}

// syncTree writes every file of target and removes the previously tracked
// paths target does not contain.
func (r *Repository) syncTree(target models.Snapshot, previouslyTracked map[string]bool) (int, int, error) {
	written, removed := 0, 0
	for _, p := range target.Paths() {
		if err := r.Tree.Write(p, target[p]); err != nil {
			return written, removed, fmt.Errorf("write %s: %w", p, err)
		}
		written++
	}

	for _, p := range sortedKeys(previouslyTracked) {
		if _, ok := target[p]; ok {
			continue
		}
		exists, _, err := r.Tree.Stat(p)
		if err != nil {
			return written, removed, err
		}
		if !exists {
			continue
		}
		if err := r.Tree.Remove(p); err != nil {
			return written, removed, fmt.Errorf("remove %s: %w", p, err)
		}
		removed++
	}
	return written, removed, nil
}
