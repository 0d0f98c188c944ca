package core

import (
	"context"

	"github.com/kilupskalvis/wbg/internal/diff"
	"github.com/kilupskalvis/wbg/internal/models"
)

// DiffOptions selects the two sides of a diff.
//
//	no refs         HEAD vs working tree
//	Cached          HEAD vs index
//	From            From vs working tree
//	From and To     From vs To
type DiffOptions struct {
	From   string
	To     string
	Cached bool
}

// Diff compares two states of the repository. Working-tree sides only
// include tracked paths.
func (r *Repository) Diff(ctx context.Context, opts DiffOptions) ([]diff.FileDiff, error) {
	_, headSnap, err := r.head()
	if err != nil {
		return nil, err
	}

	if opts.Cached {
		old := headSnap
		if opts.From != "" {
			if old, err = r.snapshotOf(opts.From); err != nil {
				return nil, err
			}
		}
		_, indexSnap, err := r.index(headSnap)
		if err != nil {
			return nil, err
		}
		return diff.Compute(old, indexSnap), nil
	}

	if opts.From != "" && opts.To != "" {
		fromSnap, err := r.snapshotOf(opts.From)
		if err != nil {
			return nil, err
		}
		toSnap, err := r.snapshotOf(opts.To)
		if err != nil {
			return nil, err
		}
		return diff.Compute(fromSnap, toSnap), nil
	}

	old := headSnap
	if opts.From != "" {
		if old, err = r.snapshotOf(opts.From); err != nil {
			return nil, err
		}
	}

	_, indexSnap, err := r.index(headSnap)
	if err != nil {
		return nil, err
	}
	work, err := r.readTree(sortedKeys(tracked(old, indexSnap)))
	if err != nil {
		return nil, err
	}
	return diff.Compute(old, work), nil
}

// ShowResult is a commit and the changes it introduced.
type ShowResult struct {
	Commit  *models.Commit
	Changes []diff.FileDiff
}

// Show returns the commit ref points to and its diff against its parent.
func (r *Repository) Show(ctx context.Context, ref string) (*ShowResult, error) {
	if ref == "" {
		ref = "HEAD"
	}
	id, _, err := r.ResolveRef(ref)
	if err != nil {
		return nil, err
	}
	commit, snap, err := r.Commits.ReadCommit(id)
	if err != nil {
		return nil, err
	}

	parentSnap := models.Snapshot{}
	if !commit.IsRoot() {
		if _, parentSnap, err = r.Commits.ReadCommit(commit.ParentID); err != nil {
			return nil, err
		}
	}

	return &ShowResult{Commit: commit, Changes: diff.Compute(parentSnap, snap)}, nil
}

func (r *Repository) snapshotOf(ref string) (models.Snapshot, error) {
	id, _, err := r.ResolveRef(ref)
	if err != nil {
		return nil, err
	}
	_, snap, err := r.Commits.ReadCommit(id)
	return snap, err
}
