package core

import (
	"context"

	"github.com/kilupskalvis/wbg/internal/errs"
	"github.com/kilupskalvis/wbg/internal/models"
	"go.uber.org/zap"
)

// BranchInfo is a branch with a marker for the one HEAD is attached to.
type BranchInfo struct {
	*models.Branch
	Current bool
}

// CurrentHead returns where HEAD points without reading any snapshot.
func (r *Repository) CurrentHead(ctx context.Context) (*models.HeadState, error) {
	return r.Refs.GetHead()
}

// ListBranches returns all branches sorted by name.
func (r *Repository) ListBranches(ctx context.Context) ([]BranchInfo, error) {
	head, err := r.Refs.GetHead()
	if err != nil {
		return nil, err
	}
	branches, err := r.Refs.ListBranches()
	if err != nil {
		return nil, err
	}

	out := make([]BranchInfo, 0, len(branches))
	for _, b := range branches {
		out = append(out, BranchInfo{
			Branch:  b,
			Current: !head.IsDetached && head.BranchName == b.Name,
		})
	}
	return out, nil
}

// CreateBranch creates a new branch at startPoint, or at HEAD when
// startPoint is empty.
func (r *Repository) CreateBranch(ctx context.Context, name, startPoint string) (*models.Branch, error) {
	if err := models.ValidateBranchName(name); err != nil {
		return nil, errs.Wrap(errs.KindInvalidName, err, "invalid branch name '%s'", name)
	}
	if err := r.ensureNoBranch(name); err != nil {
		return nil, err
	}

	var commitID string
	if startPoint == "" {
		id, err := r.Refs.ResolveHead()
		if err != nil {
			if errs.KindOf(err) == errs.KindUnbornHead {
				return nil, errs.New(errs.KindNoCommits, "cannot create branch '%s': no commits yet", name)
			}
			return nil, err
		}
		commitID = id
	} else {
		id, _, err := r.ResolveRef(startPoint)
		if err != nil {
			return nil, err
		}
		commitID = id
	}

	if err := r.Refs.CreateBranch(name, commitID); err != nil {
		return nil, err
	}

	r.Logger.Debug("branch created", zap.String("branch", name), zap.String("commit", commitID))
	return r.Refs.GetBranch(name)
}

// ensureNoBranch fails with BranchExists before any ref is resolved.
func (r *Repository) ensureNoBranch(name string) error {
	exists, err := r.Refs.BranchExists(name)
	if err != nil {
		return err
	}
	if exists {
		return errs.New(errs.KindBranchExists, "branch '%s' already exists", name)
	}
	return nil
}

// DeleteBranch deletes a branch. The branch HEAD is attached to can never
// be deleted.
func (r *Repository) DeleteBranch(ctx context.Context, name string) error {
	head, err := r.Refs.GetHead()
	if err != nil {
		return err
	}
	if !head.IsDetached && head.BranchName == name {
		return errs.New(errs.KindCannotDeleteCurrent, "cannot delete branch '%s': currently checked out", name)
	}

	if err := r.Refs.DeleteBranch(name); err != nil {
		return err
	}

	r.Logger.Debug("branch deleted", zap.String("branch", name))
	return nil
}

// RenameBranch renames a branch and follows it with HEAD when attached.
func (r *Repository) RenameBranch(ctx context.Context, oldName, newName string) error {
	if err := r.Refs.RenameBranch(oldName, newName); err != nil {
		return err
	}
	r.Logger.Debug("branch renamed", zap.String("from", oldName), zap.String("to", newName))
	return nil
}
