package core

import (
	"context"
	"strings"

	"github.com/kilupskalvis/wbg/internal/errs"
	"github.com/kilupskalvis/wbg/internal/models"
	"go.uber.org/zap"
)

// maxIDAttempts bounds commit id regeneration after a collision.
const maxIDAttempts = 8

// CommitOptions configures Commit.
type CommitOptions struct {
	Message string
	All     bool // stage modified and deleted tracked files first
}

// Commit records the index as a new commit on top of HEAD.
//
// The commit row is written first, then the branch (or detached HEAD) is
// moved, and the index is cleared last, so a failure part way leaves the
// previous HEAD in place.
func (r *Repository) Commit(ctx context.Context, opts CommitOptions) (*models.Commit, error) {
	message := strings.TrimSpace(opts.Message)
	if message == "" {
		return nil, errs.New(errs.KindEmptyMessage, "aborting commit due to empty commit message")
	}

	if opts.All {
		if _, err := r.Add(ctx, AddOptions{All: true}); err != nil {
			return nil, err
		}
	}

	head, headSnap, err := r.head()
	if err != nil {
		return nil, err
	}
	staged, snapshot, err := r.index(headSnap)
	if err != nil {
		return nil, err
	}
	if len(staged) == 0 {
		return nil, errs.New(errs.KindNothingToCommit, "nothing to commit, working tree clean")
	}

	name, email := r.Config.Identity()
	commit := &models.Commit{
		ParentID:    head.CommitID,
		AuthorName:  name,
		AuthorEmail: email,
		Timestamp:   r.Now().UTC(),
		Message:     message,
		Branch:      head.BranchName,
	}

	if err := r.writeCommit(commit, snapshot); err != nil {
		return nil, err
	}

	switch {
	case head.IsDetached:
		err = r.Refs.SetHeadDetached(commit.ID)
	case head.CommitID == "":
		// first commit brings the unborn branch into existence
		err = r.Refs.SetBranch(head.BranchName, commit.ID)
	default:
		err = r.Refs.AdvanceBranch(head.BranchName, commit.ID)
	}
	if err != nil {
		return nil, err
	}

	if err := r.Refs.ClearStaged(); err != nil {
		return nil, err
	}

	r.Logger.Debug("commit created",
		zap.String("id", commit.ID),
		zap.String("parent", commit.ParentID),
		zap.String("branch", commit.Branch),
		zap.Int("files", len(commit.Files)),
	)
	return commit, nil
}

// writeCommit derives the commit id and persists it, re-salting on collision.
func (r *Repository) writeCommit(commit *models.Commit, snapshot models.Snapshot) error {
	for salt := 0; salt < maxIDAttempts; salt++ {
		commit.ID = models.GenerateCommitID(commit.Message, commit.Timestamp, commit.ParentID, snapshot, salt)
		err := r.Commits.WriteCommit(commit, snapshot)
		if err == nil {
			return nil
		}
		if errs.KindOf(err) != errs.KindIDCollision {
			return err
		}
		r.Logger.Warn("commit id collision", zap.String("id", commit.ID), zap.Int("salt", salt))
	}
	return errs.Corrupt(errs.ErrIDCollision, "could not allocate a commit id after %d attempts", maxIDAttempts)
}
