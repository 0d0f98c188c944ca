package core

import (
	"context"
	"fmt"
	"time"

	"github.com/kilupskalvis/wbg/internal/diff"
	"github.com/kilupskalvis/wbg/internal/models"
	"go.uber.org/zap"
)

// RevertOptions configures Revert.
type RevertOptions struct {
	// Hard makes the working tree and the index match the target exactly.
	Hard bool
}

// RevertResult reports what Revert changed.
type RevertResult struct {
	Target       *models.Commit
	Changes      []diff.FileDiff // HEAD -> target
	FilesWritten int
	FilesRemoved int
	Staged       int
}

// Revert restores the working tree to the snapshot of ref. HEAD never
// moves and no commit is created; the result is left for the user to
// review and commit.
//
// Without Hard only the target's files are written: paths the target does
// not contain keep whatever is on disk, and the index is left alone.
// With Hard, tracked paths missing from the target are removed and the
// index is rewritten so that a commit would record the target snapshot.
func (r *Repository) Revert(ctx context.Context, ref string, opts RevertOptions) (*RevertResult, error) {
	commitID, _, err := r.ResolveRef(ref)
	if err != nil {
		return nil, err
	}
	target, targetSnap, err := r.Commits.ReadCommit(commitID)
	if err != nil {
		return nil, err
	}

	_, headSnap, err := r.head()
	if err != nil {
		return nil, err
	}

	result := &RevertResult{
		Target:  target,
		Changes: diff.Compute(headSnap, targetSnap),
	}

	if !opts.Hard {
		for _, p := range targetSnap.Paths() {
			if err := r.Tree.Write(p, targetSnap[p]); err != nil {
				return nil, fmt.Errorf("write %s: %w", p, err)
			}
			result.FilesWritten++
		}
		r.Logger.Debug("reverted working tree", zap.String("target", commitID), zap.Int("written", result.FilesWritten))
		return result, nil
	}

	staged, indexSnap, err := r.index(headSnap)
	if err != nil {
		return nil, err
	}

	result.FilesWritten, result.FilesRemoved, err = r.syncTree(targetSnap, tracked(headSnap, indexSnap))
	if err != nil {
		return nil, err
	}

	toStage := indexEntriesFor(result.Changes, targetSnap, r.Now())
	keep := make(map[string]bool, len(toStage))
	for _, e := range toStage {
		keep[e.Path] = true
	}
	var toUnstage []string
	for _, e := range staged {
		if !keep[e.Path] {
			toUnstage = append(toUnstage, e.Path)
		}
	}
	if err := r.Refs.UpdateIndex(toStage, toUnstage); err != nil {
		return nil, err
	}
	result.Staged = len(toStage)

	r.Logger.Debug("hard reverted",
		zap.String("target", commitID),
		zap.Int("written", result.FilesWritten),
		zap.Int("removed", result.FilesRemoved),
		zap.Int("staged", result.Staged),
	)
	return result, nil
}

// indexEntriesFor builds the staged entries that turn HEAD into target.
func indexEntriesFor(changes []diff.FileDiff, target models.Snapshot, now time.Time) []*models.StagedEntry {
	entries := make([]*models.StagedEntry, 0, len(changes))
	for _, c := range changes {
		if c.Status == diff.Deleted {
			entries = append(entries, &models.StagedEntry{Path: c.Path, Deleted: true, StagedAt: now})
			continue
		}
		entries = append(entries, &models.StagedEntry{Path: c.Path, Content: target[c.Path], StagedAt: now})
	}
	return entries
}
