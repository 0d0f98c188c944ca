package core

import (
	"context"

	"github.com/kilupskalvis/wbg/internal/graph"
	"github.com/kilupskalvis/wbg/internal/models"
)

// LogOptions configures Log.
type LogOptions struct {
	Start string // ref to start from; HEAD when empty
	Limit int    // zero or less means no limit
}

// Log returns the ancestors of Start, newest first. An unborn HEAD has no
// history and yields an empty list.
func (r *Repository) Log(ctx context.Context, opts LogOptions) ([]*models.Commit, error) {
	var start string
	if opts.Start == "" {
		head, err := r.Refs.GetHead()
		if err != nil {
			return nil, err
		}
		if head.IsUnborn() {
			return nil, nil
		}
		start = head.CommitID
	} else {
		id, _, err := r.ResolveRef(opts.Start)
		if err != nil {
			return nil, err
		}
		start = id
	}
	return r.Walker.Log(start, opts.Limit)
}

// GraphResult is the merged timeline of every branch, plus HEAD when detached.
type GraphResult struct {
	*graph.Timeline
	Head    *models.HeadState
	Orphans []*models.Commit // commits no branch reaches
	Total   int
}

// Graph merges the history of all branches into one timeline.
func (r *Repository) Graph(ctx context.Context, limit int) (*GraphResult, error) {
	head, err := r.Refs.GetHead()
	if err != nil {
		return nil, err
	}
	branches, err := r.Refs.ListBranches()
	if err != nil {
		return nil, err
	}

	tips := make(map[string]string, len(branches)+1)
	for _, b := range branches {
		tips[b.Name] = b.CommitID
	}

	reachable, err := r.Walker.Reachable(tips)
	if err != nil {
		return nil, err
	}

	if head.IsDetached {
		tips["HEAD"] = head.CommitID
	}
	timeline, err := r.Walker.Timeline(tips, limit)
	if err != nil {
		return nil, err
	}

	all, err := r.Commits.ListCommits()
	if err != nil {
		return nil, err
	}

	return &GraphResult{
		Timeline: timeline,
		Head:     head,
		Orphans:  graph.Orphans(all, reachable),
		Total:    len(all),
	}, nil
}
