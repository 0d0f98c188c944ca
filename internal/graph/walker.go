// Package graph walks the commit graph by following parent links.
package graph

import (
	"errors"
	"sort"

	"github.com/kilupskalvis/wbg/internal/errs"
	"github.com/kilupskalvis/wbg/internal/models"
)

// CommitSource loads commit metadata by id.
type CommitSource interface {
	GetCommit(id string) (*models.Commit, error)
}

// Walker traverses history stored in a CommitSource.
type Walker struct {
	Source CommitSource
}

// NewWalker creates a walker over src.
func NewWalker(src CommitSource) *Walker {
	return &Walker{Source: src}
}

// Iter yields commits newest-first along single-parent links. Each call to
// Ancestors returns a fresh iterator; iterators are not restartable.
type Iter struct {
	src     CommitSource
	next    string
	visited map[string]bool
	err     error
}

// Ancestors returns a lazy iterator starting at start (inclusive).
// An empty start yields nothing.
func (w *Walker) Ancestors(start string) *Iter {
	return &Iter{src: w.Source, next: start, visited: make(map[string]bool)}
}

// Next returns the next commit, or false when the walk is over or failed.
func (it *Iter) Next() (*models.Commit, bool) {
	if it.err != nil || it.next == "" {
		return nil, false
	}

	id := it.next
	if it.visited[id] {
		it.err = errs.Corrupt(nil, "commit %s is its own ancestor", id)
		return nil, false
	}
	it.visited[id] = true

	commit, err := it.src.GetCommit(id)
	if err != nil {
		if len(it.visited) > 1 && errors.Is(err, errs.ErrCommitNotFound) {
			err = errs.Corrupt(err, "parent %s is missing", id)
		}
		it.err = err
		return nil, false
	}

	it.next = commit.ParentID
	return commit, true
}

// Err returns the error that stopped the walk, if any.
func (it *Iter) Err() error {
	return it.err
}

// Log collects up to limit ancestors of start. A limit of zero or less
// means no limit.
func (w *Walker) Log(start string, limit int) ([]*models.Commit, error) {
	var out []*models.Commit
	it := w.Ancestors(start)
	for limit <= 0 || len(out) < limit {
		c, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, c)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Reachable returns the set of commit ids reachable from any of tips.
func (w *Walker) Reachable(tips map[string]string) (map[string]bool, error) {
	seen := make(map[string]bool)
	for _, name := range sortedNames(tips) {
		it := w.Ancestors(tips[name])
		for {
			c, ok := it.Next()
			if !ok {
				break
			}
			if seen[c.ID] {
				break
			}
			seen[c.ID] = true
		}
		if err := it.Err(); err != nil {
			return nil, err
		}
	}
	return seen, nil
}

// Orphans returns the commits in all that no tip reaches, preserving order.
func Orphans(all []*models.Commit, reachable map[string]bool) []*models.Commit {
	var out []*models.Commit
	for _, c := range all {
		if !reachable[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

func sortedNames(tips map[string]string) []string {
	names := make([]string, 0, len(tips))
	for name := range tips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
