package core

import (
	"context"
	"sort"

	"github.com/kilupskalvis/wbg/internal/diff"
	"github.com/kilupskalvis/wbg/internal/models"
)

// StatusEntry is the three-way state of one path.
// Index compares the index with HEAD; Work compares the working tree with
// the index. Either is empty when that side is unchanged.
type StatusEntry struct {
	Path      string
	Index     diff.Status
	Work      diff.Status
	Untracked bool
}

// StatusResult describes the repository relative to HEAD.
type StatusResult struct {
	Head      *models.HeadState
	Entries   []StatusEntry
	Staged    []diff.FileDiff // HEAD -> index
	Unstaged  []diff.FileDiff // index -> working tree, tracked paths only
	Untracked []string
}

// Clean reports whether there is nothing staged, modified or untracked.
func (s *StatusResult) Clean() bool {
	return len(s.Staged) == 0 && len(s.Unstaged) == 0 && len(s.Untracked) == 0
}

// Status compares HEAD, the index and the working tree. It never mutates state.
func (r *Repository) Status(ctx context.Context) (*StatusResult, error) {
	head, headSnap, err := r.head()
	if err != nil {
		return nil, err
	}
	_, indexSnap, err := r.index(headSnap)
	if err != nil {
		return nil, err
	}
	known := tracked(headSnap, indexSnap)

	workSnap, err := r.readTree(sortedKeys(known))
	if err != nil {
		return nil, err
	}
	// paths staged for deletion are no longer tracked by the index
	for p := range workSnap {
		if _, ok := indexSnap[p]; !ok {
			delete(workSnap, p)
		}
	}

	untracked, err := r.untracked(indexSnap)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{
		Head:      head,
		Staged:    diff.Compute(headSnap, indexSnap),
		Unstaged:  diff.Compute(indexSnap, workSnap),
		Untracked: untracked,
	}
	result.Entries = mergeStatus(result.Staged, result.Unstaged, untracked)
	return result, nil
}

// untracked lists non-ignored working-tree files absent from the index.
func (r *Repository) untracked(indexSnap models.Snapshot) ([]string, error) {
	files, err := r.Tree.List()
	if err != nil {
		return nil, err
	}
	matcher, err := r.ignoreMatcher()
	if err != nil {
		return nil, err
	}

	var out []string
	for _, f := range files {
		if _, ok := indexSnap[f]; ok {
			continue
		}
		if matcher.Ignored(f, false) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func mergeStatus(staged, unstaged []diff.FileDiff, untracked []string) []StatusEntry {
	byPath := make(map[string]*StatusEntry)
	entry := func(p string) *StatusEntry {
		e, ok := byPath[p]
		if !ok {
			e = &StatusEntry{Path: p}
			byPath[p] = e
		}
		return e
	}

	for _, d := range staged {
		entry(d.Path).Index = d.Status
	}
	for _, d := range unstaged {
		entry(d.Path).Work = d.Status
	}
	for _, p := range untracked {
		entry(p).Untracked = true
	}

	out := make([]StatusEntry, 0, len(byPath))
	for _, e := range byPath {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
