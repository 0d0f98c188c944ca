package graph

import (
	"sort"

	"github.com/kilupskalvis/wbg/internal/models"
)

// Row is one commit in a merged timeline.
type Row struct {
	Commit *models.Commit
	// Tips names the refs whose tip is this commit.
	Tips []string
	// OnBranch[k] reports whether Timeline.Refs[k] reaches this commit.
	OnBranch []bool
}

// Timeline is the merged history of several refs.
type Timeline struct {
	Refs []string
	Rows []Row
}

// Timeline walks every tip and merges the reachable commits into one list
// ordered by timestamp descending, id ascending on ties.
func (w *Walker) Timeline(tips map[string]string, limit int) (*Timeline, error) {
	refs := sortedNames(tips)
	tl := &Timeline{Refs: refs}

	commits := make(map[string]*models.Commit)
	onRef := make(map[string][]bool)
	tipNames := make(map[string][]string)

	for k, ref := range refs {
		tip := tips[ref]
		if tip == "" {
			continue
		}
		tipNames[tip] = append(tipNames[tip], ref)

		it := w.Ancestors(tip)
		for {
			c, ok := it.Next()
			if !ok {
				break
			}
			flags, seen := onRef[c.ID]
			if !seen {
				flags = make([]bool, len(refs))
				onRef[c.ID] = flags
				commits[c.ID] = c
			}
			flags[k] = true
		}
		if err := it.Err(); err != nil {
			return nil, err
		}
	}

	ordered := make([]*models.Commit, 0, len(commits))
	for _, c := range commits {
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.ID < b.ID
	})

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}

	for _, c := range ordered {
		tl.Rows = append(tl.Rows, Row{Commit: c, Tips: tipNames[c.ID], OnBranch: onRef[c.ID]})
	}
	return tl, nil
}
