package core

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kilupskalvis/wbg/internal/errs"
	"github.com/kilupskalvis/wbg/internal/ignore"
	"github.com/kilupskalvis/wbg/internal/models"
	"github.com/kilupskalvis/wbg/internal/worktree"
	"go.uber.org/zap"
)

// AddOptions configures Add.
type AddOptions struct {
	Paths []string // literal paths, directories or glob patterns
	All   bool     // stage every modified or deleted tracked file
}

// AddResult reports what Add changed in the index.
type AddResult struct {
	Staged   []string // paths whose content was staged
	Deleted  []string // tracked paths staged for removal
	Restored []string // staged paths dropped because they match HEAD again
	Ignored  int      // candidates skipped by ignore rules
}

// Count returns the number of index changes.
func (a *AddResult) Count() int {
	return len(a.Staged) + len(a.Deleted) + len(a.Restored)
}

// addPlan collects the outcome for each candidate path before the index is touched.
type addPlan struct {
	present map[string]bool // path exists in the working tree
	missing map[string]bool // tracked path gone from the working tree
	ignored int
}

// Add stages working-tree content. A literal file path is staged even if
// it is ignored; directory, glob and All expansions skip ignored paths.
// Nothing is staged if any literal path or glob fails to match.
func (r *Repository) Add(ctx context.Context, opts AddOptions) (*AddResult, error) {
	_, headSnap, err := r.head()
	if err != nil {
		return nil, err
	}
	staged, indexSnap, err := r.index(headSnap)
	if err != nil {
		return nil, err
	}
	matcher, err := r.ignoreMatcher()
	if err != nil {
		return nil, err
	}
	known := tracked(headSnap, indexSnap)

	plan := &addPlan{present: map[string]bool{}, missing: map[string]bool{}}
	if opts.All {
		if err := r.planTracked(plan, known, matcher); err != nil {
			return nil, err
		}
	}
	for _, raw := range opts.Paths {
		if err := r.planPath(plan, raw, known, matcher); err != nil {
			return nil, err
		}
	}

	return r.applyAddPlan(plan, headSnap, staged)
}

// planTracked adds every tracked, non-ignored path to the plan.
func (r *Repository) planTracked(plan *addPlan, known map[string]bool, matcher *ignore.Matcher) error {
	for p := range known {
		if matcher.Ignored(p, false) {
			plan.ignored++
			continue
		}
		exists, _, err := r.Tree.Stat(p)
		if err != nil {
			return err
		}
		if exists {
			plan.present[p] = true
		} else {
			plan.missing[p] = true
		}
	}
	return nil
}

func (r *Repository) planPath(plan *addPlan, raw string, known map[string]bool, matcher *ignore.Matcher) error {
	p, err := worktree.Clean(raw)
	if err != nil {
		return errs.Wrap(errs.KindNoMatchingFiles, err, "pathspec '%s' did not match any files", raw)
	}
	if worktree.InMetaDir(p) {
		return errs.New(errs.KindNoMatchingFiles, "pathspec '%s' is inside the repository metadata", raw)
	}

	if worktree.IsGlob(p) {
		matches, err := r.Tree.Glob(p)
		if err != nil {
			return errs.Wrap(errs.KindNoMatchingFiles, err, "pathspec '%s' did not match any files", raw)
		}
		if len(matches) == 0 {
			return errs.New(errs.KindNoMatchingFiles, "pathspec '%s' did not match any files", raw)
		}
		for _, m := range matches {
			if matcher.Ignored(m, false) {
				plan.ignored++
				continue
			}
			plan.present[m] = true
		}
		return nil
	}

	exists, isDir, err := r.Tree.Stat(p)
	if err != nil {
		return err
	}

	switch {
	case exists && isDir:
		return r.planDir(plan, p, known, matcher)
	case exists:
		plan.present[p] = true
	case known[p]:
		plan.missing[p] = true
	default:
		// a directory that only holds deleted tracked files
		found := false
		for k := range known {
			if strings.HasPrefix(k, p+"/") {
				plan.missing[k] = true
				found = true
			}
		}
		if !found {
			return errs.New(errs.KindNoMatchingFiles, "pathspec '%s' did not match any files", raw)
		}
	}
	return nil
}

func (r *Repository) planDir(plan *addPlan, dir string, known map[string]bool, matcher *ignore.Matcher) error {
	files, err := r.Tree.List()
	if err != nil {
		return err
	}
	under := func(f string) bool {
		return dir == "." || strings.HasPrefix(f, dir+"/")
	}

	onDisk := make(map[string]bool)
	for _, f := range files {
		if !under(f) {
			continue
		}
		onDisk[f] = true
		if matcher.Ignored(f, false) {
			plan.ignored++
			continue
		}
		plan.present[f] = true
	}
	for k := range known {
		if under(k) && !onDisk[k] && !matcher.Ignored(k, false) {
			plan.missing[k] = true
		}
	}
	return nil
}

// applyAddPlan turns the plan into index writes. Content equal to HEAD is
// never staged; an existing entry for it is dropped instead.
func (r *Repository) applyAddPlan(plan *addPlan, headSnap models.Snapshot, staged []*models.StagedEntry) (*AddResult, error) {
	result := &AddResult{Ignored: plan.ignored}
	current := make(map[string]*models.StagedEntry, len(staged))
	for _, e := range staged {
		current[e.Path] = e
	}

	var toStage []*models.StagedEntry
	var toUnstage []string
	now := r.Now()

	for _, p := range sortedKeys(plan.present) {
		content, err := r.Tree.Read(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		headContent, inHead := headSnap[p]
		entry := current[p]

		switch {
		case inHead && bytes.Equal(headContent, content):
			if entry != nil {
				toUnstage = append(toUnstage, p)
				result.Restored = append(result.Restored, p)
			}
		case entry != nil && !entry.Deleted && bytes.Equal(entry.Content, content):
			// already staged as is
		default:
			toStage = append(toStage, &models.StagedEntry{Path: p, Content: content, StagedAt: now})
			result.Staged = append(result.Staged, p)
		}
	}

	for _, p := range sortedKeys(plan.missing) {
		if plan.present[p] {
			continue
		}
		_, inHead := headSnap[p]
		entry := current[p]

		switch {
		case !inHead:
			// staged as new, then removed from disk
			if entry != nil {
				toUnstage = append(toUnstage, p)
				result.Restored = append(result.Restored, p)
			}
		case entry != nil && entry.Deleted:
		default:
			toStage = append(toStage, &models.StagedEntry{Path: p, Deleted: true, StagedAt: now})
			result.Deleted = append(result.Deleted, p)
		}
	}

	if err := r.Refs.UpdateIndex(toStage, toUnstage); err != nil {
		return nil, err
	}

	r.Logger.Debug("index updated",
		zap.Int("staged", len(result.Staged)),
		zap.Int("deleted", len(result.Deleted)),
		zap.Int("restored", len(result.Restored)),
		zap.Int("ignored", result.Ignored),
	)
	return result, nil
}

// Unstage removes paths from the index. Globs match staged paths and a
// directory unstages everything under it. Paths that are not staged are ignored.
func (r *Repository) Unstage(ctx context.Context, paths []string) ([]string, error) {
	staged, err := r.Refs.StagedEntries()
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool)
	for _, raw := range paths {
		p, err := worktree.Clean(raw)
		if err != nil {
			return nil, errs.Wrap(errs.KindNoMatchingFiles, err, "pathspec '%s' did not match any files", raw)
		}
		if worktree.InMetaDir(p) {
			return nil, errs.New(errs.KindNoMatchingFiles, "pathspec '%s' is inside the repository metadata", raw)
		}
		for _, e := range staged {
			switch {
			case e.Path == p,
				p == ".",
				strings.HasPrefix(e.Path, p+"/"),
				worktree.IsGlob(p) && worktree.MatchGlob(p, e.Path):
				selected[e.Path] = true
			}
		}
	}

	removed := sortedKeys(selected)
	if err := r.Refs.UpdateIndex(nil, removed); err != nil {
		return nil, err
	}

	r.Logger.Debug("paths unstaged", zap.Int("count", len(removed)))
	return removed, nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
