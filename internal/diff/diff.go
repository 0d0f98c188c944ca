package diff

import (
	"bytes"
	"sort"

	"github.com/kilupskalvis/wbg/internal/models"
)

// Status classifies a path across two snapshots.
type Status string

const (
	Added     Status = "added"
	Deleted   Status = "deleted"
	Modified  Status = "modified"
	Unchanged Status = "unchanged"
)

// Stats counts changed lines in a file diff.
type Stats struct {
	Added   int
	Removed int
}

// FileDiff is the change to one path.
// Binary and TooLarge files carry no Edits.
type FileDiff struct {
	Path     string
	Status   Status
	Binary   bool
	TooLarge bool // too many lines to align
	Edits    []Edit
	Stats    Stats
}

// Options tunes Compute.
type Options struct {
	IncludeUnchanged bool
}

// Compute diffs two snapshots. The result is sorted by path and omits
// unchanged files.
func Compute(old, new models.Snapshot) []FileDiff {
	return ComputeWith(old, new, Options{})
}

// ComputeWith diffs two snapshots with explicit options.
func ComputeWith(old, new models.Snapshot, opts Options) []FileDiff {
	seen := make(map[string]struct{}, len(old)+len(new))
	for p := range old {
		seen[p] = struct{}{}
	}
	for p := range new {
		seen[p] = struct{}{}
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var out []FileDiff
	for _, p := range paths {
		oldContent, inOld := old[p]
		newContent, inNew := new[p]

		var fd FileDiff
		switch {
		case !inOld:
			fd = File(p, nil, newContent)
			fd.Status = Added
		case !inNew:
			fd = File(p, oldContent, nil)
			fd.Status = Deleted
		default:
			fd = File(p, oldContent, newContent)
		}

		if fd.Status == Unchanged && !opts.IncludeUnchanged {
			continue
		}
		out = append(out, fd)
	}
	return out
}

// File diffs two versions of a single path. Absence is expressed by the
// caller through the returned Status; a nil side is treated as empty.
func File(path string, old, new []byte) FileDiff {
	fd := FileDiff{Path: path, Status: Modified}
	if bytes.Equal(old, new) {
		fd.Status = Unchanged
	}

	if IsBinary(old) || IsBinary(new) {
		fd.Binary = true
		return fd
	}

	oldLines, newLines := SplitLines(old), SplitLines(new)
	if !Fits(oldLines, newLines) {
		fd.TooLarge = true
		return fd
	}

	fd.Edits = Lines(oldLines, newLines)
	for _, e := range fd.Edits {
		switch e.Type {
		case Addition:
			fd.Stats.Added++
		case Deletion:
			fd.Stats.Removed++
		}
	}
	return fd
}

// Changed reports whether any entry in diffs is not Unchanged.
func Changed(diffs []FileDiff) bool {
	for _, d := range diffs {
		if d.Status != Unchanged {
			return true
		}
	}
	return false
}
