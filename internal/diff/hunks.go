package diff

import "fmt"

// DefaultContext is the number of context lines around a change.
const DefaultContext = 3

// Hunk represents a continuous section of changes
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Edit
}

// Header renders the unified-diff range line for the hunk.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
}

// Hunks groups the file's edits into hunks with up to context unchanged
// lines on each side. Changes separated by at most 2*context lines share a hunk.
func (f *FileDiff) Hunks(context int) []Hunk {
	if context < 0 {
		context = 0
	}

	var changes []int
	for k, e := range f.Edits {
		if e.Type != Context {
			changes = append(changes, k)
		}
	}
	if len(changes) == 0 {
		return nil
	}

	// lines consumed on each side before edit k
	oldPos := make([]int, len(f.Edits))
	newPos := make([]int, len(f.Edits))
	o, n := 0, 0
	for k, e := range f.Edits {
		oldPos[k], newPos[k] = o, n
		if e.Type != Addition {
			o++
		}
		if e.Type != Deletion {
			n++
		}
	}

	var hunks []Hunk
	start := max(0, changes[0]-context)
	last := changes[0]
	flush := func(end int) {
		h := Hunk{Lines: f.Edits[start : end+1]}
		for _, e := range h.Lines {
			if e.Type != Addition {
				h.OldLines++
			}
			if e.Type != Deletion {
				h.NewLines++
			}
		}
		h.OldStart = oldPos[start]
		if h.OldLines > 0 {
			h.OldStart++
		}
		h.NewStart = newPos[start]
		if h.NewLines > 0 {
			h.NewStart++
		}
		hunks = append(hunks, h)
	}

	for _, c := range changes[1:] {
		if c-last-1 > 2*context {
			flush(min(len(f.Edits)-1, last+context))
			start = c - context
		}
		last = c
	}
	flush(min(len(f.Edits)-1, last+context))

	return hunks
}
