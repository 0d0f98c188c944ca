// Package diff computes line-level differences between file snapshots.
// Output is plain data; color and layout belong to the caller.
package diff

import (
	"bytes"
	"fmt"
)

// LineType indicates whether a line was added, removed, or is context
type LineType int

const (
	Context LineType = iota
	Addition
	Deletion
)

func (t LineType) String() string {
	switch t {
	case Addition:
		return "add"
	case Deletion:
		return "remove"
	default:
		return "context"
	}
}

// Edit is one step of an edit script. Text keeps its line terminator.
// OldNum and NewNum are 1-based and zero when the line is absent on that side.
type Edit struct {
	Type   LineType
	Text   string
	OldNum int
	NewNum int
}

// binarySniffLen is how many leading bytes IsBinary inspects.
const binarySniffLen = 8000

// IsBinary reports whether content has a NUL byte in its first 8000 bytes.
func IsBinary(content []byte) bool {
	if len(content) > binarySniffLen {
		content = content[:binarySniffLen]
	}
	return bytes.IndexByte(content, 0) >= 0
}

// SplitLines splits content into lines, each keeping its "\n". The last line
// has no terminator when the content does not end in one. Joining the result
// reproduces content exactly.
func SplitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	lines := make([]string, 0, bytes.Count(content, []byte{'\n'})+1)
	for len(content) > 0 {
		i := bytes.IndexByte(content, '\n')
		if i < 0 {
			lines = append(lines, string(content))
			break
		}
		lines = append(lines, string(content[:i+1]))
		content = content[i+1:]
	}
	return lines
}

// maxTableCells bounds the LCS table Lines allocates, 64 MiB of int32.
var maxTableCells int64 = 16 << 20

func commonPrefix(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// Fits reports whether Lines can align a and b within its table budget.
func Fits(a, b []string) bool {
	p := commonPrefix(a, b)
	return int64(len(a)-p+1)*int64(len(b)-p+1) <= maxTableCells
}

// Lines aligns a and b on a longest common subsequence and returns the edit
// script turning a into b. Among equally long alignments the earliest match
// is taken, and a removal is emitted before an addition when either would do,
// so the output is fully determined by the input.
func Lines(a, b []string) []Edit {
	// a shared prefix is always part of the earliest alignment
	prefix := commonPrefix(a, b)

	edits := make([]Edit, 0, len(a)+len(b)-prefix)
	for k := 0; k < prefix; k++ {
		edits = append(edits, Edit{Type: Context, Text: a[k], OldNum: k + 1, NewNum: k + 1})
	}

	ra, rb := a[prefix:], b[prefix:]
	n, m := len(ra), len(rb)
	width := m + 1

	// table[i*width+j] is the LCS length of ra[i:] and rb[j:]
	table := make([]int32, (n+1)*width)
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if ra[i] == rb[j] {
				table[i*width+j] = table[(i+1)*width+j+1] + 1
			} else {
				down := table[(i+1)*width+j]
				right := table[i*width+j+1]
				if down >= right {
					table[i*width+j] = down
				} else {
					table[i*width+j] = right
				}
			}
		}
	}

	i, j := 0, 0
	for i < n || j < m {
		oldNum, newNum := prefix+i+1, prefix+j+1
		switch {
		case i < n && j < m && ra[i] == rb[j] && table[i*width+j] == table[(i+1)*width+j+1]+1:
			edits = append(edits, Edit{Type: Context, Text: ra[i], OldNum: oldNum, NewNum: newNum})
			i++
			j++
		case i < n && (j == m || table[(i+1)*width+j] >= table[i*width+j+1]):
			edits = append(edits, Edit{Type: Deletion, Text: ra[i], OldNum: oldNum})
			i++
		default:
			edits = append(edits, Edit{Type: Addition, Text: rb[j], NewNum: newNum})
			j++
		}
	}

	return edits
}

// Apply replays edits against old and returns the resulting lines.
// It fails if the script does not describe old.
func Apply(old []string, edits []Edit) ([]string, error) {
	out := make([]string, 0, len(old))
	i := 0
	for k, e := range edits {
		switch e.Type {
		case Addition:
			out = append(out, e.Text)
		case Context, Deletion:
			if i >= len(old) || old[i] != e.Text {
				return nil, fmt.Errorf("edit %d does not match line %d", k, i+1)
			}
			if e.Type == Context {
				out = append(out, e.Text)
			}
			i++
		}
	}
	if i != len(old) {
		return nil, fmt.Errorf("edit script consumed %d of %d lines", i, len(old))
	}
	return out, nil
}
