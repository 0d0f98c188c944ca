// Package ignore decides which working-tree paths are excluded from
// implicit scans. It reads gitignore-style rules:
//   - *.log       - match files ending in .log at any depth
//   - /build      - match build at the root only
//   - logs/       - match a directory named logs
//   - docs/**/*.md - ** spans any number of directories
//   - !keep.log   - negate (don't ignore) keep.log
//
// Later rules override earlier ones.
package ignore

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/kilupskalvis/wbg/internal/worktree"
)

// FileName is the per-repository ignore file at the tree root.
const FileName = ".wbgignore"

// DefaultPatterns are always in effect, ahead of the ignore file.
var DefaultPatterns = []string{
	worktree.MetaDir + "/",
	"*.swp",
	"*.swo",
	"*~",
	".DS_Store",
	"Thumbs.db",
}

type pattern struct {
	original string
	pattern  string
	negation bool
	dirOnly  bool
	rooted   bool
}

// Matcher holds an ordered list of ignore rules.
type Matcher struct {
	patterns []pattern
}

// New creates a matcher with no rules.
func New() *Matcher {
	return &Matcher{}
}

// NewDefault creates a matcher holding DefaultPatterns.
func NewDefault() *Matcher {
	m := New()
	m.AddPatterns(DefaultPatterns)
	return m
}

// Load builds a matcher from DefaultPatterns plus the tree's ignore file,
// if it has one.
func Load(tree worktree.Tree) (*Matcher, error) {
	m := NewDefault()
	data, err := tree.Read(FileName)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", FileName, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		m.AddPattern(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}
	return m, nil
}

// AddPattern appends one rule. Blank lines and # comments are skipped.
func (m *Matcher) AddPattern(line string) {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	p := pattern{original: line}
	if strings.HasPrefix(line, "!") {
		p.negation = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.rooted = true
		line = line[1:]
	}
	// a slash inside the pattern anchors it like gitignore does
	if strings.Contains(line, "/") && !strings.HasPrefix(line, "**/") {
		p.rooted = true
	}
	if line == "" {
		return
	}

	p.pattern = line
	m.patterns = append(m.patterns, p)
}

// AddPatterns appends several rules.
func (m *Matcher) AddPatterns(lines []string) {
	for _, l := range lines {
		m.AddPattern(l)
	}
}

// Patterns returns the rules in their original form.
func (m *Matcher) Patterns() []string {
	out := make([]string, len(m.patterns))
	for i, p := range m.patterns {
		out[i] = p.original
	}
	return out
}

// Ignored reports whether path is excluded. A path is also excluded when
// any of its parent directories is.
func (m *Matcher) Ignored(p string, isDir bool) bool {
	p = strings.TrimSuffix(p, "/")
	for dir := path.Dir(p); dir != "."; dir = path.Dir(dir) {
		if m.match(dir, true) {
			return true
		}
	}
	return m.match(p, isDir)
}

// match applies every rule to p alone; the last matching rule decides.
func (m *Matcher) match(p string, isDir bool) bool {
	ignored := false
	for _, pat := range m.patterns {
		if pat.dirOnly && !isDir {
			continue
		}
		if pat.matches(p) {
			ignored = !pat.negation
		}
	}
	return ignored
}

func (p pattern) matches(rel string) bool {
	if p.rooted {
		return worktree.MatchGlob(p.pattern, rel)
	}
	if !strings.Contains(p.pattern, "/") {
		ok, _ := path.Match(p.pattern, path.Base(rel))
		return ok
	}
	// leading **/ matches at any depth
	return worktree.MatchGlob(p.pattern, rel)
}
