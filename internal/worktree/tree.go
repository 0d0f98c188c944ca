// Package worktree abstracts the working directory a repository tracks.
//
// The Tree interface lets the repository logic run against the real file
// system (OSTree) or an in-memory fake (MemTree) in tests. All paths are
// slash-separated and relative to the tree root.
package worktree

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// MetaDir is the repository metadata directory, never listed as content.
const MetaDir = ".wbg"

// ErrMetaDir is returned for file operations on paths inside MetaDir.
var ErrMetaDir = errors.New("path is inside the repository metadata directory")

// Tree is the set of file operations the repository needs.
type Tree interface {
	// List returns every regular file under the root, sorted, excluding MetaDir.
	List() ([]string, error)

	// Glob returns the files matching pattern, sorted.
	// Supports *, ?, [...] within a segment and ** across segments.
	Glob(pattern string) ([]string, error)

	// Read returns a file's content. Missing files yield an fs.ErrNotExist error.
	Read(path string) ([]byte, error)

	// Write creates or replaces a file, creating parent directories.
	Write(path string, content []byte) error

	// Remove deletes a file and prunes parent directories left empty.
	Remove(path string) error

	// Stat reports whether path exists and whether it is a directory.
	Stat(path string) (exists bool, isDir bool, err error)
}

// Clean normalizes a root-relative path and rejects paths that leave the root.
func Clean(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	if strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("path %q is absolute", p)
	}
	p = path.Clean(p)
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("path %q is outside the repository", p)
	}
	return p, nil
}

// IsGlob reports whether pattern contains glob metacharacters.
func IsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// InMetaDir reports whether p is the metadata directory or inside it.
func InMetaDir(p string) bool {
	return p == MetaDir || strings.HasPrefix(p, MetaDir+"/")
}

// MatchGlob matches a slash path against a pattern segment by segment.
// A "**" segment matches zero or more whole segments.
func MatchGlob(pattern, name string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(pat, parts []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			rest := pat[1:]
			for i := 0; i <= len(parts); i++ {
				if matchSegments(rest, parts[i:]) {
					return true
				}
			}
			return false
		}
		if len(parts) == 0 {
			return false
		}
		ok, err := path.Match(pat[0], parts[0])
		if err != nil || !ok {
			return false
		}
		pat, parts = pat[1:], parts[1:]
	}
	return len(parts) == 0
}

// globFiles filters files by pattern.
func globFiles(files []string, pattern string) ([]string, error) {
	if _, err := path.Match(strings.ReplaceAll(pattern, "**", "*"), ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	var out []string
	for _, f := range files {
		if MatchGlob(pattern, f) {
			out = append(out, f)
		}
	}
	return out, nil
}
