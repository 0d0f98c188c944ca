package worktree

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// OSTree is a Tree backed by a directory on disk.
type OSTree struct {
	root string
}

// Ensure OSTree implements Tree.
var _ Tree = (*OSTree)(nil)

// NewOSTree returns a tree rooted at root.
func NewOSTree(root string) *OSTree {
	return &OSTree{root: root}
}

// Root returns the tree's root directory.
func (t *OSTree) Root() string {
	return t.root
}

func (t *OSTree) abs(p string) (string, error) {
	clean, err := Clean(p)
	if err != nil {
		return "", err
	}
	if InMetaDir(clean) {
		return "", &fs.PathError{Op: "open", Path: clean, Err: ErrMetaDir}
	}
	return filepath.Join(t.root, filepath.FromSlash(clean)), nil
}

// List walks the root and returns every regular file.
func (t *OSTree) List() ([]string, error) {
	var files []string
	err := filepath.WalkDir(t.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(t.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if InMetaDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk working tree: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// Glob matches pattern against every listed file.
func (t *OSTree) Glob(pattern string) ([]string, error) {
	files, err := t.List()
	if err != nil {
		return nil, err
	}
	return globFiles(files, pattern)
}

// Read returns a file's content.
func (t *OSTree) Read(p string) ([]byte, error) {
	full, err := t.abs(p)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// Write creates or replaces a file.
func (t *OSTree) Write(p string, content []byte) error {
	full, err := t.abs(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("create parent of %s: %w", p, err)
	}
	return os.WriteFile(full, content, 0644)
}

// Remove deletes a file and any parent directories it leaves empty.
func (t *OSTree) Remove(p string) error {
	full, err := t.abs(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}

	clean, _ := Clean(p)
	for dir := path.Dir(clean); dir != "." && dir != "/"; dir = path.Dir(dir) {
		entries, err := os.ReadDir(filepath.Join(t.root, filepath.FromSlash(dir)))
		if err != nil || len(entries) > 0 {
			break
		}
		if err := os.Remove(filepath.Join(t.root, filepath.FromSlash(dir))); err != nil {
			break
		}
	}
	return nil
}

// Stat reports whether p exists and whether it is a directory.
func (t *OSTree) Stat(p string) (bool, bool, error) {
	full, err := t.abs(p)
	if err != nil {
		return false, false, err
	}
	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, info.IsDir(), nil
}
