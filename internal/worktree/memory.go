package worktree

import (
	"io/fs"
	"sort"
	"strings"
	"sync"
)

// MemTree implements Tree in memory. It is primarily used for testing.
//
// MemTree is safe for concurrent use.
type MemTree struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// Ensure MemTree implements Tree.
var _ Tree = (*MemTree)(nil)

// NewMemTree creates an empty in-memory tree.
func NewMemTree() *MemTree {
	return &MemTree{files: make(map[string][]byte)}
}

// List returns every file, sorted.
func (m *MemTree) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]string, 0, len(m.files))
	for p := range m.files {
		if !InMetaDir(p) {
			files = append(files, p)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Glob matches pattern against every file.
func (m *MemTree) Glob(pattern string) ([]string, error) {
	files, _ := m.List()
	return globFiles(files, pattern)
}

// Read returns a copy of a file's content.
func (m *MemTree) Read(p string) ([]byte, error) {
	clean, err := Clean(p)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.files[clean]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: clean, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}

// Write stores a copy of content at p.
func (m *MemTree) Write(p string, content []byte) error {
	clean, err := Clean(p)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	buf := make([]byte, len(content))
	copy(buf, content)
	m.files[clean] = buf
	return nil
}

// Remove deletes p. Directories are implicit, so nothing else is pruned.
func (m *MemTree) Remove(p string) error {
	clean, err := Clean(p)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, clean)
	return nil
}

// Stat reports whether p is a file or a directory holding files.
func (m *MemTree) Stat(p string) (bool, bool, error) {
	clean, err := Clean(p)
	if err != nil {
		return false, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.files[clean]; ok {
		return true, false, nil
	}
	if clean == "." {
		return true, true, nil
	}
	prefix := clean + "/"
	for f := range m.files {
		if strings.HasPrefix(f, prefix) {
			return true, true, nil
		}
	}
	return false, false, nil
}
