package worktree

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	p, err := Clean("./a/../b/c.txt")
	require.NoError(t, err)
	assert.Equal(t, "b/c.txt", p)

	_, err = Clean("../escape")
	assert.Error(t, err)
	_, err = Clean("/etc/passwd")
	assert.Error(t, err)
}

func TestMatchGlob(t *testing.T) {
	cases := []struct {
		pattern, name string
		want          bool
	}{
		{"*.txt", "a.txt", true},
		{"*.txt", "dir/a.txt", false},
		{"dir/*.txt", "dir/a.txt", true},
		{"**/*.txt", "a.txt", true},
		{"**/*.txt", "x/y/a.txt", true},
		{"src/**", "src/a/b.go", true},
		{"src/**/b.go", "src/b.go", true},
		{"?.go", "ab.go", false},
		{"[ab].go", "b.go", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MatchGlob(tc.pattern, tc.name), "%s ~ %s", tc.pattern, tc.name)
	}
}

func TestIsGlob(t *testing.T) {
	assert.True(t, IsGlob("*.go"))
	assert.True(t, IsGlob("file?.txt"))
	assert.False(t, IsGlob("plain/path.txt"))
}

// runTreeContract exercises the behavior every Tree must share.
func runTreeContract(t *testing.T, tree Tree) {
	require.NoError(t, tree.Write("b.txt", []byte("b")))
	require.NoError(t, tree.Write("dir/sub/c.txt", []byte("c")))
	require.NoError(t, tree.Write("a.md", []byte("a")))
	require.NoError(t, tree.Write(".wbg/config", []byte("meta")))

	files, err := tree.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.txt", "dir/sub/c.txt"}, files)

	matches, err := tree.Glob("**/*.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt", "dir/sub/c.txt"}, matches)

	content, err := tree.Read("dir/sub/c.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), content)

	_, err = tree.Read("missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	exists, isDir, err := tree.Stat("dir")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.True(t, isDir)

	require.NoError(t, tree.Remove("dir/sub/c.txt"))
	exists, _, err = tree.Stat("dir")
	require.NoError(t, err)
	assert.False(t, exists, "empty parents are pruned")

	require.NoError(t, tree.Remove("never-existed"))
}

func TestMemTree_Contract(t *testing.T) {
	runTreeContract(t, NewMemTree())
}

func TestOSTree_Contract(t *testing.T) {
	runTreeContract(t, NewOSTree(t.TempDir()))
}

func TestOSTree_SkipsMetaDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".wbg"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".wbg", "refs.db"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.txt"), []byte("x"), 0644))

	files, err := NewOSTree(root).List()
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.txt"}, files)
}

func TestOSTree_RefusesMetaDirPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".wbg"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".wbg", "refs.db"), []byte("live"), 0644))
	tree := NewOSTree(root)

	_, err := tree.Read(".wbg/refs.db")
	assert.ErrorIs(t, err, ErrMetaDir)
	assert.ErrorIs(t, tree.Write(".wbg/refs.db", []byte("old")), ErrMetaDir)
	assert.ErrorIs(t, tree.Write("sub/../.wbg/refs.db", []byte("old")), ErrMetaDir)
	assert.ErrorIs(t, tree.Remove(".wbg/refs.db"), ErrMetaDir)

	data, err := os.ReadFile(filepath.Join(root, ".wbg", "refs.db"))
	require.NoError(t, err)
	assert.Equal(t, "live", string(data))
}

func TestMemTree_ReadReturnsCopy(t *testing.T) {
	tree := NewMemTree()
	require.NoError(t, tree.Write("f", []byte("abc")))

	content, err := tree.Read("f")
	require.NoError(t, err)
	content[0] = 'X'

	again, err := tree.Read("f")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
