package core

import (
	"context"
	"testing"

	"github.com/kilupskalvis/wbg/internal/errs"
	"github.com/kilupskalvis/wbg/internal/models"
	"github.com/kilupskalvis/wbg/internal/worktree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stagedPaths(t *testing.T, repo *Repository) map[string]*models.StagedEntry {
	t.Helper()
	entries, err := repo.Refs.StagedEntries()
	require.NoError(t, err)
	out := make(map[string]*models.StagedEntry, len(entries))
	for _, e := range entries {
		out[e.Path] = e
	}
	return out
}

func TestAdd_LiteralPath(t *testing.T) {
	repo, tree := newTestRepo(t)
	writeFile(t, tree, "a.txt", "hello")

	result, err := repo.Add(context.Background(), AddOptions{Paths: []string{"a.txt"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, result.Staged)

	staged := stagedPaths(t, repo)
	require.Contains(t, staged, "a.txt")
	assert.Equal(t, "hello", string(staged["a.txt"].Content))
}

func TestAdd_LastWriteWins(t *testing.T) {
	repo, tree := newTestRepo(t)
	ctx := context.Background()

	writeFile(t, tree, "a.txt", "X")
	_, err := repo.Add(ctx, AddOptions{Paths: []string{"a.txt"}})
	require.NoError(t, err)

	writeFile(t, tree, "a.txt", "Y")
	_, err = repo.Add(ctx, AddOptions{Paths: []string{"a.txt"}})
	require.NoError(t, err)

	staged := stagedPaths(t, repo)
	require.Len(t, staged, 1)
	assert.Equal(t, "Y", string(staged["a.txt"].Content))

	count, err := repo.Refs.StagedCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAdd_MissingLiteralPath(t *testing.T) {
	repo, tree := newTestRepo(t)
	writeFile(t, tree, "a.txt", "hello")

	_, err := repo.Add(context.Background(), AddOptions{Paths: []string{"a.txt", "missing.txt"}})
	assert.ErrorIs(t, err, errs.ErrNoMatchingFiles)

	// nothing is staged when any path fails
	assert.Empty(t, stagedPaths(t, repo))
}

func TestAdd_GlobWithoutMatches(t *testing.T) {
	repo, tree := newTestRepo(t)
	writeFile(t, tree, "a.txt", "hello")

	_, err := repo.Add(context.Background(), AddOptions{Paths: []string{"*.go"}})
	assert.ErrorIs(t, err, errs.ErrNoMatchingFiles)
}

func TestAdd_GlobSkipsIgnored(t *testing.T) {
	repo, tree := newTestRepo(t)
	writeFile(t, tree, ".wbgignore", "secret.txt\n")
	writeFile(t, tree, "a.txt", "a")
	writeFile(t, tree, "b.txt", "b")
	writeFile(t, tree, "secret.txt", "s")

	result, err := repo.Add(context.Background(), AddOptions{Paths: []string{"*.txt"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, result.Staged)
	assert.Equal(t, 1, result.Ignored)
}

func TestAdd_LiteralPathBypassesIgnore(t *testing.T) {
	repo, tree := newTestRepo(t)
	writeFile(t, tree, ".wbgignore", "*.log\n")
	writeFile(t, tree, "debug.log", "trace")

	result, err := repo.Add(context.Background(), AddOptions{Paths: []string{"debug.log"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"debug.log"}, result.Staged)
}

func TestAdd_DoubleStarGlob(t *testing.T) {
	repo, tree := newTestRepo(t)
	writeFile(t, tree, "main.go", "package main")
	writeFile(t, tree, "pkg/a/a.go", "package a")
	writeFile(t, tree, "pkg/a/a.txt", "notes")

	result, err := repo.Add(context.Background(), AddOptions{Paths: []string{"**/*.go"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "pkg/a/a.go"}, result.Staged)
}

func TestAdd_Directory(t *testing.T) {
	repo, tree := newTestRepo(t)
	writeFile(t, tree, "src/a.go", "a")
	writeFile(t, tree, "src/sub/b.go", "b")
	writeFile(t, tree, "src/.DS_Store", "junk")
	writeFile(t, tree, "other.txt", "o")

	result, err := repo.Add(context.Background(), AddOptions{Paths: []string{"src"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.go", "src/sub/b.go"}, result.Staged)
	assert.Equal(t, 1, result.Ignored)
}

func TestAdd_DotStagesEverything(t *testing.T) {
	repo, tree := newTestRepo(t)
	writeFile(t, tree, "a.txt", "a")
	writeFile(t, tree, "dir/b.txt", "b")

	result, err := repo.Add(context.Background(), AddOptions{Paths: []string{"."}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "dir/b.txt"}, result.Staged)
}

func TestAdd_TrackedDeletion(t *testing.T) {
	repo, tree := newTestRepo(t)
	commitFiles(t, repo, "first", map[string]string{"a.txt": "hello"})
	require.NoError(t, tree.Remove("a.txt"))

	result, err := repo.Add(context.Background(), AddOptions{Paths: []string{"a.txt"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, result.Deleted)

	staged := stagedPaths(t, repo)
	require.Contains(t, staged, "a.txt")
	assert.True(t, staged["a.txt"].Deleted)
}

func TestAdd_DeletedDirectory(t *testing.T) {
	repo, tree := newTestRepo(t)
	commitFiles(t, repo, "first", map[string]string{"dir/a.txt": "a", "dir/b.txt": "b"})
	require.NoError(t, tree.Remove("dir/a.txt"))
	require.NoError(t, tree.Remove("dir/b.txt"))

	result, err := repo.Add(context.Background(), AddOptions{Paths: []string{"dir"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/a.txt", "dir/b.txt"}, result.Deleted)
}

func TestAdd_ContentMatchingHeadIsNotStaged(t *testing.T) {
	repo, tree := newTestRepo(t)
	ctx := context.Background()
	commitFiles(t, repo, "first", map[string]string{"a.txt": "v1"})

	writeFile(t, tree, "a.txt", "v2")
	_, err := repo.Add(ctx, AddOptions{Paths: []string{"a.txt"}})
	require.NoError(t, err)
	require.Len(t, stagedPaths(t, repo), 1)

	writeFile(t, tree, "a.txt", "v1")
	result, err := repo.Add(ctx, AddOptions{Paths: []string{"a.txt"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, result.Restored)
	assert.Empty(t, stagedPaths(t, repo))
}

func TestAdd_AllStagesTrackedOnly(t *testing.T) {
	repo, tree := newTestRepo(t)
	commitFiles(t, repo, "first", map[string]string{"a.txt": "a", "b.txt": "b", "c.txt": "c"})

	writeFile(t, tree, "a.txt", "a2")
	require.NoError(t, tree.Remove("b.txt"))
	writeFile(t, tree, "new.txt", "untracked")

	result, err := repo.Add(context.Background(), AddOptions{All: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, result.Staged)
	assert.Equal(t, []string{"b.txt"}, result.Deleted)

	staged := stagedPaths(t, repo)
	assert.Len(t, staged, 2)
	assert.NotContains(t, staged, "new.txt")
	assert.NotContains(t, staged, "c.txt")
}

func TestUnstage(t *testing.T) {
	repo, tree := newTestRepo(t)
	ctx := context.Background()
	writeFile(t, tree, "a.txt", "a")
	writeFile(t, tree, "docs/x.md", "x")
	writeFile(t, tree, "docs/y.md", "y")
	_, err := repo.Add(ctx, AddOptions{Paths: []string{"."}})
	require.NoError(t, err)

	removed, err := repo.Unstage(ctx, []string{"docs", "not-staged.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/x.md", "docs/y.md"}, removed)

	staged := stagedPaths(t, repo)
	assert.Len(t, staged, 1)
	assert.Contains(t, staged, "a.txt")

	// the working tree is untouched
	assert.Equal(t, "x", readFile(t, tree, "docs/x.md"))
}

func TestUnstage_Glob(t *testing.T) {
	repo, tree := newTestRepo(t)
	ctx := context.Background()
	writeFile(t, tree, "a.txt", "a")
	writeFile(t, tree, "b.md", "b")
	_, err := repo.Add(ctx, AddOptions{Paths: []string{"."}})
	require.NoError(t, err)

	removed, err := repo.Unstage(ctx, []string{"*.md"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.md"}, removed)
}

func TestAdd_MetadataPathsRejected(t *testing.T) {
	t.Setenv("WBG_AUTHOR_NAME", "Test User")
	t.Setenv("WBG_AUTHOR_EMAIL", "test@example.com")
	root := t.TempDir()
	tree := worktree.NewOSTree(root)
	repo, err := Init(root, tree, WithClock(testClock()))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	ctx := context.Background()
	writeFile(t, tree, "a.txt", "hello")

	for _, p := range []string{".wbg/config", ".wbg/refs.db", ".wbg", ".wbg/*", "sub/../.wbg/objects.db"} {
		_, err := repo.Add(ctx, AddOptions{Paths: []string{"a.txt", p}})
		assert.ErrorIs(t, err, errs.ErrNoMatchingFiles, p)
	}
	assert.Empty(t, stagedPaths(t, repo))

	_, err = repo.Add(ctx, AddOptions{Paths: []string{"."}})
	require.NoError(t, err)
	commit, err := repo.Commit(ctx, CommitOptions{Message: "first"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, commit.Files)

	_, err = repo.Unstage(ctx, []string{".wbg/config"})
	assert.ErrorIs(t, err, errs.ErrNoMatchingFiles)
}
