package core

import (
	"context"
	"testing"

	"github.com/kilupskalvis/wbg/internal/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_CleanAfterCommit(t *testing.T) {
	repo, _ := newTestRepo(t)
	commitFiles(t, repo, "first", map[string]string{"a.txt": "hello"})

	status, err := repo.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Clean())
	assert.Empty(t, status.Entries)
	assert.Equal(t, "main", status.Head.BranchName)
}

func TestStatus_UnbornWithUntracked(t *testing.T) {
	repo, tree := newTestRepo(t)
	writeFile(t, tree, "a.txt", "a")
	writeFile(t, tree, "b.swp", "swap")

	status, err := repo.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Head.IsUnborn())
	assert.Equal(t, []string{"a.txt"}, status.Untracked)
	require.Len(t, status.Entries, 1)
	assert.True(t, status.Entries[0].Untracked)
}

func TestStatus_ThreeWay(t *testing.T) {
	repo, tree := newTestRepo(t)
	ctx := context.Background()
	commitFiles(t, repo, "first", map[string]string{
		"staged.txt":   "v1",
		"both.txt":     "v1",
		"unstaged.txt": "v1",
		"gone.txt":     "v1",
	})

	writeFile(t, tree, "staged.txt", "v2")
	writeFile(t, tree, "both.txt", "v2")
	writeFile(t, tree, "new.txt", "n")
	_, err := repo.Add(ctx, AddOptions{Paths: []string{"staged.txt", "both.txt", "new.txt"}})
	require.NoError(t, err)

	writeFile(t, tree, "both.txt", "v3")
	writeFile(t, tree, "unstaged.txt", "v2")
	require.NoError(t, tree.Remove("gone.txt"))
	writeFile(t, tree, "loose.txt", "l")

	status, err := repo.Status(ctx)
	require.NoError(t, err)

	want := []StatusEntry{
		{Path: "both.txt", Index: diff.Modified, Work: diff.Modified},
		{Path: "gone.txt", Work: diff.Deleted},
		{Path: "loose.txt", Untracked: true},
		{Path: "new.txt", Index: diff.Added},
		{Path: "staged.txt", Index: diff.Modified},
		{Path: "unstaged.txt", Work: diff.Modified},
	}
	assert.Equal(t, want, status.Entries)
	assert.Equal(t, []string{"loose.txt"}, status.Untracked)
	assert.False(t, status.Clean())
}

func TestStatus_StagedDeletion(t *testing.T) {
	repo, tree := newTestRepo(t)
	ctx := context.Background()
	commitFiles(t, repo, "first", map[string]string{"a.txt": "a"})

	require.NoError(t, tree.Remove("a.txt"))
	_, err := repo.Add(ctx, AddOptions{Paths: []string{"a.txt"}})
	require.NoError(t, err)

	status, err := repo.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status.Staged, 1)
	assert.Equal(t, diff.Deleted, status.Staged[0].Status)
	assert.Empty(t, status.Unstaged)
}

func TestStatus_DoesNotMutate(t *testing.T) {
	repo, tree := newTestRepo(t)
	ctx := context.Background()
	writeFile(t, tree, "a.txt", "a")
	_, err := repo.Add(ctx, AddOptions{Paths: []string{"a.txt"}})
	require.NoError(t, err)

	before := stagedPaths(t, repo)
	_, err = repo.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, stagedPaths(t, repo))
}
