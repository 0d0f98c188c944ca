package core

import (
	"context"
	"testing"

	"github.com/kilupskalvis/wbg/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckout_Branch(t *testing.T) {
	repo, tree := newTestRepo(t)
	ctx := context.Background()
	c1 := commitFiles(t, repo, "first", map[string]string{"a.txt": "1", "old.txt": "o"})
	_, err := repo.CreateBranch(ctx, "feature", "")
	require.NoError(t, err)

	require.NoError(t, tree.Remove("old.txt"))
	_, err = repo.Add(ctx, AddOptions{All: true})
	require.NoError(t, err)
	commitFiles(t, repo, "second", map[string]string{"a.txt": "2", "b.txt": "b"})

	result, err := repo.Checkout(ctx, "feature", CheckoutOptions{})
	require.NoError(t, err)
	assert.Equal(t, c1.ID, result.TargetCommit)
	assert.Equal(t, "feature", result.BranchName)
	assert.False(t, result.IsDetached)
	assert.Equal(t, 1, result.FilesRemoved)

	assert.Equal(t, "1", readFile(t, tree, "a.txt"))
	assert.Equal(t, "o", readFile(t, tree, "old.txt"))
	assert.False(t, fileExists(t, tree, "b.txt"))

	head := headOf(t, repo)
	assert.Equal(t, "feature", head.BranchName)
	assert.Equal(t, c1.ID, head.CommitID)
}

func TestCheckout_CommitDetaches(t *testing.T) {
	repo, tree := newTestRepo(t)
	ctx := context.Background()
	c1 := commitFiles(t, repo, "first", map[string]string{"a.txt": "1"})
	commitFiles(t, repo, "second", map[string]string{"a.txt": "2"})

	result, err := repo.Checkout(ctx, c1.ID[:6], CheckoutOptions{})
	require.NoError(t, err)
	assert.True(t, result.IsDetached)

	head := headOf(t, repo)
	assert.True(t, head.IsDetached)
	assert.Equal(t, c1.ID, head.CommitID)
	assert.Equal(t, "1", readFile(t, tree, "a.txt"))
}

func TestCheckout_TargetNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	commitFiles(t, repo, "first", map[string]string{"a.txt": "1"})

	_, err := repo.Checkout(context.Background(), "nope", CheckoutOptions{})
	assert.ErrorIs(t, err, errs.ErrTargetNotFound)
}

func TestCheckout_StagedChangesBlock(t *testing.T) {
	repo, tree := newTestRepo(t)
	ctx := context.Background()
	commitFiles(t, repo, "first", map[string]string{"a.txt": "1"})
	_, err := repo.CreateBranch(ctx, "feature", "")
	require.NoError(t, err)
	commitFiles(t, repo, "second", map[string]string{"a.txt": "2"})

	writeFile(t, tree, "a.txt", "staged")
	_, err = repo.Add(ctx, AddOptions{Paths: []string{"a.txt"}})
	require.NoError(t, err)

	_, err = repo.Checkout(ctx, "feature", CheckoutOptions{})
	assert.ErrorIs(t, err, errs.ErrUncommittedChanges)

	assert.Equal(t, "staged", readFile(t, tree, "a.txt"))
	assert.Equal(t, "main", headOf(t, repo).BranchName)
	assert.Len(t, stagedPaths(t, repo), 1)
}

func TestCheckout_UnstagedChangesBlock(t *testing.T) {
	repo, tree := newTestRepo(t)
	ctx := context.Background()
	commitFiles(t, repo, "first", map[string]string{"a.txt": "1"})
	_, err := repo.CreateBranch(ctx, "feature", "")
	require.NoError(t, err)

	writeFile(t, tree, "a.txt", "dirty")
	_, err = repo.Checkout(ctx, "feature", CheckoutOptions{})
	assert.ErrorIs(t, err, errs.ErrUncommittedChanges)
	assert.Equal(t, "dirty", readFile(t, tree, "a.txt"))
}

func TestCheckout_UntrackedFilesDoNotBlock(t *testing.T) {
	repo, tree := newTestRepo(t)
	ctx := context.Background()
	commitFiles(t, repo, "first", map[string]string{"a.txt": "1"})
	_, err := repo.CreateBranch(ctx, "feature", "")
	require.NoError(t, err)

	writeFile(t, tree, "scratch.txt", "keep me")
	_, err = repo.Checkout(ctx, "feature", CheckoutOptions{})
	require.NoError(t, err)
	assert.Equal(t, "keep me", readFile(t, tree, "scratch.txt"))
}

func TestCheckout_UntrackedFileInTargetBlocks(t *testing.T) {
	repo, tree := newTestRepo(t)
	ctx := context.Background()
	commitFiles(t, repo, "first", map[string]string{"a.txt": "1"})
	_, err := repo.Checkout(ctx, "feature", CheckoutOptions{Create: true})
	require.NoError(t, err)
	commitFiles(t, repo, "add x", map[string]string{"x.txt": "committed"})

	_, err = repo.Checkout(ctx, "main", CheckoutOptions{})
	require.NoError(t, err)
	require.False(t, fileExists(t, tree, "x.txt"))

	writeFile(t, tree, "x.txt", "precious untracked work")
	_, err = repo.Checkout(ctx, "feature", CheckoutOptions{})
	assert.ErrorIs(t, err, errs.ErrUncommittedChanges)
	assert.Equal(t, "precious untracked work", readFile(t, tree, "x.txt"))
	assert.Equal(t, "main", headOf(t, repo).BranchName)

	// identical content is not a conflict
	writeFile(t, tree, "x.txt", "committed")
	_, err = repo.Checkout(ctx, "feature", CheckoutOptions{})
	require.NoError(t, err)
	assert.Equal(t, "feature", headOf(t, repo).BranchName)
}

func TestCheckout_ForceOverwritesUntrackedFile(t *testing.T) {
	repo, tree := newTestRepo(t)
	ctx := context.Background()
	commitFiles(t, repo, "first", map[string]string{"a.txt": "1"})
	_, err := repo.Checkout(ctx, "feature", CheckoutOptions{Create: true})
	require.NoError(t, err)
	commitFiles(t, repo, "add x", map[string]string{"x.txt": "committed"})
	_, err = repo.Checkout(ctx, "main", CheckoutOptions{})
	require.NoError(t, err)

	writeFile(t, tree, "x.txt", "scratch")
	_, err = repo.Checkout(ctx, "feature", CheckoutOptions{Force: true})
	require.NoError(t, err)
	assert.Equal(t, "committed", readFile(t, tree, "x.txt"))
}

func TestCheckout_ForceDiscards(t *testing.T) {
	repo, tree := newTestRepo(t)
	ctx := context.Background()
	commitFiles(t, repo, "first", map[string]string{"a.txt": "1"})
	_, err := repo.CreateBranch(ctx, "feature", "")
	require.NoError(t, err)

	writeFile(t, tree, "a.txt", "dirty")
	writeFile(t, tree, "new.txt", "staged new")
	_, err = repo.Add(ctx, AddOptions{Paths: []string{"new.txt"}})
	require.NoError(t, err)

	_, err = repo.Checkout(ctx, "feature", CheckoutOptions{Force: true})
	require.NoError(t, err)
	assert.Equal(t, "1", readFile(t, tree, "a.txt"))
	assert.False(t, fileExists(t, tree, "new.txt"))
	assert.Empty(t, stagedPaths(t, repo))
}

func TestCheckout_CreateBranch(t *testing.T) {
	repo, tree := newTestRepo(t)
	ctx := context.Background()
	c1 := commitFiles(t, repo, "first", map[string]string{"a.txt": "1"})

	writeFile(t, tree, "a.txt", "work in progress")
	result, err := repo.Checkout(ctx, "feature", CheckoutOptions{Create: true})
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, c1.ID, result.TargetCommit)

	head := headOf(t, repo)
	assert.Equal(t, "feature", head.BranchName)
	assert.Equal(t, c1.ID, head.CommitID)
	assert.Equal(t, "work in progress", readFile(t, tree, "a.txt"))
}

func TestCheckout_CreateBranchFailures(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Checkout(ctx, "feature", CheckoutOptions{Create: true})
	assert.ErrorIs(t, err, errs.ErrNoCommits)

	commitFiles(t, repo, "first", map[string]string{"a.txt": "1"})
	_, err = repo.Checkout(ctx, "main", CheckoutOptions{Create: true})
	assert.ErrorIs(t, err, errs.ErrBranchExists)

	_, err = repo.Checkout(ctx, "bad name", CheckoutOptions{Create: true})
	assert.ErrorIs(t, err, errs.ErrInvalidName)
}
