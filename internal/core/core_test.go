package core

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/kilupskalvis/wbg/internal/errs"
	"github.com/kilupskalvis/wbg/internal/models"
	"github.com/kilupskalvis/wbg/internal/worktree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// testClock returns a clock that advances one second per call.
func testClock() func() time.Time {
	t := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestRepo(t *testing.T) (*Repository, *worktree.MemTree) {
	t.Helper()
	t.Setenv("WBG_AUTHOR_NAME", "Test User")
	t.Setenv("WBG_AUTHOR_EMAIL", "test@example.com")

	tree := worktree.NewMemTree()
	repo, err := Init(t.TempDir(), tree, WithClock(testClock()))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo, tree
}

func writeFile(t *testing.T, tree worktree.Tree, path, content string) {
	t.Helper()
	require.NoError(t, tree.Write(path, []byte(content)))
}

func readFile(t *testing.T, tree worktree.Tree, path string) string {
	t.Helper()
	data, err := tree.Read(path)
	require.NoError(t, err)
	return string(data)
}

func fileExists(t *testing.T, tree worktree.Tree, path string) bool {
	t.Helper()
	exists, _, err := tree.Stat(path)
	require.NoError(t, err)
	return exists
}

// commitFiles writes, stages and commits the given files.
func commitFiles(t *testing.T, repo *Repository, message string, files map[string]string) *models.Commit {
	t.Helper()
	ctx := context.Background()
	paths := make([]string, 0, len(files))
	for p, content := range files {
		writeFile(t, repo.Tree, p, content)
		paths = append(paths, p)
	}
	_, err := repo.Add(ctx, AddOptions{Paths: paths})
	require.NoError(t, err)

	commit, err := repo.Commit(ctx, CommitOptions{Message: message})
	require.NoError(t, err)
	return commit
}

func headOf(t *testing.T, repo *Repository) *models.HeadState {
	t.Helper()
	head, err := repo.Refs.GetHead()
	require.NoError(t, err)
	return head
}

func TestInit_UnbornHead(t *testing.T) {
	repo, _ := newTestRepo(t)

	head := headOf(t, repo)
	assert.Equal(t, "main", head.BranchName)
	assert.False(t, head.IsDetached)
	assert.True(t, head.IsUnborn())

	_, err := repo.Refs.ResolveHead()
	assert.ErrorIs(t, err, errs.ErrUnbornHead)

	branches, err := repo.ListBranches(context.Background())
	require.NoError(t, err)
	assert.Empty(t, branches)
}

func TestInit_AlreadyInitialized(t *testing.T) {
	root := t.TempDir()
	repo, err := Init(root, worktree.NewMemTree())
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	_, err = Init(root, worktree.NewMemTree())
	assert.ErrorIs(t, err, errs.ErrAlreadyInitialized)
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nowhere"), worktree.NewMemTree())
	assert.ErrorIs(t, err, errs.ErrNotARepository)
}

func TestOpen_WithLogger(t *testing.T) {
	t.Setenv("WBG_AUTHOR_NAME", "Test User")
	obs, logs := observer.New(zapcore.DebugLevel)
	root := t.TempDir()

	repo, err := Init(root, worktree.NewMemTree(), WithClock(testClock()), WithLogger(zap.New(obs)))
	require.NoError(t, err)
	defer repo.Close()

	commit := commitFiles(t, repo, "first", map[string]string{"a.txt": "hello"})

	created := logs.FilterMessage("commit created").All()
	require.Len(t, created, 1)
	assert.Equal(t, commit.ID, created[0].ContextMap()["id"])
	assert.Equal(t, "main", created[0].ContextMap()["branch"])
}

func TestOpen_PersistsAcrossSessions(t *testing.T) {
	root := t.TempDir()
	tree := worktree.NewMemTree()

	repo, err := Init(root, tree, WithClock(testClock()))
	require.NoError(t, err)
	commit := commitFiles(t, repo, "first", map[string]string{"a.txt": "hello\n"})
	writeFile(t, tree, "b.txt", "pending\n")
	_, err = repo.Add(context.Background(), AddOptions{Paths: []string{"b.txt"}})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := Open(root, tree)
	require.NoError(t, err)
	defer reopened.Close()

	head := headOf(t, reopened)
	assert.Equal(t, commit.ID, head.CommitID)
	assert.Equal(t, "main", head.BranchName)

	staged, err := reopened.Refs.StagedEntries()
	require.NoError(t, err)
	require.Len(t, staged, 1)
	assert.Equal(t, "b.txt", staged[0].Path)
}

func TestResolveRef(t *testing.T) {
	repo, _ := newTestRepo(t)
	c1 := commitFiles(t, repo, "first", map[string]string{"a.txt": "1\n"})
	c2 := commitFiles(t, repo, "second", map[string]string{"a.txt": "2\n"})

	tests := []struct {
		ref        string
		wantID     string
		wantBranch string
	}{
		{"HEAD", c2.ID, ""},
		{"HEAD~0", c2.ID, ""},
		{"HEAD~1", c1.ID, ""},
		{"main", c2.ID, "main"},
		{c1.ID, c1.ID, ""},
		{c1.ID[:5], c1.ID, ""},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			id, branch, err := repo.ResolveRef(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantBranch, branch)
		})
	}
}

func TestResolveRef_Failures(t *testing.T) {
	repo, _ := newTestRepo(t)
	commitFiles(t, repo, "first", map[string]string{"a.txt": "1\n"})

	for _, ref := range []string{"HEAD~1", "HEAD~x", "nope", "ffffffff"} {
		t.Run(ref, func(t *testing.T) {
			_, _, err := repo.ResolveRef(ref)
			assert.ErrorIs(t, err, errs.ErrTargetNotFound)
		})
	}
}
