// Package core implements the repository state machine for wbg: staging,
// commits, branches, checkout, revert, status and history.
package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/kilupskalvis/wbg/internal/config"
	"github.com/kilupskalvis/wbg/internal/graph"
	"github.com/kilupskalvis/wbg/internal/ignore"
	"github.com/kilupskalvis/wbg/internal/logging"
	"github.com/kilupskalvis/wbg/internal/models"
	"github.com/kilupskalvis/wbg/internal/store"
	"github.com/kilupskalvis/wbg/internal/worktree"
	"go.uber.org/zap"
)

// Repository is the state every operation threads through. Nothing in
// this package keeps repository state in globals.
type Repository struct {
	Root    string
	Config  *config.Config
	Refs    *store.Store
	Commits *store.CommitStore
	Tree    worktree.Tree
	Walker  *graph.Walker
	Logger  *zap.Logger

	// Now stamps new commits. Tests replace it for deterministic ids.
	Now func() time.Time
}

// Option customizes a Repository opened by Init or Open.
type Option func(*Repository)

// WithLogger sets the repository logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Repository) { r.Logger = l }
}

// WithClock sets the commit timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.Now = now }
}

// Init creates a repository under root and returns it opened with an
// unborn HEAD on the default branch.
func Init(root string, tree worktree.Tree, opts ...Option) (*Repository, error) {
	cfg, err := config.Initialize(root)
	if err != nil {
		return nil, err
	}

	repo, err := open(root, cfg, tree, opts)
	if err != nil {
		os.RemoveAll(cfg.MetaPath())
		return nil, err
	}

	if err := repo.Refs.Initialize(); err != nil {
		repo.Close()
		os.RemoveAll(cfg.MetaPath())
		return nil, fmt.Errorf("initialize refs: %w", err)
	}
	if err := repo.Commits.Initialize(); err != nil {
		repo.Close()
		os.RemoveAll(cfg.MetaPath())
		return nil, fmt.Errorf("initialize objects: %w", err)
	}
	if err := repo.Refs.SetHeadAttached(cfg.Core.DefaultBranch); err != nil {
		repo.Close()
		os.RemoveAll(cfg.MetaPath())
		return nil, fmt.Errorf("set HEAD: %w", err)
	}

	repo.Logger.Debug("repository initialized", zap.String("root", root), zap.String("branch", cfg.Core.DefaultBranch))
	return repo, nil
}

// Open opens the existing repository at root.
func Open(root string, tree worktree.Tree, opts ...Option) (*Repository, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	return open(root, cfg, tree, opts)
}

func open(root string, cfg *config.Config, tree worktree.Tree, opts []Option) (*Repository, error) {
	refs, err := store.New(cfg.RefsPath())
	if err != nil {
		return nil, err
	}

	commits, err := store.NewCommitStore(cfg.ObjectsPath())
	if err != nil {
		refs.Close()
		return nil, err
	}

	repo := &Repository{
		Root:    root,
		Config:  cfg,
		Refs:    refs,
		Commits: commits,
		Tree:    tree,
		Walker:  graph.NewWalker(commits),
		Logger:  logging.Nop(),
		Now:     time.Now,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo, nil
}

// Close releases both stores.
func (r *Repository) Close() error {
	return errors.Join(r.Refs.Close(), r.Commits.Close())
}

// head returns HEAD and the snapshot it resolves to. An unborn HEAD has an
// empty snapshot.
func (r *Repository) head() (*models.HeadState, models.Snapshot, error) {
	head, err := r.Refs.GetHead()
	if err != nil {
		return nil, nil, err
	}
	if head.CommitID == "" {
		return head, models.Snapshot{}, nil
	}
	_, snap, err := r.Commits.ReadCommit(head.CommitID)
	if err != nil {
		return nil, nil, err
	}
	return head, snap, nil
}

// index returns the staged entries and the snapshot a commit made right
// now would record.
func (r *Repository) index(headSnap models.Snapshot) ([]*models.StagedEntry, models.Snapshot, error) {
	staged, err := r.Refs.StagedEntries()
	if err != nil {
		return nil, nil, err
	}
	return staged, models.ApplyStaged(headSnap, staged), nil
}

// readTree reads the given paths from the working tree. Paths missing from
// the tree are absent from the result.
func (r *Repository) readTree(paths []string) (models.Snapshot, error) {
	snap := make(models.Snapshot, len(paths))
	for _, p := range paths {
		content, err := r.Tree.Read(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		snap[p] = content
	}
	return snap, nil
}

func (r *Repository) ignoreMatcher() (*ignore.Matcher, error) {
	return ignore.Load(r.Tree)
}

// tracked returns the union of paths known to HEAD and the index.
func tracked(headSnap, indexSnap models.Snapshot) map[string]bool {
	out := make(map[string]bool, len(headSnap)+len(indexSnap))
	for p := range headSnap {
		out[p] = true
	}
	for p := range indexSnap {
		out[p] = true
	}
	return out
}
