package core

import (
	"context"
	"fmt"
)

// Operation is one request to the repository. The set of operations is
// closed; Execute is the only dispatcher.
type Operation interface {
	isOperation()
}

type (
	AddOp struct{ Options AddOptions }

	UnstageOp struct{ Paths []string }

	CommitOp struct{ Options CommitOptions }

	StatusOp struct{}

	HeadOp struct{}

	CheckoutOp struct {
		Target  string
		Options CheckoutOptions
	}

	BranchListOp struct{}

	BranchCreateOp struct {
		Name       string
		StartPoint string
	}

	BranchDeleteOp struct{ Name string }

	BranchRenameOp struct {
		OldName string
		NewName string
	}

	RevertOp struct {
		Ref     string
		Options RevertOptions
	}

	LogOp struct{ Options LogOptions }

	GraphOp struct{ Limit int }

	DiffOp struct{ Options DiffOptions }

	ShowOp struct{ Ref string }
)

func (AddOp) isOperation()          {}
func (UnstageOp) isOperation()      {}
func (CommitOp) isOperation()       {}
func (StatusOp) isOperation()       {}
func (HeadOp) isOperation()         {}
func (CheckoutOp) isOperation()     {}
func (BranchListOp) isOperation()   {}
func (BranchCreateOp) isOperation() {}
func (BranchDeleteOp) isOperation() {}
func (BranchRenameOp) isOperation() {}
func (RevertOp) isOperation()       {}
func (LogOp) isOperation()          {}
func (GraphOp) isOperation()        {}
func (DiffOp) isOperation()         {}
func (ShowOp) isOperation()         {}

// Execute runs op against repo and returns its typed result:
//
//	AddOp          *AddResult
//	UnstageOp      []string
//	CommitOp       *models.Commit
//	StatusOp       *StatusResult
//	HeadOp         *models.HeadState
//	CheckoutOp     *CheckoutResult
//	BranchListOp   []BranchInfo
//	BranchCreateOp *models.Branch
//	BranchDeleteOp nil
//	BranchRenameOp nil
//	RevertOp       *RevertResult
//	LogOp          []*models.Commit
//	GraphOp        *GraphResult
//	DiffOp         []diff.FileDiff
//	ShowOp         *ShowResult
func Execute(ctx context.Context, repo *Repository, op Operation) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch op := op.(type) {
	case AddOp:
		return repo.Add(ctx, op.Options)
	case UnstageOp:
		return repo.Unstage(ctx, op.Paths)
	case CommitOp:
		return repo.Commit(ctx, op.Options)
	case StatusOp:
		return repo.Status(ctx)
	case HeadOp:
		return repo.CurrentHead(ctx)
	case CheckoutOp:
		return repo.Checkout(ctx, op.Target, op.Options)
	case BranchListOp:
		return repo.ListBranches(ctx)
	case BranchCreateOp:
		return repo.CreateBranch(ctx, op.Name, op.StartPoint)
	case BranchDeleteOp:
		return nil, repo.DeleteBranch(ctx, op.Name)
	case BranchRenameOp:
		return nil, repo.RenameBranch(ctx, op.OldName, op.NewName)
	case RevertOp:
		return repo.Revert(ctx, op.Ref, op.Options)
	case LogOp:
		return repo.Log(ctx, op.Options)
	case GraphOp:
		return repo.Graph(ctx, op.Limit)
	case DiffOp:
		return repo.Diff(ctx, op.Options)
	case ShowOp:
		return repo.Show(ctx, op.Ref)
	default:
		return nil, fmt.Errorf("unknown operation %T", op)
	}
}
