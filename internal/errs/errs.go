// Package errs defines the error kinds surfaced by wbg.
// Every failure the CLI reports maps to exactly one Kind so callers can
// branch on the fault instead of parsing messages.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies a class of failure.
type Kind string

const (
	KindNotARepository      Kind = "NOT_A_REPOSITORY"
	KindAlreadyInitialized  Kind = "ALREADY_INITIALIZED"
	KindNoMatchingFiles     Kind = "NO_MATCHING_FILES"
	KindEmptyMessage        Kind = "EMPTY_MESSAGE"
	KindNothingToCommit     Kind = "NOTHING_TO_COMMIT"
	KindUncommittedChanges  Kind = "UNCOMMITTED_CHANGES"
	KindBranchExists        Kind = "BRANCH_EXISTS"
	KindBranchNotFound      Kind = "BRANCH_NOT_FOUND"
	KindInvalidName         Kind = "INVALID_NAME"
	KindCannotDeleteCurrent Kind = "CANNOT_DELETE_CURRENT"
	KindTargetNotFound      Kind = "TARGET_NOT_FOUND"
	KindCommitNotFound      Kind = "COMMIT_NOT_FOUND"
	KindUnbornHead          Kind = "UNBORN_HEAD"
	KindNoCommits           Kind = "NO_COMMITS"
	KindIDCollision         Kind = "ID_COLLISION"
	KindStoreCorrupt        Kind = "STORE_CORRUPT"
)

// Error is a typed wbg error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotARepository      = &Error{Kind: KindNotARepository, Message: "not a wbg repository"}
	ErrAlreadyInitialized  = &Error{Kind: KindAlreadyInitialized, Message: "repository already initialized"}
	ErrNoMatchingFiles     = &Error{Kind: KindNoMatchingFiles, Message: "no matching files"}
	ErrEmptyMessage        = &Error{Kind: KindEmptyMessage, Message: "empty commit message"}
	ErrNothingToCommit     = &Error{Kind: KindNothingToCommit, Message: "nothing to commit"}
	ErrUncommittedChanges  = &Error{Kind: KindUncommittedChanges, Message: "uncommitted changes"}
	ErrBranchExists        = &Error{Kind: KindBranchExists, Message: "branch already exists"}
	ErrBranchNotFound      = &Error{Kind: KindBranchNotFound, Message: "branch not found"}
	ErrInvalidName         = &Error{Kind: KindInvalidName, Message: "invalid name"}
	ErrCannotDeleteCurrent = &Error{Kind: KindCannotDeleteCurrent, Message: "cannot delete current branch"}
	ErrTargetNotFound      = &Error{Kind: KindTargetNotFound, Message: "target not found"}
	ErrCommitNotFound      = &Error{Kind: KindCommitNotFound, Message: "commit not found"}
	ErrUnbornHead          = &Error{Kind: KindUnbornHead, Message: "HEAD has no commits yet"}
	ErrNoCommits           = &Error{Kind: KindNoCommits, Message: "no commits yet"}
	ErrIDCollision         = &Error{Kind: KindIDCollision, Message: "commit id collision"}
	ErrStoreCorrupt        = &Error{Kind: KindStoreCorrupt, Message: "repository store is corrupt"}
)

// New builds an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an error of the given kind that wraps cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// Corrupt reports malformed persisted state.
func Corrupt(cause error, format string, args ...interface{}) *Error {
	return Wrap(KindStoreCorrupt, cause, format, args...)
}

// KindOf returns the kind of err, or "" if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsFatal reports whether err indicates corrupt on-disk state.
func IsFatal(err error) bool {
	return KindOf(err) == KindStoreCorrupt
}

// ExitCode maps an error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsFatal(err):
		return 2
	default:
		return 1
	}
}
