package store

import (
	"fmt"
	"strings"

	"github.com/kilupskalvis/wbg/internal/errs"
	"github.com/kilupskalvis/wbg/internal/models"
	bolt "go.etcd.io/bbolt"
)

var headKey = []byte("HEAD")

const (
	headRefPrefix    = "ref:"
	headCommitPrefix = "commit:"
)

type headRef struct {
	value    string
	detached bool
}

func encodeAttached(branch string) []byte {
	return []byte(headRefPrefix + branch)
}

func encodeDetached(commitID string) []byte {
	return []byte(headCommitPrefix + commitID)
}

func decodeHead(data []byte) (headRef, error) {
	raw := string(data)
	switch {
	case data == nil:
		return headRef{}, errs.Corrupt(nil, "HEAD is missing")
	case strings.HasPrefix(raw, headRefPrefix) && len(raw) > len(headRefPrefix):
		return headRef{value: strings.TrimPrefix(raw, headRefPrefix)}, nil
	case strings.HasPrefix(raw, headCommitPrefix) && models.IsCommitID(strings.TrimPrefix(raw, headCommitPrefix)):
		return headRef{value: strings.TrimPrefix(raw, headCommitPrefix), detached: true}, nil
	default:
		return headRef{}, errs.Corrupt(nil, "malformed HEAD %q", raw)
	}
}

// GetHead returns the current HEAD position. An attached HEAD is
// dereferenced through its branch; an unborn branch yields an empty CommitID.
func (s *Store) GetHead() (*models.HeadState, error) {
	var head *models.HeadState

	err := s.db.View(func(tx *bolt.Tx) error {
		kv := tx.Bucket(bucketKV)
		if kv == nil {
			return errs.Corrupt(nil, "kv bucket not found")
		}
		ref, err := decodeHead(kv.Get(headKey))
		if err != nil {
			return err
		}

		if ref.detached {
			head = &models.HeadState{CommitID: ref.value, IsDetached: true}
			return nil
		}

		head = &models.HeadState{BranchName: ref.value}
		bucket := tx.Bucket(bucketBranches)
		if bucket == nil {
			return errs.Corrupt(nil, "branches bucket not found")
		}
		branch, err := getBranch(bucket, ref.value)
		if err != nil {
			return err
		}
		if branch != nil {
			head.CommitID = branch.CommitID
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return head, nil
}

// ResolveHead returns the commit HEAD points to.
func (s *Store) ResolveHead() (string, error) {
	head, err := s.GetHead()
	if err != nil {
		return "", err
	}
	if head.CommitID == "" {
		return "", errs.New(errs.KindUnbornHead, "branch '%s' has no commits yet", head.BranchName)
	}
	return head.CommitID, nil
}

// SetHeadAttached points HEAD at a branch.
func (s *Store) SetHeadAttached(branch string) error {
	return s.putHead(encodeAttached(branch))
}

// SetHeadDetached points HEAD directly at a commit.
func (s *Store) SetHeadDetached(commitID string) error {
	if !models.IsCommitID(commitID) {
		return fmt.Errorf("invalid commit id %q", commitID)
	}
	return s.putHead(encodeDetached(commitID))
}

func (s *Store) putHead(value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		kv := tx.Bucket(bucketKV)
		if kv == nil {
			return fmt.Errorf("kv bucket not found")
		}
		return kv.Put(headKey, value)
	})
}
