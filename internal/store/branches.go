package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/kilupskalvis/wbg/internal/errs"
	"github.com/kilupskalvis/wbg/internal/models"
	bolt "go.etcd.io/bbolt"
)

// CreateBranch stores a new branch pointing at commitID.
func (s *Store) CreateBranch(name, commitID string) error {
	if err := models.ValidateBranchName(name); err != nil {
		return errs.Wrap(errs.KindInvalidName, err, "invalid branch name '%s'", name)
	}
	if commitID == "" {
		return errs.New(errs.KindNoCommits, "cannot create branch '%s': no commits yet", name)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBranches)
		if bucket == nil {
			return fmt.Errorf("branches bucket not found")
		}
		if bucket.Get([]byte(name)) != nil {
			return errs.New(errs.KindBranchExists, "branch '%s' already exists", name)
		}
		return putBranch(bucket, &models.Branch{
			Name:      name,
			CommitID:  commitID,
			CreatedAt: time.Now(),
		})
	})
}

// GetBranch retrieves a branch by name. Returns (nil, nil) if not found.
func (s *Store) GetBranch(name string) (*models.Branch, error) {
	var branch *models.Branch

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBranches)
		if bucket == nil {
			return nil
		}

		var err error
		branch, err = getBranch(bucket, name)
		return err
	})

	if err != nil {
		return nil, err
	}

	return branch, nil
}

// ListBranches returns all branches sorted by name.
func (s *Store) ListBranches() ([]*models.Branch, error) {
	var branches []*models.Branch

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBranches)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var branch models.Branch
			if err := json.Unmarshal(v, &branch); err != nil {
				return errs.Corrupt(err, "decode branch '%s'", k)
			}
			branches = append(branches, &branch)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	sort.Slice(branches, func(i, j int) bool {
		return branches[i].Name < branches[j].Name
	})

	return branches, nil
}

// AdvanceBranch moves an existing branch to commitID.
func (s *Store) AdvanceBranch(name, commitID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBranches)
		if bucket == nil {
			return fmt.Errorf("branches bucket not found")
		}

		branch, err := getBranch(bucket, name)
		if err != nil {
			return err
		}
		if branch == nil {
			return errs.New(errs.KindBranchNotFound, "branch '%s' not found", name)
		}

		branch.CommitID = commitID
		return putBranch(bucket, branch)
	})
}

// SetBranch creates or moves a branch in one step. Used when the first
// commit on an unborn branch brings that branch into existence.
func (s *Store) SetBranch(name, commitID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBranches)
		if bucket == nil {
			return fmt.Errorf("branches bucket not found")
		}

		branch, err := getBranch(bucket, name)
		if err != nil {
			return err
		}
		if branch == nil {
			branch = &models.Branch{Name: name, CreatedAt: time.Now()}
		}
		branch.CommitID = commitID
		return putBranch(bucket, branch)
	})
}

// DeleteBranch removes a branch by name.
func (s *Store) DeleteBranch(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBranches)
		if bucket == nil {
			return fmt.Errorf("branches bucket not found")
		}

		if bucket.Get([]byte(name)) == nil {
			return errs.New(errs.KindBranchNotFound, "branch '%s' not found", name)
		}

		return bucket.Delete([]byte(name))
	})
}

// RenameBranch renames a branch, keeping its commit and creation time.
// An attached HEAD follows the rename in the same transaction.
func (s *Store) RenameBranch(oldName, newName string) error {
	if err := models.ValidateBranchName(newName); err != nil {
		return errs.Wrap(errs.KindInvalidName, err, "invalid branch name '%s'", newName)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBranches)
		if bucket == nil {
			return fmt.Errorf("branches bucket not found")
		}

		branch, err := getBranch(bucket, oldName)
		if err != nil {
			return err
		}
		if branch == nil {
			return errs.New(errs.KindBranchNotFound, "branch '%s' not found", oldName)
		}
		if bucket.Get([]byte(newName)) != nil {
			return errs.New(errs.KindBranchExists, "branch '%s' already exists", newName)
		}

		branch.Name = newName
		if err := putBranch(bucket, branch); err != nil {
			return err
		}
		if err := bucket.Delete([]byte(oldName)); err != nil {
			return fmt.Errorf("delete old branch: %w", err)
		}

		kv := tx.Bucket(bucketKV)
		if kv == nil {
			return fmt.Errorf("kv bucket not found")
		}
		ref, err := decodeHead(kv.Get(headKey))
		if err != nil {
			return err
		}
		if !ref.detached && ref.value == oldName {
			return kv.Put(headKey, encodeAttached(newName))
		}
		return nil
	})
}

// BranchExists checks if a branch with the given name exists.
func (s *Store) BranchExists(name string) (bool, error) {
	var exists bool

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBranches)
		if bucket == nil {
			return nil
		}

		exists = bucket.Get([]byte(name)) != nil
		return nil
	})

	if err != nil {
		return false, err
	}

	return exists, nil
}

func getBranch(bucket *bolt.Bucket, name string) (*models.Branch, error) {
	data := bucket.Get([]byte(name))
	if data == nil {
		return nil, nil
	}

	branch := &models.Branch{}
	if err := json.Unmarshal(data, branch); err != nil {
		return nil, errs.Corrupt(err, "decode branch '%s'", name)
	}
	return branch, nil
}

func putBranch(bucket *bolt.Bucket, branch *models.Branch) error {
	data, err := json.Marshal(branch)
	if err != nil {
		return fmt.Errorf("marshal branch: %w", err)
	}
	return bucket.Put([]byte(branch.Name), data)
}
