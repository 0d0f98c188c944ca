package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/kilupskalvis/wbg/internal/errs"
	"github.com/kilupskalvis/wbg/internal/models"
	bolt "go.etcd.io/bbolt"
)

// UpdateIndex applies stage writes and then unstage removals in a single
// transaction. Staging a path that is already staged overwrites it, and
// unstaging a path that is not staged is a no-op.
func (s *Store) UpdateIndex(stage []*models.StagedEntry, unstage []string) error {
	if len(stage) == 0 && len(unstage) == 0 {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketIndex)
		if err != nil {
			return fmt.Errorf("failed to create index bucket: %w", err)
		}

		delta := 0
		for _, entry := range stage {
			if entry.StagedAt.IsZero() {
				entry.StagedAt = time.Now()
			}

			key := []byte(entry.Path)
			isNew := bucket.Get(key) == nil

			data, err := json.Marshal(entry)
			if err != nil {
				return fmt.Errorf("failed to marshal staged entry: %w", err)
			}
			if err := bucket.Put(key, data); err != nil {
				return fmt.Errorf("failed to store staged entry: %w", err)
			}

			if isNew {
				delta++
			}
		}

		for _, path := range unstage {
			key := []byte(path)
			if bucket.Get(key) == nil {
				continue
			}
			if err := bucket.Delete(key); err != nil {
				return fmt.Errorf("failed to delete staged entry: %w", err)
			}
			delta--
		}

		if delta != 0 {
			if err := s.adjustStagedCount(tx, delta); err != nil {
				return fmt.Errorf("failed to adjust staged count: %w", err)
			}
		}
		return nil
	})
}

// StagedEntries returns every staged entry ordered by path.
func (s *Store) StagedEntries() ([]*models.StagedEntry, error) {
	var entries []*models.StagedEntry

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketIndex)
		if bucket == nil {
			return nil
		}

		// bbolt keys are byte-ordered, which is path order
		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			entry := &models.StagedEntry{}
			if err := json.Unmarshal(v, entry); err != nil {
				return errs.Corrupt(err, "decode staged entry '%s'", k)
			}
			entries = append(entries, entry)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ClearStaged removes every staged entry.
func (s *Store) ClearStaged() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketIndex); err != nil && err != bolt.ErrBucketNotFound {
			return fmt.Errorf("failed to delete index bucket: %w", err)
		}

		if err := s.resetStagedCount(tx); err != nil {
			return fmt.Errorf("failed to reset staged count: %w", err)
		}

		if _, err := tx.CreateBucketIfNotExists(bucketIndex); err != nil {
			return fmt.Errorf("recreate index bucket: %w", err)
		}
		return nil
	})
}

// StagedCount returns the number of staged entries.
func (s *Store) StagedCount() (int, error) {
	var count int

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketCounters)
		if bucket == nil {
			return nil
		}

		data := bucket.Get(counterStagedCount)
		if data == nil {
			return nil
		}

		var err error
		count, err = strconv.Atoi(string(data))
		if err != nil {
			return errs.Corrupt(err, "parse staged count")
		}
		return nil
	})

	return count, err
}

// adjustStagedCount adjusts the staged entry counter by the given delta.
func (s *Store) adjustStagedCount(tx *bolt.Tx, delta int) error {
	bucket, err := tx.CreateBucketIfNotExists(bucketCounters)
	if err != nil {
		return fmt.Errorf("failed to create counters bucket: %w", err)
	}

	var currentCount int
	data := bucket.Get(counterStagedCount)
	if data != nil {
		currentCount, err = strconv.Atoi(string(data))
		if err != nil {
			return errs.Corrupt(err, "parse staged count")
		}
	}

	newCount := currentCount + delta
	if newCount < 0 {
		newCount = 0
	}

	return bucket.Put(counterStagedCount, []byte(strconv.Itoa(newCount)))
}

// resetStagedCount resets the staged entry counter to 0.
func (s *Store) resetStagedCount(tx *bolt.Tx) error {
	bucket, err := tx.CreateBucketIfNotExists(bucketCounters)
	if err != nil {
		return fmt.Errorf("failed to create counters bucket: %w", err)
	}

	return bucket.Put(counterStagedCount, []byte("0"))
}
