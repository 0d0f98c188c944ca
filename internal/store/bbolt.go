// Package store provides persistence for wbg.
// Store keeps branches, HEAD and the staging area in a bbolt file (refs.db).
// CommitStore keeps commits and their file contents in SQLite (objects.db).
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names used by the reference store.
var (
	bucketBranches = []byte("branches")
	bucketKV       = []byte("kv")
	bucketIndex    = []byte("index")
	bucketCounters = []byte("counters")
)

// Counter key names.
var (
	counterStagedCount = []byte("staged_count")
)

// Store represents the bbolt reference store.
type Store struct {
	db *bolt.DB
}

// New opens or creates a bbolt database at the given path.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Initialize creates all required buckets.
func (s *Store) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketBranches,
			bucketKV,
			bucketIndex,
			bucketCounters,
		}
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}
