package store

import (
	"database/sql"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kilupskalvis/wbg/internal/models"
	_ "modernc.org/sqlite"
)

// commitCacheSize bounds the number of decoded commits kept in memory.
const commitCacheSize = 512

// currentSchemaVersion is the objects.db layout version.
const currentSchemaVersion = 1

// CommitStore is the SQLite-backed content store. Each commit row owns the
// full set of file contents it snapshots.
type CommitStore struct {
	db    *sql.DB
	codec *blobCodec
	cache *lru.Cache[string, *models.Commit]
}

// NewCommitStore opens the commit database at dbPath.
func NewCommitStore(dbPath string) (*CommitStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps transactions and reads on one sqlite handle
	db.SetMaxOpenConns(1)

	codec, err := newBlobCodec()
	if err != nil {
		db.Close()
		return nil, err
	}

	cache, err := lru.New[string, *models.Commit](commitCacheSize)
	if err != nil {
		codec.close()
		db.Close()
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	return &CommitStore{db: db, codec: codec, cache: cache}, nil
}

// Close closes the database connection
func (s *CommitStore) Close() error {
	s.codec.close()
	return s.db.Close()
}

// Initialize creates the database schema
func (s *CommitStore) Initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS commits (
		id TEXT PRIMARY KEY,
		parent_id TEXT,
		author_name TEXT NOT NULL,
		author_email TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		message TEXT NOT NULL,
		branch TEXT
	);

	CREATE TABLE IF NOT EXISTS commit_files (
		commit_id TEXT NOT NULL,
		path TEXT NOT NULL,
		size INTEGER NOT NULL,
		compressed BOOLEAN NOT NULL DEFAULT FALSE,
		content BLOB,
		PRIMARY KEY (commit_id, path),
		FOREIGN KEY (commit_id) REFERENCES commits(id)
	);

	CREATE TABLE IF NOT EXISTS wbg_schema_version (
		version INTEGER PRIMARY KEY
	);

	CREATE INDEX IF NOT EXISTS idx_commits_timestamp ON commits(timestamp);
	CREATE INDEX IF NOT EXISTS idx_commits_parent ON commits(parent_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	_, err := s.db.Exec("INSERT OR REPLACE INTO wbg_schema_version (version) VALUES (?)", currentSchemaVersion)
	if err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}

	return nil
}

// formatTimestamp renders t so that lexical order matches time order.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

// parseTimestamp parses a stored commit timestamp.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05.000000000Z07:00",
		time.RFC3339Nano,
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
