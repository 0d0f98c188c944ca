package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kilupskalvis/wbg/internal/errs"
	"github.com/kilupskalvis/wbg/internal/models"
)

const commitColumns = `id, parent_id, author_name, author_email, timestamp, message, branch`

// WriteCommit durably records commit and its snapshot in one transaction.
// The commit's Files list is derived from the snapshot.
func (s *CommitStore) WriteCommit(commit *models.Commit, snapshot models.Snapshot) error {
	commit.Files = snapshot.Paths()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRow("SELECT COUNT(*) FROM commits WHERE id = ?", commit.ID).Scan(&existing); err != nil {
		return fmt.Errorf("check commit id: %w", err)
	}
	if existing > 0 {
		return errs.New(errs.KindIDCollision, "commit id %s already exists", commit.ID)
	}

	_, err = tx.Exec(`
		INSERT INTO commits (`+commitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		commit.ID,
		sql.NullString{String: commit.ParentID, Valid: commit.ParentID != ""},
		commit.AuthorName, commit.AuthorEmail, formatTimestamp(commit.Timestamp), commit.Message,
		sql.NullString{String: commit.Branch, Valid: commit.Branch != ""},
	)
	if err != nil {
		return fmt.Errorf("insert commit: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO commit_files (commit_id, path, size, compressed, content) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare file insert: %w", err)
	}
	defer stmt.Close()

	for _, path := range commit.Files {
		content := snapshot[path]
		data, compressed := s.codec.encode(content)
		if _, err := stmt.Exec(commit.ID, path, len(content), compressed, data); err != nil {
			return fmt.Errorf("insert file %s: %w", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.cache.Add(commit.ID, commit)
	return nil
}

// GetCommit returns a commit's metadata without file contents.
func (s *CommitStore) GetCommit(id string) (*models.Commit, error) {
	if c, ok := s.cache.Get(id); ok {
		return c, nil
	}

	commit, err := scanCommit(s.db.QueryRow("SELECT "+commitColumns+" FROM commits WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.KindCommitNotFound, "commit %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT path FROM commit_files WHERE commit_id = ? ORDER BY path", id)
	if err != nil {
		return nil, fmt.Errorf("list commit files: %w", err)
	}
	defer rows.Close()

	commit.Files = []string{}
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		commit.Files = append(commit.Files, path)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.cache.Add(id, commit)
	return commit, nil
}

// ReadCommit returns a commit together with its full snapshot.
func (s *CommitStore) ReadCommit(id string) (*models.Commit, models.Snapshot, error) {
	commit, err := s.GetCommit(id)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.Query("SELECT path, size, compressed, content FROM commit_files WHERE commit_id = ?", id)
	if err != nil {
		return nil, nil, fmt.Errorf("read commit files: %w", err)
	}
	defer rows.Close()

	snapshot := make(models.Snapshot, len(commit.Files))
	for rows.Next() {
		var path string
		var size int
		var compressed bool
		var data []byte
		if err := rows.Scan(&path, &size, &compressed, &data); err != nil {
			return nil, nil, err
		}

		content, err := s.codec.decode(data, compressed)
		if err != nil {
			return nil, nil, errs.Corrupt(err, "decode %s in commit %s", path, id)
		}
		if len(content) != size {
			return nil, nil, errs.Corrupt(nil, "size mismatch for %s in commit %s", path, id)
		}
		snapshot[path] = content
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	if len(snapshot) != len(commit.Files) {
		return nil, nil, errs.Corrupt(nil, "commit %s file list does not match its contents", id)
	}

	return commit, snapshot, nil
}

// CommitExists reports whether a commit with the exact id is stored.
func (s *CommitStore) CommitExists(id string) (bool, error) {
	if s.cache.Contains(id) {
		return true, nil
	}
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM commits WHERE id = ?", id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ResolveCommit expands a full id or a unique prefix of at least four
// characters into a commit id.
func (s *CommitStore) ResolveCommit(ref string) (string, error) {
	ref = strings.ToLower(ref)
	if !models.IsCommitPrefix(ref) {
		return "", errs.New(errs.KindTargetNotFound, "'%s' is not a commit", ref)
	}
	if models.IsCommitID(ref) {
		exists, err := s.CommitExists(ref)
		if err != nil {
			return "", fmt.Errorf("resolve commit: %w", err)
		}
		if exists {
			return ref, nil
		}
		return "", errs.New(errs.KindTargetNotFound, "no commit matches '%s'", ref)
	}

	rows, err := s.db.Query("SELECT id FROM commits WHERE id LIKE ? LIMIT 2", ref+"%")
	if err != nil {
		return "", fmt.Errorf("resolve commit: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(matches) {
	case 0:
		return "", errs.New(errs.KindTargetNotFound, "no commit matches '%s'", ref)
	case 1:
		return matches[0], nil
	default:
		return "", errs.New(errs.KindTargetNotFound, "commit prefix '%s' is ambiguous", ref)
	}
}

// ListCommits returns every commit, newest first.
func (s *CommitStore) ListCommits() ([]*models.Commit, error) {
	rows, err := s.db.Query("SELECT " + commitColumns + " FROM commits ORDER BY timestamp DESC, id ASC")
	if err != nil {
		return nil, err
	}

	var ids []string
	for rows.Next() {
		commit, err := scanCommit(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, commit.ID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// a second pass fills Files through the cache
	commits := make([]*models.Commit, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetCommit(id)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCommit(row rowScanner) (*models.Commit, error) {
	var commit models.Commit
	var parentID, branch sql.NullString
	var timestamp string

	err := row.Scan(&commit.ID, &parentID, &commit.AuthorName, &commit.AuthorEmail, &timestamp, &commit.Message, &branch)
	if err != nil {
		return nil, err
	}

	ts, err := parseTimestamp(timestamp)
	if err != nil {
		return nil, errs.Corrupt(err, "commit %s", commit.ID)
	}
	commit.Timestamp = ts
	if parentID.Valid {
		commit.ParentID = parentID.String
	}
	if branch.Valid {
		commit.Branch = branch.String
	}

	return &commit, nil
}
