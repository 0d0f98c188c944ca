package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Branch represents a named reference to a commit
type Branch struct {
	Name      string    `json:"name"`
	CommitID  string    `json:"commit_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidateBranchName checks that name can be used as a branch name.
func ValidateBranchName(name string) error {
	if name == "" {
		return fmt.Errorf("branch name cannot be empty")
	}
	if name == "HEAD" || name == "." || name == ".." {
		return fmt.Errorf("'%s' is a reserved name", name)
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("branch name cannot start with '-'")
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("branch name cannot contain '..'")
	}
	for _, r := range name {
		switch {
		case r == '/' || r == '\\':
			return fmt.Errorf("branch name cannot contain path separators")
		case unicode.IsControl(r):
			return fmt.Errorf("branch name cannot contain control characters")
		case unicode.IsSpace(r):
			return fmt.Errorf("branch name cannot contain whitespace")
		}
	}
	return nil
}
