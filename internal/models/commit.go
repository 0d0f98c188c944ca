package models

import "time"

// Commit is the immutable metadata of one recorded snapshot.
type Commit struct {
	ID          string    `json:"id"`
	ParentID    string    `json:"parent_id,omitempty"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	Timestamp   time.Time `json:"timestamp"`
	Message     string    `json:"message"`
	Branch      string    `json:"branch,omitempty"` // branch HEAD was attached to at creation
	Files       []string  `json:"files"`
}

// ShortID returns a shortened commit ID (first 7 characters)
func (c *Commit) ShortID() string {
	if len(c.ID) > 7 {
		return c.ID[:7]
	}
	return c.ID
}

// IsRoot returns true if the commit has no parent
func (c *Commit) IsRoot() bool {
	return c.ParentID == ""
}

// Subject returns the first line of the commit message.
func (c *Commit) Subject() string {
	for i := 0; i < len(c.Message); i++ {
		if c.Message[i] == '\n' {
			return c.Message[:i]
		}
	}
	return c.Message
}
