package models

import "time"

// Commit is an immutable snapshot of a branch's content at a point in time.
// Commits are append-only; the only legal operations are create and read.
type Commit struct {
	ID        string    `json:"id" db:"id"`
	BranchID  string    `json:"branch_id" db:"branch_id"`
	Content   Content   `json:"content" db:"content"`
	Message   string    `json:"message" db:"message"`
	Changes   string    `json:"changes" db:"changes"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CommitPage is one page of a branch's history, newest first. NextCursor is
// empty when no older commits remain.
type CommitPage struct {
	Commits    []Commit `json:"commits"`
	NextCursor string   `json:"next_cursor,omitempty"`
}
