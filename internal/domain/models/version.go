package models

import "time"

// Version is the single mutable draft attached to a branch. Autosave writes
// here; commits snapshot it. Each branch has exactly one Version, created
// with the branch and never deleted independently of it.
type Version struct {
	ID         string    `json:"id" db:"id"`
	BranchID   string    `json:"branch_id" db:"branch_id"`
	TemplateID string    `json:"template_id" db:"template_id"`
	Content    Content   `json:"content" db:"content"`
	Revision   int64     `json:"revision" db:"revision"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
	UpdatedBy  *string   `json:"updated_by,omitempty" db:"updated_by"`
}
