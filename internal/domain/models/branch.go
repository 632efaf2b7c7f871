package models

import "time"

// MainBranchName is the name of the root branch created with every project.
const MainBranchName = "main"

type Branch struct {
	ID              string    `json:"id" db:"id"`
	ProjectID       string    `json:"project_id" db:"project_id"`
	Name            string    `json:"name" db:"name"`
	ParentBranchID  *string   `json:"parent_branch_id,omitempty" db:"parent_branch_id"`
	ParentVersionID *string   `json:"parent_version_id,omitempty" db:"parent_version_id"`
	CreatedBy       string    `json:"created_by" db:"created_by"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// IsRoot reports whether the branch is a root of its project's branch forest.
func (b *Branch) IsRoot() bool {
	return b.ParentBranchID == nil
}

// BranchSummary is a branch decorated with working-state metadata and its
// most recent commit, for display purposes only.
type BranchSummary struct {
	Branch
	LastModifiedAt time.Time `json:"last_modified_at"`
	LatestCommit   *Commit   `json:"latest_commit,omitempty"`
}
