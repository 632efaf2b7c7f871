package models

import "time"

type Project struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProjectDetail is a project decorated with its branches and collaborators
// for the workspace view.
type ProjectDetail struct {
	Project
	Branches      []BranchSummary `json:"branches"`
	Collaborators []Collaborator  `json:"collaborators"`
}
