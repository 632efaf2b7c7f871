package models

import "time"

// AccessLevel is the grant a collaborator holds on a project.
// Levels are ordered: VIEWER < COMMENTER < EDITOR. A project owner
// implicitly has full access and needs no Collaborator row.
type AccessLevel string

const (
	AccessViewer    AccessLevel = "VIEWER"
	AccessCommenter AccessLevel = "COMMENTER"
	AccessEditor    AccessLevel = "EDITOR"
)

// rank orders access levels for comparison. Unknown levels rank below VIEWER.
func (l AccessLevel) rank() int {
	switch l {
	case AccessViewer:
		return 1
	case AccessCommenter:
		return 2
	case AccessEditor:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether the level satisfies the required level.
func (l AccessLevel) AtLeast(required AccessLevel) bool {
	return l.rank() >= required.rank()
}

// Valid reports whether the level is one of the known grants.
func (l AccessLevel) Valid() bool {
	return l.rank() > 0
}

// Collaborator grants a non-owner user access to a project. The
// (project, user) pair is unique; re-sharing updates the level in place.
type Collaborator struct {
	ProjectID   string      `json:"project_id" db:"project_id"`
	UserID      string      `json:"user_id" db:"user_id"`
	AccessLevel AccessLevel `json:"access_level" db:"access_level"`
	SharedBy    string      `json:"shared_by" db:"shared_by"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}
