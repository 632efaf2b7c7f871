package services

import (
	"context"

	"tailor/internal/domain/models"
)

// Request types for the versioning services. ActorID is always filled by
// the handler from the authenticated request context, never by the client.

type CreateProjectRequest struct {
	ActorID     string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type DuplicateProjectRequest struct {
	ActorID   string `json:"-"`
	ProjectID string `json:"-"`
	Name      string `json:"name"`
}

type ShareProjectRequest struct {
	ActorID     string             `json:"-"`
	ProjectID   string             `json:"-"`
	Email       string             `json:"email"`
	AccessLevel models.AccessLevel `json:"access_level"`
}

type ForkBranchRequest struct {
	ActorID        string `json:"-"`
	ProjectID      string `json:"-"`
	SourceBranchID string `json:"source_branch_id"`
	Name           string `json:"name"`
}

type SaveDraftRequest struct {
	ActorID  string         `json:"-"`
	BranchID string         `json:"-"`
	Content  models.Content `json:"content"`
	// ExpectedRevision, when set, makes the save conditional: the write is
	// rejected with a conflict if the working version has moved past it.
	ExpectedRevision *int64 `json:"expected_revision,omitempty"`
}

type CommitRequest struct {
	ActorID  string         `json:"-"`
	BranchID string         `json:"-"`
	Content  models.Content `json:"content"`
	// Message is optional; when absent a summary is requested from the
	// commit-message collaborator, falling back to a fixed default.
	Message *string `json:"message,omitempty"`
}

type RevertRequest struct {
	ActorID  string `json:"-"`
	BranchID string `json:"-"`
	CommitID string `json:"commit_id"`
}

type HistoryRequest struct {
	ActorID  string
	BranchID string
	Cursor   string
	Limit    int
}

// ProjectService manages project lifecycle and sharing.
type ProjectService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)
	GetProject(ctx context.Context, projectID, actorID string) (*models.ProjectDetail, error)
	ListProjects(ctx context.Context, actorID string) ([]models.Project, error)
	DeleteProject(ctx context.Context, projectID, actorID string) error
	DuplicateProject(ctx context.Context, req *DuplicateProjectRequest) (*models.Project, error)
	ShareProject(ctx context.Context, req *ShareProjectRequest) (*models.Collaborator, error)
	UnshareProject(ctx context.Context, projectID, actorID, userID string) error
}

// BranchService forks branches and lists them with display metadata.
type BranchService interface {
	ForkBranch(ctx context.Context, req *ForkBranchRequest) (*models.Branch, error)
	ListBranches(ctx context.Context, projectID, actorID string) ([]models.BranchSummary, error)
}

// DraftService is the working-state engine: it accepts autosave mutations
// against a branch's single mutable version.
type DraftService interface {
	SaveDraft(ctx context.Context, req *SaveDraftRequest) (*models.Version, error)
	GetDraft(ctx context.Context, branchID, actorID string) (*models.Version, error)
}

// CommitService snapshots working state into immutable commits and restores
// working state from past commits.
type CommitService interface {
	Commit(ctx context.Context, req *CommitRequest) (*models.Commit, error)
	Revert(ctx context.Context, req *RevertRequest) (*models.Commit, error)
}

// HistoryService reads the ordered commit log.
type HistoryService interface {
	GetHistory(ctx context.Context, req *HistoryRequest) (*models.CommitPage, error)
	GetCommit(ctx context.Context, branchID, commitID, actorID string) (*models.Commit, error)
}
