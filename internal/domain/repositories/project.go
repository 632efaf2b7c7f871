package repositories

import (
	"context"

	"tailor/internal/domain/models"
)

// ProjectRepository persists projects.
//
// GetByID loads a project regardless of who owns it; visibility decisions
// belong to the access gate, not the store.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	// ListForUser returns projects the user owns or collaborates on,
	// ordered by most recent activity.
	ListForUser(ctx context.Context, userID string) ([]models.Project, error)
	// Delete removes a project; branches, versions, commits and
	// collaborator rows cascade.
	Delete(ctx context.Context, id string) error
	// Touch bumps updated_at so recent-activity ordering reflects edits.
	Touch(ctx context.Context, id string) error
}
