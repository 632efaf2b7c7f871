package repositories

import (
	"context"

	"tailor/internal/domain/models"
)

// BranchRepository persists branches. Branch names are unique per project
// and immutable after creation, so there is no Update.
type BranchRepository interface {
	Create(ctx context.Context, branch *models.Branch) error
	GetByID(ctx context.Context, id string) (*models.Branch, error)
	// ListByProject returns a project's branches by creation time ascending.
	ListByProject(ctx context.Context, projectID string) ([]models.Branch, error)
	// GetByName looks up a branch by its project-scoped name.
	GetByName(ctx context.Context, projectID, name string) (*models.Branch, error)
}
