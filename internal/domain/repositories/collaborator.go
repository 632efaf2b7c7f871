package repositories

import (
	"context"

	"tailor/internal/domain/models"
)

// CollaboratorRepository persists project shares. Upsert is idempotent on
// the (project, user) pair: re-sharing updates the access level in place.
type CollaboratorRepository interface {
	Upsert(ctx context.Context, collab *models.Collaborator) error
	Get(ctx context.Context, projectID, userID string) (*models.Collaborator, error)
	ListByProject(ctx context.Context, projectID string) ([]models.Collaborator, error)
	Delete(ctx context.Context, projectID, userID string) error
}
