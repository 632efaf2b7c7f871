package repositories

import (
	"context"
	"time"

	"tailor/internal/domain/models"
)

// VersionRepository persists each branch's single working version.
//
// UpdateContent is the per-branch single-writer primitive: it replaces the
// content and bumps the revision counter in one atomic statement, so two
// concurrent saves serialize on the row and the later write wins whole.
// UpdateContentExpecting is the conditional variant for callers that carry
// a revision token; it fails with ErrConflict when the row has moved on.
type VersionRepository interface {
	Create(ctx context.Context, version *models.Version) error
	GetByBranch(ctx context.Context, branchID string) (*models.Version, error)
	UpdateContent(ctx context.Context, branchID string, content models.Content, updatedBy string, at time.Time) (*models.Version, error)
	UpdateContentExpecting(ctx context.Context, branchID string, content models.Content, updatedBy string, at time.Time, expectedRevision int64) (*models.Version, error)
}
