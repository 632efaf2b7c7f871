package repositories

import (
	"context"
	"time"

	"tailor/internal/domain/models"
)

// HistoryCursor identifies a position in a branch's commit log. Paging is
// keyed on (created_at, id) so same-timestamp commits order deterministically.
type HistoryCursor struct {
	CreatedAt time.Time
	ID        string
}

// CommitRepository persists the append-only commit log. Commits are never
// updated or deleted individually; deletion happens only via project cascade.
type CommitRepository interface {
	Create(ctx context.Context, commit *models.Commit) error
	GetByID(ctx context.Context, id string) (*models.Commit, error)
	// ListByBranch returns up to limit commits strictly older than the
	// cursor (or the newest commits when cursor is nil), newest first.
	ListByBranch(ctx context.Context, branchID string, cursor *HistoryCursor, limit int) ([]models.Commit, error)
	// LatestByBranch returns the branch's most recent commit, or nil
	// when the branch has never been committed.
	LatestByBranch(ctx context.Context, branchID string) (*models.Commit, error)
}
