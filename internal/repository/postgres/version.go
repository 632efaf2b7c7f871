package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"tailor/internal/domain"
	"tailor/internal/domain/models"
	"tailor/internal/domain/repositories"
)

// PostgresVersionRepository implements the VersionRepository interface
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *RepositoryConfig) repositories.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a branch's working version. The branch_id unique
// constraint enforces the one-version-per-branch invariant.
func (r *PostgresVersionRepository) Create(ctx context.Context, version *models.Version) error {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		INSERT INTO %s (id, branch_id, template_id, content, revision, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Versions)

	_, err := executor.Exec(ctx, query,
		version.ID,
		version.BranchID,
		version.TemplateID,
		version.Content,
		version.Revision,
		version.UpdatedAt,
		version.UpdatedBy,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("branch %s already has a working version", version.BranchID),
				ResourceType: "version",
			}
		}
		return fmt.Errorf("create version: %w", err)
	}

	return nil
}

// GetByBranch retrieves a branch's working version
func (r *PostgresVersionRepository) GetByBranch(ctx context.Context, branchID string) (*models.Version, error) {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		SELECT id, branch_id, template_id, content, revision, updated_at, updated_by
		FROM %s
		WHERE branch_id = $1
	`, r.tables.Versions)

	var version models.Version
	err := executor.QueryRow(ctx, query, branchID).Scan(
		&version.ID,
		&version.BranchID,
		&version.TemplateID,
		&version.Content,
		&version.Revision,
		&version.UpdatedAt,
		&version.UpdatedBy,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("working version for branch %s: %w", branchID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get version: %w", err)
	}

	return &version, nil
}

// UpdateContent replaces the working content in a single atomic statement.
// Concurrent writers serialize on the row lock and each write lands whole,
// which is the per-branch single-writer guarantee: the last write wins and
// no interleaved hybrid is ever observable.
func (r *PostgresVersionRepository) UpdateContent(ctx context.Context, branchID string, content models.Content, updatedBy string, at time.Time) (*models.Version, error) {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $1, revision = revision + 1, updated_at = $2, updated_by = $3
		WHERE branch_id = $4
		RETURNING id, branch_id, template_id, content, revision, updated_at, updated_by
	`, r.tables.Versions)

	var version models.Version
	err := executor.QueryRow(ctx, query, content, at, updatedBy, branchID).Scan(
		&version.ID,
		&version.BranchID,
		&version.TemplateID,
		&version.Content,
		&version.Revision,
		&version.UpdatedAt,
		&version.UpdatedBy,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("working version for branch %s: %w", branchID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update version content: %w", err)
	}

	return &version, nil
}

// UpdateContentExpecting is the compare-and-set variant: the write only
// lands if the revision counter still matches the caller's token.
func (r *PostgresVersionRepository) UpdateContentExpecting(ctx context.Context, branchID string, content models.Content, updatedBy string, at time.Time, expectedRevision int64) (*models.Version, error) {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $1, revision = revision + 1, updated_at = $2, updated_by = $3
		WHERE branch_id = $4 AND revision = $5
		RETURNING id, branch_id, template_id, content, revision, updated_at, updated_by
	`, r.tables.Versions)

	var version models.Version
	err := executor.QueryRow(ctx, query, content, at, updatedBy, branchID, expectedRevision).Scan(
		&version.ID,
		&version.BranchID,
		&version.TemplateID,
		&version.Content,
		&version.Revision,
		&version.UpdatedAt,
		&version.UpdatedBy,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			// Distinguish a missing row from a lost race.
			if _, getErr := r.GetByBranch(ctx, branchID); getErr != nil {
				return nil, getErr
			}
			return nil, fmt.Errorf("working version for branch %s moved past revision %d: %w", branchID, expectedRevision, domain.ErrConflict)
		}
		return nil, fmt.Errorf("update version content: %w", err)
	}

	return &version, nil
}
