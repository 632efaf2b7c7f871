package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"tailor/internal/domain"
	"tailor/internal/domain/models"
	"tailor/internal/domain/repositories"
)

// PostgresBranchRepository implements the BranchRepository interface
type PostgresBranchRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewBranchRepository creates a new branch repository
func NewBranchRepository(config *RepositoryConfig) repositories.BranchRepository {
	return &PostgresBranchRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new branch. A duplicate name within the project trips
// the unique constraint and surfaces as a structured conflict.
func (r *PostgresBranchRepository) Create(ctx context.Context, branch *models.Branch) error {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, name, parent_branch_id, parent_version_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Branches)

	_, err := executor.Exec(ctx, query,
		branch.ID,
		branch.ProjectID,
		branch.Name,
		branch.ParentBranchID,
		branch.ParentVersionID,
		branch.CreatedBy,
		branch.CreatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			existingID := ""
			if existing, lookupErr := r.GetByName(ctx, branch.ProjectID, branch.Name); lookupErr == nil {
				existingID = existing.ID
			}
			return &domain.ConflictError{
				Message:      fmt.Sprintf("branch '%s' already exists in this project", branch.Name),
				ResourceType: "branch",
				ResourceID:   existingID,
			}
		}
		return fmt.Errorf("create branch: %w", err)
	}

	return nil
}

// GetByID retrieves a branch by ID
func (r *PostgresBranchRepository) GetByID(ctx context.Context, id string) (*models.Branch, error) {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		SELECT id, project_id, name, parent_branch_id, parent_version_id, created_by, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Branches)

	return r.scanBranch(executor.QueryRow(ctx, query, id), id)
}

// GetByName looks up a branch by its project-scoped name
func (r *PostgresBranchRepository) GetByName(ctx context.Context, projectID, name string) (*models.Branch, error) {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		SELECT id, project_id, name, parent_branch_id, parent_version_id, created_by, created_at
		FROM %s
		WHERE project_id = $1 AND name = $2
	`, r.tables.Branches)

	return r.scanBranch(executor.QueryRow(ctx, query, projectID, name), name)
}

// ListByProject retrieves a project's branches by creation time ascending.
// Ties are broken by id so the ordering is stable.
func (r *PostgresBranchRepository) ListByProject(ctx context.Context, projectID string) ([]models.Branch, error) {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		SELECT id, project_id, name, parent_branch_id, parent_version_id, created_by, created_at
		FROM %s
		WHERE project_id = $1
		ORDER BY created_at ASC, id ASC
	`, r.tables.Branches)

	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	var branches []models.Branch
	for rows.Next() {
		var branch models.Branch
		err := rows.Scan(
			&branch.ID,
			&branch.ProjectID,
			&branch.Name,
			&branch.ParentBranchID,
			&branch.ParentVersionID,
			&branch.CreatedBy,
			&branch.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		branches = append(branches, branch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate branches: %w", err)
	}

	if branches == nil {
		branches = []models.Branch{}
	}

	return branches, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresBranchRepository) scanBranch(row rowScanner, ref string) (*models.Branch, error) {
	var branch models.Branch
	err := row.Scan(
		&branch.ID,
		&branch.ProjectID,
		&branch.Name,
		&branch.ParentBranchID,
		&branch.ParentVersionID,
		&branch.CreatedBy,
		&branch.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("branch %s: %w", ref, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return &branch, nil
}
