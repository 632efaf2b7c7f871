package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"tailor/internal/domain"
	"tailor/internal/domain/models"
	"tailor/internal/domain/repositories"
)

// PostgresCollaboratorRepository implements the CollaboratorRepository interface
type PostgresCollaboratorRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCollaboratorRepository creates a new collaborator repository
func NewCollaboratorRepository(config *RepositoryConfig) repositories.CollaboratorRepository {
	return &PostgresCollaboratorRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Upsert creates or updates a collaborator grant. Re-sharing the same
// (project, user) pair updates the access level instead of duplicating.
func (r *PostgresCollaboratorRepository) Upsert(ctx context.Context, collab *models.Collaborator) error {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		INSERT INTO %s (project_id, user_id, access_level, shared_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (project_id, user_id)
		DO UPDATE SET access_level = EXCLUDED.access_level, updated_at = EXCLUDED.updated_at
	`, r.tables.Collaborators)

	_, err := executor.Exec(ctx, query,
		collab.ProjectID,
		collab.UserID,
		collab.AccessLevel,
		collab.SharedBy,
		collab.CreatedAt,
		collab.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert collaborator: %w", err)
	}

	return nil
}

// Get retrieves a collaborator grant
func (r *PostgresCollaboratorRepository) Get(ctx context.Context, projectID, userID string) (*models.Collaborator, error) {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		SELECT project_id, user_id, access_level, shared_by, created_at, updated_at
		FROM %s
		WHERE project_id = $1 AND user_id = $2
	`, r.tables.Collaborators)

	var collab models.Collaborator
	err := executor.QueryRow(ctx, query, projectID, userID).Scan(
		&collab.ProjectID,
		&collab.UserID,
		&collab.AccessLevel,
		&collab.SharedBy,
		&collab.CreatedAt,
		&collab.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("collaborator %s on project %s: %w", userID, projectID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get collaborator: %w", err)
	}

	return &collab, nil
}

// ListByProject retrieves all collaborator grants on a project
func (r *PostgresCollaboratorRepository) ListByProject(ctx context.Context, projectID string) ([]models.Collaborator, error) {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		SELECT project_id, user_id, access_level, shared_by, created_at, updated_at
		FROM %s
		WHERE project_id = $1
		ORDER BY created_at ASC
	`, r.tables.Collaborators)

	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list collaborators: %w", err)
	}
	defer rows.Close()

	var collabs []models.Collaborator
	for rows.Next() {
		var collab models.Collaborator
		err := rows.Scan(
			&collab.ProjectID,
			&collab.UserID,
			&collab.AccessLevel,
			&collab.SharedBy,
			&collab.CreatedAt,
			&collab.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan collaborator: %w", err)
		}
		collabs = append(collabs, collab)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collaborators: %w", err)
	}

	if collabs == nil {
		collabs = []models.Collaborator{}
	}

	return collabs, nil
}

// Delete revokes a collaborator grant
func (r *PostgresCollaboratorRepository) Delete(ctx context.Context, projectID, userID string) error {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE project_id = $1 AND user_id = $2
	`, r.tables.Collaborators)

	result, err := executor.Exec(ctx, query, projectID, userID)
	if err != nil {
		return fmt.Errorf("delete collaborator: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("collaborator %s on project %s: %w", userID, projectID, domain.ErrNotFound)
	}

	return nil
}
