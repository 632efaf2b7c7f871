package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"tailor/internal/domain"
	"tailor/internal/domain/models"
	"tailor/internal/domain/repositories"
)

// PostgresCommitRepository implements the CommitRepository interface.
// The commits table is append-only: there is no Update or single-row Delete.
type PostgresCommitRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCommitRepository creates a new commit repository
func NewCommitRepository(config *RepositoryConfig) repositories.CommitRepository {
	return &PostgresCommitRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create appends a commit
func (r *PostgresCommitRepository) Create(ctx context.Context, commit *models.Commit) error {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		INSERT INTO %s (id, branch_id, content, message, changes, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Commits)

	_, err := executor.Exec(ctx, query,
		commit.ID,
		commit.BranchID,
		commit.Content,
		commit.Message,
		commit.Changes,
		commit.AuthorID,
		commit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create commit: %w", err)
	}

	return nil
}

// GetByID retrieves a commit by ID
func (r *PostgresCommitRepository) GetByID(ctx context.Context, id string) (*models.Commit, error) {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		SELECT id, branch_id, content, message, changes, author_id, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Commits)

	var commit models.Commit
	err := executor.QueryRow(ctx, query, id).Scan(
		&commit.ID,
		&commit.BranchID,
		&commit.Content,
		&commit.Message,
		&commit.Changes,
		&commit.AuthorID,
		&commit.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("commit %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get commit: %w", err)
	}

	return &commit, nil
}

// ListByBranch returns up to limit commits newest first, keyed on
// (created_at, id) so same-timestamp commits page deterministically.
func (r *PostgresCommitRepository) ListByBranch(ctx context.Context, branchID string, cursor *repositories.HistoryCursor, limit int) ([]models.Commit, error) {
	executor := GetExecutor(ctx, r.pool)

	var query string
	var args []any
	if cursor != nil {
		query = fmt.Sprintf(`
			SELECT id, branch_id, content, message, changes, author_id, created_at
			FROM %s
			WHERE branch_id = $1 AND (created_at, id) < ($2, $3)
			ORDER BY created_at DESC, id DESC
			LIMIT $4
		`, r.tables.Commits)
		args = []any{branchID, cursor.CreatedAt, cursor.ID, limit}
	} else {
		query = fmt.Sprintf(`
			SELECT id, branch_id, content, message, changes, author_id, created_at
			FROM %s
			WHERE branch_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		`, r.tables.Commits)
		args = []any{branchID, limit}
	}

	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}
	defer rows.Close()

	var commits []models.Commit
	for rows.Next() {
		var commit models.Commit
		err := rows.Scan(
			&commit.ID,
			&commit.BranchID,
			&commit.Content,
			&commit.Message,
			&commit.Changes,
			&commit.AuthorID,
			&commit.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan commit: %w", err)
		}
		commits = append(commits, commit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commits: %w", err)
	}

	if commits == nil {
		commits = []models.Commit{}
	}

	return commits, nil
}

// LatestByBranch returns the branch's most recent commit, or nil when the
// branch has never been committed.
func (r *PostgresCommitRepository) LatestByBranch(ctx context.Context, branchID string) (*models.Commit, error) {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		SELECT id, branch_id, content, message, changes, author_id, created_at
		FROM %s
		WHERE branch_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, r.tables.Commits)

	var commit models.Commit
	err := executor.QueryRow(ctx, query, branchID).Scan(
		&commit.ID,
		&commit.BranchID,
		&commit.Content,
		&commit.Message,
		&commit.Changes,
		&commit.AuthorID,
		&commit.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest commit: %w", err)
	}

	return &commit, nil
}
