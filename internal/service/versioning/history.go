package versioning

import (
	"context"
	"fmt"
	"log/slog"

	"tailor/internal/config"
	"tailor/internal/domain"
	"tailor/internal/domain/models"
	"tailor/internal/domain/repositories"
	"tailor/internal/domain/services"
)

// historyService implements the services.HistoryService interface
type historyService struct {
	commitRepo repositories.CommitRepository
	authorizer services.Authorizer
	logger     *slog.Logger
}

// NewHistoryService creates a new history service
func NewHistoryService(
	commitRepo repositories.CommitRepository,
	authorizer services.Authorizer,
	logger *slog.Logger,
) services.HistoryService {
	return &historyService{
		commitRepo: commitRepo,
		authorizer: authorizer,
		logger:     logger,
	}
}

// GetHistory returns one page of a branch's commit log, newest first.
// Requires at least VIEWER access. The limit is clamped server-side.
func (s *historyService) GetHistory(ctx context.Context, req *services.HistoryRequest) (*models.CommitPage, error) {
	if _, err := s.authorizer.AuthorizeBranch(ctx, req.ActorID, req.BranchID, models.AccessViewer); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = config.DefaultHistoryPageSize
	}
	if limit > config.MaxHistoryPageSize {
		limit = config.MaxHistoryPageSize
	}

	var cursor *repositories.HistoryCursor
	if req.Cursor != "" {
		var err error
		cursor, err = decodeCursor(req.Cursor)
		if err != nil {
			return nil, err
		}
	}

	// Fetch one extra row to learn whether an older page exists.
	commits, err := s.commitRepo.ListByBranch(ctx, req.BranchID, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	page := &models.CommitPage{Commits: commits}
	if len(commits) > limit {
		page.Commits = commits[:limit]
		last := page.Commits[limit-1]
		page.NextCursor = encodeCursor(repositories.HistoryCursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return page, nil
}

// GetCommit point-looks-up a commit on a branch. A commit that exists but
// belongs to another branch is reported as not found.
func (s *historyService) GetCommit(ctx context.Context, branchID, commitID, actorID string) (*models.Commit, error) {
	branch, err := s.authorizer.AuthorizeBranch(ctx, actorID, branchID, models.AccessViewer)
	if err != nil {
		return nil, err
	}

	commit, err := s.commitRepo.GetByID(ctx, commitID)
	if err != nil {
		return nil, err
	}
	if commit.BranchID != branch.ID {
		return nil, fmt.Errorf("commit %s: %w", commitID, domain.ErrNotFound)
	}

	return commit, nil
}
