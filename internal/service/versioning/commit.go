package versioning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"tailor/internal/config"
	"tailor/internal/domain"
	"tailor/internal/domain/models"
	"tailor/internal/domain/repositories"
	"tailor/internal/domain/services"
)

// DefaultCommitMessage is used when no message is supplied and the
// summarizer is unavailable.
const DefaultCommitMessage = "Update resume content"

// commitService implements the services.CommitService interface: it turns
// working state into immutable commits and restores working state from past
// commits. Reverting never rewrites history; it only appends.
type commitService struct {
	versionRepo      repositories.VersionRepository
	commitRepo       repositories.CommitRepository
	projectRepo      repositories.ProjectRepository
	txManager        repositories.TransactionManager
	authorizer       services.Authorizer
	summarizer       services.Summarizer
	summarizeTimeout time.Duration
	logger           *slog.Logger
}

// NewCommitService creates a new commit service. The summarizer is
// best-effort: summarizeTimeout bounds each call and any failure falls back
// to DefaultCommitMessage.
func NewCommitService(
	versionRepo repositories.VersionRepository,
	commitRepo repositories.CommitRepository,
	projectRepo repositories.ProjectRepository,
	txManager repositories.TransactionManager,
	authorizer services.Authorizer,
	summarizer services.Summarizer,
	summarizeTimeout time.Duration,
	logger *slog.Logger,
) services.CommitService {
	if summarizeTimeout <= 0 {
		summarizeTimeout = 5 * time.Second
	}
	return &commitService{
		versionRepo:      versionRepo,
		commitRepo:       commitRepo,
		projectRepo:      projectRepo,
		txManager:        txManager,
		authorizer:       authorizer,
		summarizer:       summarizer,
		summarizeTimeout: summarizeTimeout,
		logger:           logger,
	}
}

// Commit saves the content into the branch's working version and appends an
// immutable snapshot, in one transaction, so the working state and the new
// commit always agree. Requires EDITOR access.
//
// Identical content is not deduplicated: the history is a log of commit
// events, not a diff store.
func (s *commitService) Commit(ctx context.Context, req *services.CommitRequest) (*models.Commit, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.ActorID, validation.Required),
		validation.Field(&req.BranchID, validation.Required),
		validation.Field(&req.Content, validation.NotNil),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.Message != nil && len(*req.Message) > config.MaxCommitMessageLength {
		return nil, fmt.Errorf("message exceeds %d characters: %w", config.MaxCommitMessageLength, domain.ErrValidation)
	}

	branch, err := s.authorizer.AuthorizeBranch(ctx, req.ActorID, req.BranchID, models.AccessEditor)
	if err != nil {
		return nil, err
	}

	message, changes := s.resolveMessage(ctx, req)

	commit, err := s.append(ctx, branch, req.ActorID, req.Content, message, changes)
	if err != nil {
		return nil, err
	}

	s.logger.Info("commit created",
		"id", commit.ID,
		"branch_id", branch.ID,
		"author_id", req.ActorID,
	)

	return commit, nil
}

// Revert restores a branch's working content from a past commit, recorded
// as a new commit so the revert is auditable. Requires EDITOR access. The
// target must belong to the same branch.
func (s *commitService) Revert(ctx context.Context, req *services.RevertRequest) (*models.Commit, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.ActorID, validation.Required),
		validation.Field(&req.BranchID, validation.Required),
		validation.Field(&req.CommitID, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	branch, err := s.authorizer.AuthorizeBranch(ctx, req.ActorID, req.BranchID, models.AccessEditor)
	if err != nil {
		return nil, err
	}

	target, err := s.commitRepo.GetByID(ctx, req.CommitID)
	if err != nil {
		return nil, err
	}
	if target.BranchID != branch.ID {
		return nil, fmt.Errorf("commit %s does not belong to branch %s: %w", req.CommitID, branch.ID, domain.ErrValidation)
	}

	message := fmt.Sprintf("Reverted to commit %s", target.ID)
	commit, err := s.append(ctx, branch, req.ActorID, target.Content.Clone(), message, "")
	if err != nil {
		return nil, err
	}

	s.logger.Info("branch reverted",
		"branch_id", branch.ID,
		"target_commit_id", target.ID,
		"commit_id", commit.ID,
	)

	return commit, nil
}

// append writes the working version and the commit row in one transaction.
func (s *commitService) append(ctx context.Context, branch *models.Branch, actorID string, content models.Content, message, changes string) (*models.Commit, error) {
	now := time.Now()
	commit := &models.Commit{
		ID:        uuid.NewString(),
		BranchID:  branch.ID,
		Content:   content,
		Message:   message,
		Changes:   changes,
		AuthorID:  actorID,
		CreatedAt: now,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.versionRepo.UpdateContent(txCtx, branch.ID, content, actorID, now); err != nil {
			return err
		}
		return s.commitRepo.Create(txCtx, commit)
	})
	if err != nil {
		return nil, err
	}

	if touchErr := s.projectRepo.Touch(ctx, branch.ProjectID); touchErr != nil {
		s.logger.Warn("failed to touch project after commit", "project_id", branch.ProjectID, "error", touchErr)
	}

	return commit, nil
}

// resolveMessage returns the caller's message, or asks the summarizer for
// one. The summarizer call carries a short timeout and any failure is
// downgraded to the fixed default; a commit never fails or blocks on the
// summarizer being available.
func (s *commitService) resolveMessage(ctx context.Context, req *services.CommitRequest) (message, changes string) {
	if req.Message != nil && strings.TrimSpace(*req.Message) != "" {
		return strings.TrimSpace(*req.Message), ""
	}

	if s.summarizer == nil {
		return DefaultCommitMessage, ""
	}

	var oldContent models.Content
	if prev, err := s.commitRepo.LatestByBranch(ctx, req.BranchID); err == nil && prev != nil {
		oldContent = prev.Content
	}

	sctx, cancel := context.WithTimeout(ctx, s.summarizeTimeout)
	defer cancel()

	summary, err := s.summarizer.Summarize(sctx, oldContent, req.Content)
	if err != nil || summary == nil || strings.TrimSpace(summary.Message) == "" {
		if err != nil {
			s.logger.Warn("summarizer unavailable, using default commit message",
				"branch_id", req.BranchID,
				"error", err,
			)
		}
		return DefaultCommitMessage, ""
	}

	return summary.Message, summary.Changes
}
