package versioning

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"tailor/internal/domain"
	"tailor/internal/domain/models"
	"tailor/internal/domain/repositories"
	"tailor/internal/domain/services"
)

// draftService implements the services.DraftService interface: the
// working-state engine behind the autosave path. It creates no history
// entries; commits are the commit engine's job.
type draftService struct {
	versionRepo repositories.VersionRepository
	projectRepo repositories.ProjectRepository
	authorizer  services.Authorizer
	logger      *slog.Logger
}

// NewDraftService creates a new draft service
func NewDraftService(
	versionRepo repositories.VersionRepository,
	projectRepo repositories.ProjectRepository,
	authorizer services.Authorizer,
	logger *slog.Logger,
) services.DraftService {
	return &draftService{
		versionRepo: versionRepo,
		projectRepo: projectRepo,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// SaveDraft overwrites the branch's working content. Requires EDITOR access.
//
// The write is a single atomic statement against the version row, so
// concurrent saves to the same branch serialize in the store and the last
// write wins whole (no interleaved hybrid). Saving identical content is a
// legal no-op write that still bumps the last-modified metadata.
func (s *draftService) SaveDraft(ctx context.Context, req *services.SaveDraftRequest) (*models.Version, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.ActorID, validation.Required),
		validation.Field(&req.BranchID, validation.Required),
		validation.Field(&req.Content, validation.NotNil),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	branch, err := s.authorizer.AuthorizeBranch(ctx, req.ActorID, req.BranchID, models.AccessEditor)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var version *models.Version
	if req.ExpectedRevision != nil {
		version, err = s.versionRepo.UpdateContentExpecting(ctx, req.BranchID, req.Content, req.ActorID, now, *req.ExpectedRevision)
	} else {
		version, err = s.versionRepo.UpdateContent(ctx, req.BranchID, req.Content, req.ActorID, now)
	}
	if err != nil {
		return nil, err
	}

	// Recent-activity ordering; failure here must not fail the save.
	if touchErr := s.projectRepo.Touch(ctx, branch.ProjectID); touchErr != nil {
		s.logger.Warn("failed to touch project after save", "project_id", branch.ProjectID, "error", touchErr)
	}

	s.logger.Debug("draft saved",
		"branch_id", req.BranchID,
		"revision", version.Revision,
		"actor_id", req.ActorID,
	)

	return version, nil
}

// GetDraft reads a branch's working version. Requires at least VIEWER access.
func (s *draftService) GetDraft(ctx context.Context, branchID, actorID string) (*models.Version, error) {
	if _, err := s.authorizer.AuthorizeBranch(ctx, actorID, branchID, models.AccessViewer); err != nil {
		return nil, err
	}

	return s.versionRepo.GetByBranch(ctx, branchID)
}
