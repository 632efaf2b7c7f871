package versioning

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/sync/errgroup"

	"tailor/internal/config"
	"tailor/internal/domain"
	"tailor/internal/domain/models"
	"tailor/internal/domain/repositories"
	"tailor/internal/domain/services"
)

var branchNameRe = regexp.MustCompile(config.BranchNamePattern)

// branchService implements the services.BranchService interface
type branchService struct {
	branchRepo  repositories.BranchRepository
	versionRepo repositories.VersionRepository
	commitRepo  repositories.CommitRepository
	txManager   repositories.TransactionManager
	authorizer  services.Authorizer
	logger      *slog.Logger
}

// NewBranchService creates a new branch service
func NewBranchService(
	branchRepo repositories.BranchRepository,
	versionRepo repositories.VersionRepository,
	commitRepo repositories.CommitRepository,
	txManager repositories.TransactionManager,
	authorizer services.Authorizer,
	logger *slog.Logger,
) services.BranchService {
	return &branchService{
		branchRepo:  branchRepo,
		versionRepo: versionRepo,
		commitRepo:  commitRepo,
		txManager:   txManager,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// ForkBranch creates a new branch seeded with a copy of the source branch's
// current working content. This is the only place content crosses branch
// boundaries, and it crosses as a copy: later edits on either branch never
// affect the other.
func (s *branchService) ForkBranch(ctx context.Context, req *services.ForkBranchRequest) (*models.Branch, error) {
	if err := s.validateForkRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	source, err := s.authorizer.AuthorizeBranch(ctx, req.ActorID, req.SourceBranchID, models.AccessEditor)
	if err != nil {
		return nil, err
	}
	if source.ProjectID != req.ProjectID {
		return nil, fmt.Errorf("branch %s: %w", req.SourceBranchID, domain.ErrNotFound)
	}

	sourceVersion, err := s.versionRepo.GetByBranch(ctx, source.ID)
	if err != nil {
		return nil, err
	}

	branch := &models.Branch{
		ID:              uuid.NewString(),
		ProjectID:       source.ProjectID,
		Name:            req.Name,
		ParentBranchID:  &source.ID,
		ParentVersionID: &sourceVersion.ID,
		CreatedBy:       req.ActorID,
		CreatedAt:       time.Now(),
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.branchRepo.Create(txCtx, branch); err != nil {
			return err
		}

		version := &models.Version{
			ID:         uuid.NewString(),
			BranchID:   branch.ID,
			TemplateID: sourceVersion.TemplateID,
			Content:    sourceVersion.Content.Clone(),
			UpdatedAt:  branch.CreatedAt,
		}
		return s.versionRepo.Create(txCtx, version)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("branch forked",
		"id", branch.ID,
		"name", branch.Name,
		"project_id", branch.ProjectID,
		"source_branch_id", source.ID,
	)

	return branch, nil
}

// ListBranches returns a project's branches by creation time ascending,
// each decorated with its working version's last-modified time and its most
// recent commit. Requires at least VIEWER access.
func (s *branchService) ListBranches(ctx context.Context, projectID, actorID string) ([]models.BranchSummary, error) {
	if err := s.authorizer.Authorize(ctx, actorID, projectID, models.AccessViewer); err != nil {
		return nil, err
	}

	branches, err := s.branchRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.BranchSummary, len(branches))

	// Decoration is read-only and per-branch independent, so fan out.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range branches {
		g.Go(func() error {
			branch := branches[i]

			version, err := s.versionRepo.GetByBranch(gctx, branch.ID)
			if err != nil {
				return err
			}

			latest, err := s.commitRepo.LatestByBranch(gctx, branch.ID)
			if err != nil {
				return err
			}

			summaries[i] = models.BranchSummary{
				Branch:         branch,
				LastModifiedAt: version.UpdatedAt,
				LatestCommit:   latest,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summaries, nil
}

// validateForkRequest validates a fork branch request
func (s *branchService) validateForkRequest(req *services.ForkBranchRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ActorID, validation.Required),
		validation.Field(&req.SourceBranchID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxBranchNameLength),
			validation.Match(branchNameRe).Error("may only contain letters, digits, '_' and '-'"),
		),
	)
}
