package versioning

import (
	"context"
	"fmt"
	"log/slog"

	"tailor/internal/domain"
	"tailor/internal/domain/models"
	"tailor/internal/domain/repositories"
	"tailor/internal/domain/services"
)

// accessGate implements the services.Authorizer interface. It is pure:
// resolution reads committed state and never mutates anything.
type accessGate struct {
	projectRepo repositories.ProjectRepository
	branchRepo  repositories.BranchRepository
	collabRepo  repositories.CollaboratorRepository
	logger      *slog.Logger
}

// NewAccessGate creates the authorizer consulted by every operation before
// any state change.
func NewAccessGate(
	projectRepo repositories.ProjectRepository,
	branchRepo repositories.BranchRepository,
	collabRepo repositories.CollaboratorRepository,
	logger *slog.Logger,
) services.Authorizer {
	return &accessGate{
		projectRepo: projectRepo,
		branchRepo:  branchRepo,
		collabRepo:  collabRepo,
		logger:      logger,
	}
}

// Authorize resolves owner first, then collaborator level.
//
// An actor with no relationship to the project gets ErrNotFound, not
// ErrForbidden: unauthorized callers must not be able to distinguish a
// project they cannot see from one that does not exist. The real cause is
// logged for operators.
func (g *accessGate) Authorize(ctx context.Context, actorID, projectID string, required models.AccessLevel) error {
	if actorID == "" {
		return fmt.Errorf("missing actor: %w", domain.ErrUnauthorized)
	}

	project, err := g.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	if project.OwnerID == actorID {
		return nil
	}

	collab, err := g.collabRepo.Get(ctx, projectID, actorID)
	if err != nil {
		// No grant at all: hide the project's existence.
		g.logger.Debug("access denied, no relationship",
			"project_id", projectID,
			"actor_id", actorID,
		)
		return fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
	}

	if !collab.AccessLevel.AtLeast(required) {
		g.logger.Debug("access denied, insufficient level",
			"project_id", projectID,
			"actor_id", actorID,
			"have", collab.AccessLevel,
			"need", required,
		)
		return fmt.Errorf("%s access required: %w", required, domain.ErrForbidden)
	}

	return nil
}

// AuthorizeBranch resolves the branch, then authorizes against its project.
func (g *accessGate) AuthorizeBranch(ctx context.Context, actorID, branchID string, required models.AccessLevel) (*models.Branch, error) {
	branch, err := g.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}

	if err := g.Authorize(ctx, actorID, branch.ProjectID, required); err != nil {
		return nil, err
	}

	return branch, nil
}
