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
	"tailor/internal/templates"
)

// projectService implements the services.ProjectService interface
type projectService struct {
	projectRepo repositories.ProjectRepository
	branchRepo  repositories.BranchRepository
	versionRepo repositories.VersionRepository
	collabRepo  repositories.CollaboratorRepository
	userRepo    repositories.UserRepository
	txManager   repositories.TransactionManager
	branches    services.BranchService
	authorizer  services.Authorizer
	templates   *templates.Registry
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	branchRepo repositories.BranchRepository,
	versionRepo repositories.VersionRepository,
	collabRepo repositories.CollaboratorRepository,
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	branches services.BranchService,
	authorizer services.Authorizer,
	registry *templates.Registry,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		branchRepo:  branchRepo,
		versionRepo: versionRepo,
		collabRepo:  collabRepo,
		userRepo:    userRepo,
		txManager:   txManager,
		branches:    branches,
		authorizer:  authorizer,
		templates:   registry,
		logger:      logger,
	}
}

// CreateProject creates a project, its root "main" branch and an empty
// working version in one transaction. Partial creation is never observable.
func (s *projectService) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*models.Project, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	project := &models.Project{
		ID:          uuid.NewString(),
		OwnerID:     req.ActorID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.createProjectTree(ctx, project, req.ActorID, models.Content{}); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"name", project.Name,
		"owner_id", project.OwnerID,
	)

	return project, nil
}

// createProjectTree writes project + main branch + working version atomically.
func (s *projectService) createProjectTree(ctx context.Context, project *models.Project, actorID string, content models.Content) error {
	template := s.templates.Default()

	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.projectRepo.Create(txCtx, project); err != nil {
			return err
		}

		branch := &models.Branch{
			ID:        uuid.NewString(),
			ProjectID: project.ID,
			Name:      models.MainBranchName,
			CreatedBy: actorID,
			CreatedAt: project.CreatedAt,
		}
		if err := s.branchRepo.Create(txCtx, branch); err != nil {
			return err
		}

		version := &models.Version{
			ID:         uuid.NewString(),
			BranchID:   branch.ID,
			TemplateID: template.ID,
			Content:    content.Clone(),
			UpdatedAt:  project.CreatedAt,
		}
		return s.versionRepo.Create(txCtx, version)
	})
}

// GetProject retrieves a project with its branches and collaborators.
// Requires at least VIEWER access.
func (s *projectService) GetProject(ctx context.Context, projectID, actorID string) (*models.ProjectDetail, error) {
	if err := s.authorizer.Authorize(ctx, actorID, projectID, models.AccessViewer); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	branches, err := s.branches.ListBranches(ctx, projectID, actorID)
	if err != nil {
		return nil, err
	}

	collabs, err := s.collabRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &models.ProjectDetail{
		Project:       *project,
		Branches:      branches,
		Collaborators: collabs,
	}, nil
}

// ListProjects retrieves projects the actor owns or collaborates on
func (s *projectService) ListProjects(ctx context.Context, actorID string) ([]models.Project, error) {
	return s.projectRepo.ListForUser(ctx, actorID)
}

// requireOwner loads a project and checks the actor owns it. Collaborators
// may see the project but get forbidden; strangers learn nothing.
func (s *projectService) requireOwner(ctx context.Context, projectID, actorID string) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project.OwnerID != actorID {
		if _, collabErr := s.collabRepo.Get(ctx, projectID, actorID); collabErr != nil {
			return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("only the project owner can do this: %w", domain.ErrForbidden)
	}

	return project, nil
}

// DeleteProject deletes a project and everything under it. Owner only.
func (s *projectService) DeleteProject(ctx context.Context, projectID, actorID string) error {
	if _, err := s.requireOwner(ctx, projectID, actorID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return err
	}

	s.logger.Info("project deleted", "id", projectID, "owner_id", actorID)
	return nil
}

// DuplicateProject copies a project's main branch working content into a
// fresh project owned by the actor. Requires at least VIEWER access on the
// source.
func (s *projectService) DuplicateProject(ctx context.Context, req *services.DuplicateProjectRequest) (*models.Project, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.ActorID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxProjectNameLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.authorizer.Authorize(ctx, req.ActorID, req.ProjectID, models.AccessViewer); err != nil {
		return nil, err
	}

	source, err := s.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	mainBranch, err := s.branchRepo.GetByName(ctx, source.ID, models.MainBranchName)
	if err != nil {
		return nil, err
	}

	sourceVersion, err := s.versionRepo.GetByBranch(ctx, mainBranch.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	project := &models.Project{
		ID:          uuid.NewString(),
		OwnerID:     req.ActorID,
		Name:        strings.TrimSpace(req.Name),
		Description: source.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.createProjectTree(ctx, project, req.ActorID, sourceVersion.Content); err != nil {
		return nil, err
	}

	s.logger.Info("project duplicated",
		"id", project.ID,
		"source_id", source.ID,
		"owner_id", req.ActorID,
	)

	return project, nil
}

// ShareProject grants a user access to a project, or updates an existing
// grant's level. Owner only; sharing with the owner is rejected.
func (s *projectService) ShareProject(ctx context.Context, req *services.ShareProjectRequest) (*models.Collaborator, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.ActorID, validation.Required),
		validation.Field(&req.Email, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if !req.AccessLevel.Valid() {
		return nil, fmt.Errorf("unknown access level %q: %w", req.AccessLevel, domain.ErrValidation)
	}

	project, err := s.requireOwner(ctx, req.ProjectID, req.ActorID)
	if err != nil {
		return nil, err
	}

	target, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, err
	}
	if target.ID == project.OwnerID {
		return nil, fmt.Errorf("cannot share a project with its owner: %w", domain.ErrValidation)
	}

	now := time.Now()
	collab := &models.Collaborator{
		ProjectID:   req.ProjectID,
		UserID:      target.ID,
		AccessLevel: req.AccessLevel,
		SharedBy:    req.ActorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.collabRepo.Upsert(ctx, collab); err != nil {
		return nil, err
	}

	s.logger.Info("project shared",
		"project_id", req.ProjectID,
		"user_id", target.ID,
		"access_level", req.AccessLevel,
	)

	return collab, nil
}

// UnshareProject revokes a collaborator grant. Owner only.
func (s *projectService) UnshareProject(ctx context.Context, projectID, actorID, userID string) error {
	if _, err := s.requireOwner(ctx, projectID, actorID); err != nil {
		return err
	}

	if err := s.collabRepo.Delete(ctx, projectID, userID); err != nil {
		return err
	}

	s.logger.Info("project unshared", "project_id", projectID, "user_id", userID)
	return nil
}

// validateCreateRequest validates a create project request
func (s *projectService) validateCreateRequest(req *services.CreateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ActorID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxProjectNameLength),
			validation.By(validateTrimmedNotEmpty),
		),
		validation.Field(&req.Description,
			validation.Length(0, config.MaxProjectDescriptionLength),
		),
	)
}

// validateTrimmedNotEmpty rejects names that are only whitespace
func validateTrimmedNotEmpty(value interface{}) error {
	name, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be a string")
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("cannot be blank")
	}
	return nil
}
