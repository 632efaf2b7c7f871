package versioning

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"tailor/internal/domain"
	"tailor/internal/domain/models"
	"tailor/internal/domain/repositories"
	"tailor/internal/domain/services"
	"tailor/internal/templates"
)

// In-memory repository implementations for service tests. They enforce the
// same uniqueness and not-found semantics as the postgres layer.

type memProjectRepo struct {
	mu       sync.Mutex
	projects map[string]models.Project
	collabs  *memCollaboratorRepo
}

func newMemProjectRepo(collabs *memCollaboratorRepo) *memProjectRepo {
	return &memProjectRepo{projects: make(map[string]models.Project), collabs: collabs}
}

func (r *memProjectRepo) Create(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; ok {
		return &domain.ConflictError{Message: "project already exists", ResourceType: "project", ResourceID: project.ID}
	}
	r.projects[project.ID] = *project
	return nil
}

func (r *memProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *memProjectRepo) ListForUser(ctx context.Context, userID string) ([]models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Project
	for _, p := range r.projects {
		if p.OwnerID == userID {
			out = append(out, p)
			continue
		}
		if r.collabs != nil && r.collabs.has(p.ID, userID) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memProjectRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	delete(r.projects, id)
	return nil
}

func (r *memProjectRepo) Touch(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	p.UpdatedAt = time.Now()
	r.projects[id] = p
	return nil
}

type memBranchRepo struct {
	mu       sync.Mutex
	branches map[string]models.Branch
}

func newMemBranchRepo() *memBranchRepo {
	return &memBranchRepo{branches: make(map[string]models.Branch)}
}

func (r *memBranchRepo) Create(ctx context.Context, branch *models.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.branches {
		if b.ProjectID == branch.ProjectID && b.Name == branch.Name {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("branch %q already exists", branch.Name),
				ResourceType: "branch",
				ResourceID:   b.ID,
			}
		}
	}
	r.branches[branch.ID] = *branch
	return nil
}

func (r *memBranchRepo) GetByID(ctx context.Context, id string) (*models.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.branches[id]
	if !ok {
		return nil, fmt.Errorf("branch %s: %w", id, domain.ErrNotFound)
	}
	return &b, nil
}

func (r *memBranchRepo) ListByProject(ctx context.Context, projectID string) ([]models.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Branch
	for _, b := range r.branches {
		if b.ProjectID == projectID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memBranchRepo) GetByName(ctx context.Context, projectID, name string) (*models.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.branches {
		if b.ProjectID == projectID && b.Name == name {
			return &b, nil
		}
	}
	return nil, fmt.Errorf("branch %q: %w", name, domain.ErrNotFound)
}

type memVersionRepo struct {
	mu       sync.Mutex
	byBranch map[string]models.Version
}

func newMemVersionRepo() *memVersionRepo {
	return &memVersionRepo{byBranch: make(map[string]models.Version)}
}

func (r *memVersionRepo) Create(ctx context.Context, version *models.Version) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byBranch[version.BranchID]; ok {
		return &domain.ConflictError{Message: "version already exists", ResourceType: "version", ResourceID: version.ID}
	}
	r.byBranch[version.BranchID] = *version
	return nil
}

func (r *memVersionRepo) GetByBranch(ctx context.Context, branchID string) (*models.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byBranch[branchID]
	if !ok {
		return nil, fmt.Errorf("version for branch %s: %w", branchID, domain.ErrNotFound)
	}
	v.Content = v.Content.Clone()
	return &v, nil
}

func (r *memVersionRepo) UpdateContent(ctx context.Context, branchID string, content models.Content, updatedBy string, at time.Time) (*models.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byBranch[branchID]
	if !ok {
		return nil, fmt.Errorf("version for branch %s: %w", branchID, domain.ErrNotFound)
	}
	v.Content = content.Clone()
	v.Revision++
	v.UpdatedAt = at
	v.UpdatedBy = &updatedBy
	r.byBranch[branchID] = v
	return &v, nil
}

func (r *memVersionRepo) UpdateContentExpecting(ctx context.Context, branchID string, content models.Content, updatedBy string, at time.Time, expectedRevision int64) (*models.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byBranch[branchID]
	if !ok {
		return nil, fmt.Errorf("version for branch %s: %w", branchID, domain.ErrNotFound)
	}
	if v.Revision != expectedRevision {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("revision moved from %d to %d", expectedRevision, v.Revision),
			ResourceType: "version",
			ResourceID:   v.ID,
		}
	}
	v.Content = content.Clone()
	v.Revision++
	v.UpdatedAt = at
	v.UpdatedBy = &updatedBy
	r.byBranch[branchID] = v
	return &v, nil
}

type memCommitRepo struct {
	mu      sync.Mutex
	commits []models.Commit
}

func newMemCommitRepo() *memCommitRepo {
	return &memCommitRepo{}
}

func (r *memCommitRepo) Create(ctx context.Context, commit *models.Commit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits = append(r.commits, *commit)
	return nil
}

func (r *memCommitRepo) GetByID(ctx context.Context, id string) (*models.Commit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.commits {
		if c.ID == id {
			c.Content = c.Content.Clone()
			return &c, nil
		}
	}
	return nil, fmt.Errorf("commit %s: %w", id, domain.ErrNotFound)
}

func (r *memCommitRepo) ListByBranch(ctx context.Context, branchID string, cursor *repositories.HistoryCursor, limit int) ([]models.Commit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []models.Commit
	for _, c := range r.commits {
		if c.BranchID != branchID {
			continue
		}
		if cursor != nil && !olderThan(c, cursor) {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// olderThan implements the keyset comparison (created_at, id) < (cursor).
func olderThan(c models.Commit, cursor *repositories.HistoryCursor) bool {
	if c.CreatedAt.Before(cursor.CreatedAt) {
		return true
	}
	return c.CreatedAt.Equal(cursor.CreatedAt) && c.ID < cursor.ID
}

func (r *memCommitRepo) LatestByBranch(ctx context.Context, branchID string) (*models.Commit, error) {
	list, err := r.ListByBranch(ctx, branchID, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

type memCollaboratorRepo struct {
	mu      sync.Mutex
	collabs map[string]models.Collaborator
}

func newMemCollaboratorRepo() *memCollaboratorRepo {
	return &memCollaboratorRepo{collabs: make(map[string]models.Collaborator)}
}

func collabKey(projectID, userID string) string {
	return projectID + "/" + userID
}

func (r *memCollaboratorRepo) Upsert(ctx context.Context, collab *models.Collaborator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collabs[collabKey(collab.ProjectID, collab.UserID)] = *collab
	return nil
}

func (r *memCollaboratorRepo) Get(ctx context.Context, projectID, userID string) (*models.Collaborator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.collabs[collabKey(projectID, userID)]
	if !ok {
		return nil, fmt.Errorf("collaborator: %w", domain.ErrNotFound)
	}
	return &c, nil
}

func (r *memCollaboratorRepo) ListByProject(ctx context.Context, projectID string) ([]models.Collaborator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Collaborator
	for _, c := range r.collabs {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCollaboratorRepo) Delete(ctx context.Context, projectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.collabs[collabKey(projectID, userID)]; !ok {
		return fmt.Errorf("collaborator: %w", domain.ErrNotFound)
	}
	delete(r.collabs, collabKey(projectID, userID))
	return nil
}

func (r *memCollaboratorRepo) has(projectID, userID string) bool {
	_, ok := r.collabs[collabKey(projectID, userID)]
	return ok
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]models.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return &u, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

// fakeTxManager runs the function directly; the in-memory repos have no
// transaction semantics to coordinate.
type fakeTxManager struct{}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fakeSummarizer returns a canned summary, an error, or blocks past the
// caller's deadline.
type fakeSummarizer struct {
	summary *services.Summary
	err     error
	delay   time.Duration
	calls   int
	mu      sync.Mutex
}

func (s *fakeSummarizer) Summarize(ctx context.Context, oldContent, newContent models.Content) (*services.Summary, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.summary, s.err
}

// testEnv wires the full service graph over the in-memory repositories.
type testEnv struct {
	projects   services.ProjectService
	branches   services.BranchService
	drafts     services.DraftService
	commits    services.CommitService
	history    services.HistoryService
	authorizer services.Authorizer

	projectRepo *memProjectRepo
	branchRepo  *memBranchRepo
	versionRepo *memVersionRepo
	commitRepo  *memCommitRepo
	collabRepo  *memCollaboratorRepo
	userRepo    *memUserRepo
	summarizer  *fakeSummarizer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry, err := templates.NewRegistry()
	if err != nil {
		t.Fatalf("templates.NewRegistry() = %v", err)
	}

	collabRepo := newMemCollaboratorRepo()
	projectRepo := newMemProjectRepo(collabRepo)
	branchRepo := newMemBranchRepo()
	versionRepo := newMemVersionRepo()
	commitRepo := newMemCommitRepo()
	userRepo := newMemUserRepo()
	txManager := &fakeTxManager{}
	summarizer := &fakeSummarizer{}

	authorizer := NewAccessGate(projectRepo, branchRepo, collabRepo, logger)
	branches := NewBranchService(branchRepo, versionRepo, commitRepo, txManager, authorizer, logger)
	projects := NewProjectService(projectRepo, branchRepo, versionRepo, collabRepo, userRepo, txManager, branches, authorizer, registry, logger)
	drafts := NewDraftService(versionRepo, projectRepo, authorizer, logger)
	commits := NewCommitService(versionRepo, commitRepo, projectRepo, txManager, authorizer, summarizer, 50*time.Millisecond, logger)
	history := NewHistoryService(commitRepo, authorizer, logger)

	return &testEnv{
		projects:    projects,
		branches:    branches,
		drafts:      drafts,
		commits:     commits,
		history:     history,
		authorizer:  authorizer,
		projectRepo: projectRepo,
		branchRepo:  branchRepo,
		versionRepo: versionRepo,
		commitRepo:  commitRepo,
		collabRepo:  collabRepo,
		userRepo:    userRepo,
		summarizer:  summarizer,
	}
}

// createProject makes a project for the owner and returns it with its main
// branch.
func (e *testEnv) createProject(t *testing.T, ownerID, name string) (*models.Project, *models.Branch) {
	t.Helper()

	project, err := e.projects.CreateProject(context.Background(), &services.CreateProjectRequest{
		ActorID: ownerID,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("CreateProject(%q) = %v", name, err)
	}

	branch, err := e.branchRepo.GetByName(context.Background(), project.ID, models.MainBranchName)
	if err != nil {
		t.Fatalf("main branch lookup: %v", err)
	}
	return project, branch
}

// share grants a collaborator level directly in the store.
func (e *testEnv) share(t *testing.T, projectID, userID string, level models.AccessLevel) {
	t.Helper()

	err := e.collabRepo.Upsert(context.Background(), &models.Collaborator{
		ProjectID:   projectID,
		UserID:      userID,
		AccessLevel: level,
		SharedBy:    "test",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("Upsert collaborator: %v", err)
	}
}

// addUser registers a user in the directory.
func (e *testEnv) addUser(t *testing.T, id, email string) {
	t.Helper()

	err := e.userRepo.Create(context.Background(), &models.User{
		ID:        id,
		Email:     email,
		Name:      "Test User",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}
}
