package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"tailor/internal/config"
	"tailor/internal/domain/models"
	"tailor/internal/domain/services"
	"tailor/internal/repository/postgres"
	"tailor/internal/service/summarize"
	"tailor/internal/service/versioning"
	"tailor/internal/templates"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const (
	demoUserID       = "11111111-1111-1111-1111-111111111111"
	demoReviewerID   = "22222222-2222-2222-2222-222222222222"
	demoUserEmail    = "demo@example.com"
	demoReviewerMail = "reviewer@example.com"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo data")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	// Seed demo users
	if err := ensureDemoUsers(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to seed demo users: %v", err)
	}

	// Create repositories and services, then seed through the service layer so
	// the demo data goes through the same paths as production traffic.
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	projectRepo := postgres.NewProjectRepository(repoConfig)
	branchRepo := postgres.NewBranchRepository(repoConfig)
	versionRepo := postgres.NewVersionRepository(repoConfig)
	commitRepo := postgres.NewCommitRepository(repoConfig)
	collabRepo := postgres.NewCollaboratorRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	registry, err := templates.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize template registry: %v", err)
	}

	authorizer := versioning.NewAccessGate(projectRepo, branchRepo, collabRepo, logger)
	branchService := versioning.NewBranchService(branchRepo, versionRepo, commitRepo, txManager, authorizer, logger)
	projectService := versioning.NewProjectService(projectRepo, branchRepo, versionRepo, collabRepo, userRepo, txManager, branchService, authorizer, registry, logger)
	draftService := versioning.NewDraftService(versionRepo, projectRepo, authorizer, logger)
	commitService := versioning.NewCommitService(versionRepo, commitRepo, projectRepo, txManager, authorizer, summarize.NewStaticSummarizer(), cfg.SummarizeTimeout, logger)

	if err := seedDemoProject(ctx, projectService, branchService, draftService, commitService); err != nil {
		log.Fatalf("Failed to seed demo project: %v", err)
	}

	log.Println("🎉 Seeding complete!")
}

// runSchema creates tables and indexes if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	for _, stmt := range schemaStatements(tables, tablePrefix) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// schemaStatements returns the DDL in dependency order. Resume content is
// structured and stored as JSONB; message and changes hold prose from the
// summarizer, so they stay TEXT.
func schemaStatements(tables *postgres.TableNames, tablePrefix string) []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Users + ` (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Projects + ` (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL REFERENCES ` + tables.Users + `(id),
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Branches + ` (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES ` + tables.Projects + `(id) ON DELETE CASCADE,
			name VARCHAR(100) NOT NULL,
			parent_branch_id UUID REFERENCES ` + tables.Branches + `(id) ON DELETE SET NULL,
			parent_version_id UUID,
			created_by UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(project_id, name)
		)`,
		// One mutable working version per branch.
		`CREATE TABLE IF NOT EXISTS ` + tables.Versions + ` (
			id UUID PRIMARY KEY,
			branch_id UUID NOT NULL UNIQUE REFERENCES ` + tables.Branches + `(id) ON DELETE CASCADE,
			template_id TEXT NOT NULL,
			content JSONB NOT NULL,
			revision BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_by UUID
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Commits + ` (
			id UUID PRIMARY KEY,
			branch_id UUID NOT NULL REFERENCES ` + tables.Branches + `(id) ON DELETE CASCADE,
			content JSONB NOT NULL,
			message TEXT NOT NULL,
			changes TEXT NOT NULL DEFAULT '',
			author_id UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Collaborators + ` (
			project_id UUID NOT NULL REFERENCES ` + tables.Projects + `(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES ` + tables.Users + `(id) ON DELETE CASCADE,
			access_level TEXT NOT NULL,
			shared_by UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY(project_id, user_id)
		)`,
		// History pagination walks this index newest-first.
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `commits_branch_history ON ` + tables.Commits + `(branch_id, created_at DESC, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `branches_project_id ON ` + tables.Branches + `(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `projects_owner_id ON ` + tables.Projects + `(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `collaborators_user_id ON ` + tables.Collaborators + `(user_id)`,
	}
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Collaborators,
		tables.Commits,
		tables.Versions,
		tables.Branches,
		tables.Projects,
		tables.Users,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}

// ensureDemoUsers inserts the demo accounts if they don't exist
func ensureDemoUsers(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	query := `
		INSERT INTO ` + tables.Users + ` (id, email, name, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`
	now := time.Now()
	if _, err := pool.Exec(ctx, query, demoUserID, demoUserEmail, "Demo User", now); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, query, demoReviewerID, demoReviewerMail, "Demo Reviewer", now); err != nil {
		return err
	}
	return nil
}

// seedDemoProject builds a small but realistic history: a project with
// commits on main, a fork tailored for a specific posting, and a reviewer
// with comment access.
func seedDemoProject(
	ctx context.Context,
	projects services.ProjectService,
	branches services.BranchService,
	drafts services.DraftService,
	commits services.CommitService,
) error {
	project, err := projects.CreateProject(ctx, &services.CreateProjectRequest{
		ActorID:     demoUserID,
		Name:        "Software Engineer Resume",
		Description: "Base resume for backend roles",
	})
	if err != nil {
		return err
	}
	log.Printf("✅ Created project %s", project.ID)

	detail, err := projects.GetProject(ctx, project.ID, demoUserID)
	if err != nil {
		return err
	}
	mainBranchID := detail.Branches[0].ID

	baseContent := map[string]any{
		"basics": map[string]any{
			"name":  "Demo User",
			"email": demoUserEmail,
			"label": "Backend Engineer",
		},
		"summary": "Backend engineer with six years of experience building Go services.",
		"experience": []any{
			map[string]any{
				"company":   "Acme Corp",
				"position":  "Senior Software Engineer",
				"startDate": "2021-03",
				"highlights": []any{
					"Led migration of the billing pipeline to event-driven processing",
					"Cut p99 API latency from 900ms to 120ms",
				},
			},
		},
		"skills": []any{"Go", "PostgreSQL", "Kubernetes"},
	}

	if _, err := drafts.SaveDraft(ctx, &services.SaveDraftRequest{
		ActorID:  demoUserID,
		BranchID: mainBranchID,
		Content:  baseContent,
	}); err != nil {
		return err
	}

	msg := "Initial resume draft"
	if _, err := commits.Commit(ctx, &services.CommitRequest{
		ActorID:  demoUserID,
		BranchID: mainBranchID,
		Content:  baseContent,
		Message:  &msg,
	}); err != nil {
		return err
	}
	log.Println("✅ Committed baseline on main")

	fork, err := branches.ForkBranch(ctx, &services.ForkBranchRequest{
		ActorID:        demoUserID,
		ProjectID:      project.ID,
		SourceBranchID: mainBranchID,
		Name:           "acme-platform-team",
	})
	if err != nil {
		return err
	}
	log.Printf("✅ Forked branch %s (%s)", fork.Name, fork.ID)

	tailored := map[string]any{}
	for k, v := range baseContent {
		tailored[k] = v
	}
	tailored["summary"] = "Backend engineer focused on platform reliability and developer tooling."

	if _, err := commits.Commit(ctx, &services.CommitRequest{
		ActorID:  demoUserID,
		BranchID: fork.ID,
		Content:  tailored,
	}); err != nil {
		return err
	}
	log.Println("✅ Committed tailored summary on fork")

	if _, err := projects.ShareProject(ctx, &services.ShareProjectRequest{
		ActorID:     demoUserID,
		ProjectID:   project.ID,
		Email:       demoReviewerMail,
		AccessLevel: models.AccessCommenter,
	}); err != nil {
		return err
	}
	log.Println("✅ Shared project with reviewer")

	return nil
}
