package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tailor/internal/auth"
	"tailor/internal/config"
	"tailor/internal/domain/services"
	"tailor/internal/handler"
	"tailor/internal/middleware"
	"tailor/internal/repository/postgres"
	"tailor/internal/service/summarize"
	"tailor/internal/service/versioning"
	"tailor/internal/templates"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
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

	// Initialize template registry
	registry, err := templates.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize template registry: %v", err)
	}
	logger.Info("template registry initialized", "templates", len(registry.List()))

	// Commit message summarizer: LLM-backed when an API key is configured,
	// otherwise a content-diff fallback.
	var summarizer services.Summarizer
	if cfg.AnthropicAPIKey != "" {
		summarizer, err = summarize.NewAnthropicSummarizer(cfg.AnthropicAPIKey, cfg.SummarizerModel, logger)
		if err != nil {
			log.Fatalf("Failed to create summarizer: %v", err)
		}
		logger.Info("summarizer configured", "model", cfg.SummarizerModel)
	} else {
		summarizer = summarize.NewStaticSummarizer()
		logger.Info("summarizer configured", "model", "static")
	}

	// Create services
	authorizer := versioning.NewAccessGate(projectRepo, branchRepo, collabRepo, logger)
	branchService := versioning.NewBranchService(branchRepo, versionRepo, commitRepo, txManager, authorizer, logger)
	projectService := versioning.NewProjectService(projectRepo, branchRepo, versionRepo, collabRepo, userRepo, txManager, branchService, authorizer, registry, logger)
	draftService := versioning.NewDraftService(versionRepo, projectRepo, authorizer, logger)
	commitService := versioning.NewCommitService(versionRepo, commitRepo, projectRepo, txManager, authorizer, summarizer, cfg.SummarizeTimeout, logger)
	historyService := versioning.NewHistoryService(commitRepo, authorizer, logger)

	// Create handlers
	projectHandler := handler.NewProjectHandler(projectService, logger)
	branchHandler := handler.NewBranchHandler(branchService, draftService, logger)
	commitHandler := handler.NewCommitHandler(commitService, historyService, logger)
	templateHandler := handler.NewTemplateHandler(registry, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", projectHandler.HealthCheck)

	// Project routes
	mux.HandleFunc("GET /api/projects", projectHandler.ListProjects)
	mux.HandleFunc("POST /api/projects", projectHandler.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", projectHandler.GetProject)
	mux.HandleFunc("DELETE /api/projects/{id}", projectHandler.DeleteProject)
	mux.HandleFunc("POST /api/projects/{id}/duplicate", projectHandler.DuplicateProject)

	// Sharing routes (owner only)
	mux.HandleFunc("POST /api/projects/{id}/share", projectHandler.ShareProject)
	mux.HandleFunc("DELETE /api/projects/{id}/share/{userId}", projectHandler.UnshareProject)

	// Branch routes
	mux.HandleFunc("GET /api/projects/{id}/branches", branchHandler.ListBranches)
	mux.HandleFunc("POST /api/projects/{id}/branches", branchHandler.ForkBranch)

	// Draft routes
	mux.HandleFunc("GET /api/branches/{id}/draft", branchHandler.GetDraft)
	mux.HandleFunc("PUT /api/branches/{id}/draft", branchHandler.SaveDraft)

	// Commit and history routes
	mux.HandleFunc("POST /api/branches/{id}/commits", commitHandler.Commit)
	mux.HandleFunc("GET /api/branches/{id}/commits", commitHandler.GetHistory)
	mux.HandleFunc("GET /api/branches/{id}/commits/{commitId}", commitHandler.GetCommit)
	mux.HandleFunc("POST /api/branches/{id}/revert", commitHandler.Revert)

	// Template catalog
	mux.HandleFunc("GET /api/templates", templateHandler.ListTemplates)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → RateLimit → Routes
	// The rate limiter keys on the authenticated user, so it sits inside auth.
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	httpHandler = rateLimiter.Middleware(httpHandler)
	httpHandler = middleware.AuthMiddleware(jwtVerifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server and shut down cleanly on SIGINT/SIGTERM
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}
}
