package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediafolders/internal/auth"
	"mediafolders/internal/config"
	"mediafolders/internal/handler"
	"mediafolders/internal/metrics"
	"mediafolders/internal/middleware"
	"mediafolders/internal/repository/postgres"
	postgresMedia "mediafolders/internal/repository/postgres/mediafolders"
	serviceAuth "mediafolders/internal/service/auth"
	serviceMedia "mediafolders/internal/service/mediafolders"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Debug log is tee'd from the main logger when enabled
	var debugLog *config.DebugLog
	if cfg.DebugLog {
		var err error
		debugLog, err = config.NewDebugLog(cfg.DebugLogFile, cfg.DebugLogMaxSizeMB, cfg.DebugLogMaxBackups)
		if err != nil {
			log.Fatalf("Failed to open debug log: %v", err)
		}
		defer debugLog.Close()
	}

	// Setup structured logging
	logger := config.NewLogger(cfg, os.Stdout, debugLog)
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"debug_log", cfg.DebugLog,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session token verifier: JWKS when configured, shared secret otherwise
	var verifier auth.TokenVerifier
	var err error
	if cfg.JWKSURL != "" {
		verifier, err = auth.NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
	} else {
		logger.Warn("using shared-secret token verification (development only)")
		verifier, err = auth.NewHMACVerifier(cfg.JWTSecret, logger)
	}
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}
	defer verifier.Close()

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", cfg.DBMaxConns,
		"min_conns", cfg.DBMinConns,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	if cfg.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		logger.Info("schema ensured", "folders_table", tables.Folders)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgresMedia.NewFolderRepository(repoConfig)
	assocRepo := postgresMedia.NewAssociationRepository(repoConfig)
	attachmentRepo := postgresMedia.NewAttachmentRepository(repoConfig)
	settingsRepo := postgresMedia.NewSettingsRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	defaults, err := config.DefaultSettings()
	if err != nil {
		log.Fatalf("Failed to load default settings: %v", err)
	}

	// Create services
	folderService := serviceMedia.NewFolderService(folderRepo, assocRepo, txManager, logger)
	assocService := serviceMedia.NewAssociationService(folderRepo, assocRepo, attachmentRepo, folderService, txManager, logger)
	treeService := serviceMedia.NewTreeService(folderRepo, assocRepo, logger)
	settingsService := serviceMedia.NewSettingsService(settingsRepo, folderRepo, defaults, logger)
	queryFilter := serviceMedia.NewQueryFilter(logger)
	attachmentService := serviceMedia.NewAttachmentService(
		attachmentRepo,
		assocRepo,
		folderRepo,
		assocService,
		settingsService,
		queryFilter,
		txManager,
		logger,
	)
	authorizer := serviceAuth.NewCapabilityAuthorizer(cfg.RequiredCapability, logger)

	// Metrics
	appMetrics := metrics.New()
	appMetrics.Registry().MustRegister(metrics.NewLibraryCollector(treeService, 5*time.Second, 30*time.Second, logger))

	logger.Info("services initialized")

	handlers := &handler.Handlers{
		Folder:     handler.NewFolderHandler(folderService, settingsService, logger),
		Tree:       handler.NewTreeHandler(treeService, logger),
		Attachment: handler.NewAttachmentHandler(attachmentService, folderService, settingsService, logger),
		Assignment: handler.NewAssignmentHandler(assocService, folderService, appMetrics, logger),
		Settings:   handler.NewSettingsHandler(settingsService, logger),
		Health:     handler.NewHealthHandler(pool, logger),
		Metrics:    appMetrics.Handler(),
	}
	if debugLog != nil {
		handlers.DebugLog = handler.NewDebugLogHandler(debugLog, logger)
		logger.Warn("debug log endpoints enabled", "path", debugLog.Path())
	}

	// Every /api and /debug route: valid session token, then capability check
	requireAuth := middleware.Auth(verifier, logger)
	requireCapability := middleware.RequireCapability(authorizer)
	protect := func(next http.Handler) http.Handler {
		return requireAuth(requireCapability(next))
	}

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handlers, protect)

	// Build middleware chain
	// Order: CORS → RequestLogger → Recovery → Routes
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger, appMetrics)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
