package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"mediafolders/internal/auth"
	"mediafolders/internal/config"
	"mediafolders/internal/domain/models"
	"mediafolders/internal/repository/postgres"
	postgresMedia "mediafolders/internal/repository/postgres/mediafolders"
	"mediafolders/internal/seed"
	serviceMedia "mediafolders/internal/service/mediafolders"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed media")
	clearData := flag.Bool("clear-data", false, "Clear all folders, attachments and settings (keep schema)")
	devToken := flag.Bool("dev-token", false, "Print an administrator session token signed with JWT_SECRET")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	switch {
	case *clearData:
		log.Printf("Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	case *schemaOnly:
		log.Printf("Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	default:
		log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: 4})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("Dropping all tables...")
		if err := postgres.DropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		printDevToken(cfg, *devToken)
		return
	}

	if *clearData {
		if err := postgres.ClearData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("Data cleared successfully")
		return
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
	settingsService := serviceMedia.NewSettingsService(settingsRepo, folderRepo, defaults, logger)
	attachmentService := serviceMedia.NewAttachmentService(
		attachmentRepo,
		assocRepo,
		folderRepo,
		assocService,
		settingsService,
		serviceMedia.NewQueryFilter(logger),
		txManager,
		logger,
	)

	// Clear existing data so the sample library is reproducible
	log.Println("Clearing existing folders and attachments...")
	if err := postgres.ClearData(ctx, pool, tables); err != nil {
		log.Printf("Warning: Could not clear data: %v", err)
	}

	log.Println("Seeding sample library...")
	seeder := seed.NewLibrarySeeder(folderService, attachmentService, assocService, logger)
	result, err := seeder.Seed(ctx, seed.SampleFolders, seed.SampleAttachments)
	if err != nil {
		log.Fatalf("Failed to seed library: %v", err)
	}

	log.Printf("Seeding complete: %d folders, %d attachments", len(result.Folders), result.Attachments)
	printDevToken(cfg, *devToken)
}

// printDevToken prints a day-long administrator token for local API calls
func printDevToken(cfg *config.Config, enabled bool) {
	if !enabled {
		return
	}
	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET is not set, no dev token printed")
		return
	}

	token, err := auth.IssueHMACToken(cfg.JWTSecret, models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "dev-admin"},
		Email:            "admin@example.test",
		Role:             "administrator",
	}, 24*time.Hour)
	if err != nil {
		log.Fatalf("Failed to issue dev token: %v", err)
	}
	fmt.Printf("Authorization: Bearer %s\n", token)
}
