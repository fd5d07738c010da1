package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"mediafolders/internal/repository/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	// Read environment to determine table prefix
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev" // Default to dev
	}
	if env == "prod" {
		log.Fatal("Refusing to drop tables in prod")
	}

	// Same prefix rules as the server config
	prefix := os.Getenv("TABLE_PREFIX")
	if prefix == "" {
		prefix = "dev_"
		if env == "test" {
			prefix = "test_"
		}
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	for _, stmt := range postgres.DropStatements(postgres.NewTableNames(prefix)) {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	fmt.Printf("All tables dropped successfully (prefix: %s)\n", prefix)
}
