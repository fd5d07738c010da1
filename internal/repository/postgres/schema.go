package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaStatements returns the DDL for the media folder tables, in creation order
func SchemaStatements(tables *TableNames) []string {
	return []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				slug TEXT NOT NULL,
				parent_id BIGINT NOT NULL DEFAULT 0,
				item_count INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT %s_slug_key UNIQUE (slug),
				CONSTRAINT %s_not_self_parent CHECK (parent_id <> id)
			)`, tables.Folders, tables.Folders, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_parent_idx ON %s (parent_id, name)`,
			tables.Folders, tables.Folders),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				title TEXT NOT NULL DEFAULT '',
				filename TEXT NOT NULL,
				mime_type TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'inherit',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Attachments),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				attachment_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				folder_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (attachment_id, folder_id)
			)`, tables.Relationships, tables.Attachments, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_folder_idx ON %s (folder_id)`,
			tables.Relationships, tables.Relationships),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				name TEXT PRIMARY KEY,
				value JSONB NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Settings),
	}
}

// EnsureSchema creates the media folder tables if they don't exist
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, stmt := range SchemaStatements(tables) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// DropStatements returns DROP statements in dependency order (relationships first)
func DropStatements(tables *TableNames) []string {
	return []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", tables.Relationships),
		fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", tables.Attachments),
		fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", tables.Folders),
		fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", tables.Settings),
	}
}

// DropAllTables drops every media folder table
func DropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, stmt := range DropStatements(tables) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}
	return nil
}

// ClearData removes every row but keeps the tables
func ClearData(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	stmt := fmt.Sprintf("TRUNCATE %s, %s, %s, %s RESTART IDENTITY CASCADE",
		tables.Relationships, tables.Attachments, tables.Folders, tables.Settings)
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	return nil
}
