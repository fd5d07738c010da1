package mediafolders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"mediafolders/internal/domain"
	models "mediafolders/internal/domain/models/mediafolders"
	"mediafolders/internal/domain/repositories"
	repos "mediafolders/internal/domain/repositories/mediafolders"
	"mediafolders/internal/repository/postgres"
)

// maxFolderDepth bounds the ancestor walk so a corrupted parent chain cannot loop forever
const maxFolderDepth = 1000

const folderColumns = "id, name, slug, parent_id, item_count, created_at, updated_at"

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) repos.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, slug, parent_id, item_count, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $5)
		RETURNING id, item_count, created_at, updated_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.Name,
		folder.Slug,
		folder.ParentID,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID, &folder.Count, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.DuplicateError{
				Message:      fmt.Sprintf("A folder with the slug %q already exists.", folder.Slug),
				ResourceType: "folder",
			}
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("Folder %d not found.", id)}
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// GetBySlug retrieves a folder by slug, nil when none exists
func (r *PostgresFolderRepository) GetBySlug(ctx context.Context, slug string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE slug = $1`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, slug))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get folder by slug: %w", err)
	}

	return folder, nil
}

// Update updates a folder's name, slug and parent
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, slug = $2, parent_id = $3, updated_at = $4
		WHERE id = $5
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.Name,
		folder.Slug,
		folder.ParentID,
		folder.UpdatedAt,
		folder.ID,
	)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.DuplicateError{
				Message:      fmt.Sprintf("A folder with the slug %q already exists.", folder.Slug),
				ResourceType: "folder",
			}
		}
		if postgres.IsPgCheckViolation(err) {
			return &domain.CycleError{Message: "Cannot move folder to itself."}
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("Folder %d not found.", folder.ID)}
	}

	return nil
}

// Delete deletes a folder row. Associations go with it through the foreign key.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("Folder %d not found.", id)}
	}

	return nil
}

// ListChildren lists immediate child folders ordered by name
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID int64) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE parent_id = $1
		ORDER BY name ASC, id ASC
	`, folderColumns, r.tables.Folders)

	return r.queryFolders(ctx, query, parentID)
}

// ListAll lists every folder ordered by name
func (r *PostgresFolderRepository) ListAll(ctx context.Context) ([]models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY name ASC, id ASC`, folderColumns, r.tables.Folders)
	return r.queryFolders(ctx, query)
}

// GetAncestorIDs walks the parent chain with a recursive CTE, nearest ancestor first
func (r *PostgresFolderRepository) GetAncestorIDs(ctx context.Context, id int64) ([]int64, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE ancestors AS (
			SELECT parent_id, 1 AS depth
			FROM %s
			WHERE id = $1

			UNION ALL

			SELECT f.parent_id, a.depth + 1
			FROM %s f
			INNER JOIN ancestors a ON f.id = a.parent_id
			WHERE a.parent_id <> 0 AND a.depth < $2
		)
		SELECT parent_id FROM ancestors
		WHERE parent_id <> 0
		ORDER BY depth ASC
	`, r.tables.Folders, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, id, maxFolderDepth)
	if err != nil {
		return nil, fmt.Errorf("get folder ancestors: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan folder ancestors: %w", err)
	}

	return ids, nil
}

// ReparentChildren moves every child of fromParentID under toParentID
func (r *PostgresFolderRepository) ReparentChildren(ctx context.Context, fromParentID, toParentID int64) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, updated_at = NOW()
		WHERE parent_id = $2
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, toParentID, fromParentID)
	if err != nil {
		return fmt.Errorf("reparent child folders: %w", err)
	}

	r.logger.Debug("child folders reparented",
		"from_parent_id", fromParentID,
		"to_parent_id", toParentID,
		"count", result.RowsAffected(),
	)

	return nil
}

// RecountItems recomputes item_count from the association table.
// Only inherit-status attachments count.
func (r *PostgresFolderRepository) RecountItems(ctx context.Context, ids []int64) error {
	ids = positiveIDs(ids)
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s f
		SET item_count = (
			SELECT COUNT(*)
			FROM %s r
			INNER JOIN %s a ON a.id = r.attachment_id
			WHERE r.folder_id = f.id AND a.status = $2
		)
		WHERE f.id = ANY($1)
	`, r.tables.Folders, r.tables.Relationships, r.tables.Attachments)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, ids, models.AttachmentStatusInherit); err != nil {
		return fmt.Errorf("recount folder items: %w", err)
	}

	return nil
}

// LockTree takes a transaction-scoped advisory lock keyed on the folders table,
// so two moves cannot both pass the descendant check and form a cycle
func (r *PostgresFolderRepository) LockTree(ctx context.Context) error {
	if !repositories.InTx(ctx) {
		return errors.New("lock folder tree: no transaction in context")
	}

	query := `SELECT pg_advisory_xact_lock(hashtext($1))`
	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, r.tables.Folders); err != nil {
		return fmt.Errorf("lock folder tree: %w", err)
	}

	return nil
}

func (r *PostgresFolderRepository) queryFolders(ctx context.Context, query string, args ...any) ([]models.Folder, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.Name,
		&folder.Slug,
		&folder.ParentID,
		&folder.Count,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// positiveIDs drops the root/uncategorized id and duplicates
func positiveIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
