package mediafolders

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"mediafolders/internal/domain"
	models "mediafolders/internal/domain/models/mediafolders"
	repos "mediafolders/internal/domain/repositories/mediafolders"
	"mediafolders/internal/repository/postgres"
)

// PostgresAssociationRepository implements the AssociationRepository interface
type PostgresAssociationRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewAssociationRepository creates a new association repository
func NewAssociationRepository(config *postgres.RepositoryConfig) repos.AssociationRepository {
	return &PostgresAssociationRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// FolderIDs returns the folders an attachment is associated with
func (r *PostgresAssociationRepository) FolderIDs(ctx context.Context, attachmentID int64) ([]int64, error) {
	query := fmt.Sprintf(`
		SELECT folder_id FROM %s
		WHERE attachment_id = $1
		ORDER BY folder_id
	`, r.tables.Relationships)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, attachmentID)
	if err != nil {
		return nil, fmt.Errorf("get attachment folders: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan attachment folders: %w", err)
	}

	return ids, nil
}

// Replace sets the attachment's associations to exactly folderIDs.
// Callers run it inside a transaction so the delete and insert land together.
func (r *PostgresAssociationRepository) Replace(ctx context.Context, attachmentID int64, folderIDs []int64) error {
	executor := postgres.GetExecutor(ctx, r.pool)

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE attachment_id = $1`, r.tables.Relationships)
	if _, err := executor.Exec(ctx, deleteQuery, attachmentID); err != nil {
		return fmt.Errorf("clear attachment folders: %w", err)
	}

	folderIDs = positiveIDs(folderIDs)
	if len(folderIDs) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (attachment_id, folder_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING
	`, r.tables.Relationships)

	if _, err := executor.Exec(ctx, insertQuery, attachmentID, folderIDs); err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "Folder or attachment not found."}
		}
		return fmt.Errorf("set attachment folders: %w", err)
	}

	return nil
}

// Add associates the attachment with one more folder
func (r *PostgresAssociationRepository) Add(ctx context.Context, attachmentID, folderID int64) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (attachment_id, folder_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, r.tables.Relationships)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, attachmentID, folderID)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return false, &domain.NotFoundError{Message: "Folder or attachment not found."}
		}
		return false, fmt.Errorf("add attachment folder: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// Remove drops a single association
func (r *PostgresAssociationRepository) Remove(ctx context.Context, attachmentID, folderID int64) (bool, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE attachment_id = $1 AND folder_id = $2
	`, r.tables.Relationships)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, attachmentID, folderID)
	if err != nil {
		return false, fmt.Errorf("remove attachment folder: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// AttachmentIDs lists every attachment associated with the folder
func (r *PostgresAssociationRepository) AttachmentIDs(ctx context.Context, folderID int64) ([]int64, error) {
	query := fmt.Sprintf(`
		SELECT attachment_id FROM %s
		WHERE folder_id = $1
		ORDER BY attachment_id
	`, r.tables.Relationships)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("get folder attachments: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan folder attachments: %w", err)
	}

	return ids, nil
}

// DeleteByFolder drops every association to the folder
func (r *PostgresAssociationRepository) DeleteByFolder(ctx context.Context, folderID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE folder_id = $1`, r.tables.Relationships)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, folderID); err != nil {
		return fmt.Errorf("delete folder associations: %w", err)
	}

	return nil
}

// CountInFolder counts inherit-status attachments in the folder, or with no folder at all for id 0
func (r *PostgresAssociationRepository) CountInFolder(ctx context.Context, folderID int64) (int, error) {
	var query string
	args := []any{models.AttachmentStatusInherit}

	if folderID == models.RootFolderID {
		query = fmt.Sprintf(`
			SELECT COUNT(*) FROM %s a
			WHERE a.status = $1
			AND NOT EXISTS (SELECT 1 FROM %s r WHERE r.attachment_id = a.id)
		`, r.tables.Attachments, r.tables.Relationships)
	} else {
		query = fmt.Sprintf(`
			SELECT COUNT(*) FROM %s r
			INNER JOIN %s a ON a.id = r.attachment_id
			WHERE a.status = $1 AND r.folder_id = $2
		`, r.tables.Relationships, r.tables.Attachments)
		args = append(args, folderID)
	}

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count folder attachments: %w", err)
	}

	return count, nil
}

// FolderRefs returns the folders of each attachment, ordered by folder name
func (r *PostgresAssociationRepository) FolderRefs(ctx context.Context, attachmentIDs []int64) (map[int64][]models.FolderRef, error) {
	refs := make(map[int64][]models.FolderRef, len(attachmentIDs))
	if len(attachmentIDs) == 0 {
		return refs, nil
	}

	query := fmt.Sprintf(`
		SELECT r.attachment_id, f.id, f.name, f.slug
		FROM %s r
		INNER JOIN %s f ON f.id = r.folder_id
		WHERE r.attachment_id = ANY($1)
		ORDER BY r.attachment_id, f.name, f.id
	`, r.tables.Relationships, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, attachmentIDs)
	if err != nil {
		return nil, fmt.Errorf("get attachment folder refs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var attachmentID int64
		var ref models.FolderRef
		if err := rows.Scan(&attachmentID, &ref.ID, &ref.Name, &ref.Slug); err != nil {
			return nil, fmt.Errorf("scan attachment folder ref: %w", err)
		}
		refs[attachmentID] = append(refs[attachmentID], ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachment folder refs: %w", err)
	}

	return refs, nil
}
