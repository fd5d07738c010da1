package mediafolders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"mediafolders/internal/domain"
	models "mediafolders/internal/domain/models/mediafolders"
	repos "mediafolders/internal/domain/repositories/mediafolders"
	"mediafolders/internal/repository/postgres"
)

// PostgresAttachmentRepository implements the AttachmentRepository interface
type PostgresAttachmentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(config *postgres.RepositoryConfig) repos.AttachmentRepository {
	return &PostgresAttachmentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create registers a new attachment
func (r *PostgresAttachmentRepository) Create(ctx context.Context, attachment *models.Attachment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, filename, mime_type, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Attachments)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		attachment.Title,
		attachment.Filename,
		attachment.MimeType,
		attachment.Status,
		attachment.CreatedAt,
		attachment.UpdatedAt,
	).Scan(&attachment.ID, &attachment.CreatedAt, &attachment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create attachment: %w", err)
	}

	return nil
}

// GetByID retrieves an attachment by ID (without folders)
func (r *PostgresAttachmentRepository) GetByID(ctx context.Context, id int64) (*models.Attachment, error) {
	query := fmt.Sprintf(`
		SELECT id, title, filename, mime_type, status, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Attachments)

	var attachment models.Attachment
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&attachment.ID,
		&attachment.Title,
		&attachment.Filename,
		&attachment.MimeType,
		&attachment.Status,
		&attachment.CreatedAt,
		&attachment.UpdatedAt,
	)

	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("Attachment %d not found.", id)}
		}
		return nil, fmt.Errorf("get attachment: %w", err)
	}

	return &attachment, nil
}

// Exists reports whether an attachment with this id exists
func (r *PostgresAttachmentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, r.tables.Attachments)

	var exists bool
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check attachment: %w", err)
	}

	return exists, nil
}

// Delete removes an attachment; the relationship rows cascade
func (r *PostgresAttachmentRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Attachments)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("Attachment %d not found.", id)}
	}

	return nil
}

// List returns one page of attachments matching the query plus the total match count
func (r *PostgresAttachmentRepository) List(ctx context.Context, query *models.AttachmentQuery) ([]models.Attachment, int, error) {
	where, args := BuildAttachmentFilter(r.tables, query)

	sql := fmt.Sprintf(`
		SELECT a.id, a.title, a.filename, a.mime_type, a.status, a.created_at, a.updated_at,
		       COUNT(*) OVER() AS total_count
		FROM %s a
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, r.tables.Attachments, where, attachmentOrderClause(query), len(args)+1, len(args)+2)
	args = append(args, query.Limit, query.Offset)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	attachments := []models.Attachment{}
	total := 0
	for rows.Next() {
		var attachment models.Attachment
		err := rows.Scan(
			&attachment.ID,
			&attachment.Title,
			&attachment.Filename,
			&attachment.MimeType,
			&attachment.Status,
			&attachment.CreatedAt,
			&attachment.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan attachment: %w", err)
		}
		attachments = append(attachments, attachment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate attachments: %w", err)
	}

	// An offset past the end returns no rows and therefore no window total
	if len(attachments) == 0 && query.Offset > 0 {
		total, err = r.count(ctx, query)
		if err != nil {
			return nil, 0, err
		}
	}

	return attachments, total, nil
}

func (r *PostgresAttachmentRepository) count(ctx context.Context, query *models.AttachmentQuery) (int, error) {
	where, args := BuildAttachmentFilter(r.tables, query)
	sql := fmt.Sprintf(`SELECT COUNT(*) FROM %s a WHERE %s`, r.tables.Attachments, where)

	var total int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count attachments: %w", err)
	}
	return total, nil
}

// BuildAttachmentFilter renders the WHERE clause (alias "a") and its positional args.
// The folder constraint is an EXISTS / NOT EXISTS subquery on the relationship table,
// so attachments with several folders are never duplicated.
func BuildAttachmentFilter(tables *postgres.TableNames, query *models.AttachmentQuery) (string, []any) {
	conditions := []string{"a.status = ANY($1)"}
	args := []any{query.Statuses}

	switch query.Folder.Scope {
	case models.FolderScopeUncategorized:
		conditions = append(conditions, fmt.Sprintf(
			"NOT EXISTS (SELECT 1 FROM %s r WHERE r.attachment_id = a.id)",
			tables.Relationships))
	case models.FolderScopeFolder:
		args = append(args, query.Folder.FolderID)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s r WHERE r.attachment_id = a.id AND r.folder_id = $%d)",
			tables.Relationships, len(args)))
	}

	if query.Search != "" {
		args = append(args, "%"+escapeLike(query.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("a.title ILIKE $%d", len(args)))
	}

	if query.MimeType != "" {
		if strings.Contains(query.MimeType, "/") {
			args = append(args, query.MimeType)
			conditions = append(conditions, fmt.Sprintf("a.mime_type = $%d", len(args)))
		} else {
			args = append(args, escapeLike(query.MimeType)+"/%")
			conditions = append(conditions, fmt.Sprintf("a.mime_type LIKE $%d", len(args)))
		}
	}

	return strings.Join(conditions, " AND "), args
}

// attachmentOrderClause maps the validated orderby/order pair onto columns
func attachmentOrderClause(query *models.AttachmentQuery) string {
	direction := "DESC"
	if query.Order == "ASC" {
		direction = "ASC"
	}

	column := "a.created_at"
	switch query.OrderBy {
	case models.OrderByTitle:
		column = "a.title"
	case models.OrderByID:
		column = "a.id"
	}

	if column == "a.id" {
		return "a.id " + direction
	}
	return fmt.Sprintf("%s %s, a.id %s", column, direction, direction)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
