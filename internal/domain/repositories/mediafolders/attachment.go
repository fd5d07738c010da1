package mediafolders

import (
	"context"

	models "mediafolders/internal/domain/models/mediafolders"
)

// AttachmentRepository defines data access for registered attachments
type AttachmentRepository interface {
	// Create registers a new attachment
	Create(ctx context.Context, attachment *models.Attachment) error

	// GetByID retrieves an attachment by ID
	GetByID(ctx context.Context, id int64) (*models.Attachment, error)

	// Exists reports whether an attachment with this id exists
	Exists(ctx context.Context, id int64) (bool, error)

	// Delete removes an attachment (its associations go with it)
	Delete(ctx context.Context, id int64) error

	// List returns one page of attachments matching the query and the total match count
	List(ctx context.Context, query *models.AttachmentQuery) ([]models.Attachment, int, error)
}
