package mediafolders

import (
	"context"

	models "mediafolders/internal/domain/models/mediafolders"
)

// Surface names the UI entry point an attachment listing comes from
type Surface string

const (
	SurfaceAdminGrid   Surface = "admin_grid"
	SurfaceAjaxQuery   Surface = "ajax_query"
	SurfaceInsertModal Surface = "insert_modal"
)

// QueryFilter rewrites attachment listing queries to a folder selector
type QueryFilter interface {
	// Apply constrains query to the selector; every surface goes through it
	Apply(surface Surface, query *models.AttachmentQuery, selector models.FolderSelector)
}

// AttachmentService handles attachment registration and filtered listings
type AttachmentService interface {
	// RegisterAttachment records a media item; it lands in the default folder setting
	RegisterAttachment(ctx context.Context, req *RegisterAttachmentRequest) (*models.Attachment, error)

	// GetAttachment returns an attachment with its folders
	GetAttachment(ctx context.Context, id int64) (*models.Attachment, error)

	// DeleteAttachment removes an attachment and its associations
	DeleteAttachment(ctx context.Context, id int64) error

	// ListAttachments lists attachments for a surface, filtered by the folder selector
	ListAttachments(ctx context.Context, surface Surface, selector models.FolderSelector, query *models.AttachmentQuery) (*models.AttachmentPage, error)
}

// RegisterAttachmentRequest represents an attachment registration
type RegisterAttachmentRequest struct {
	Title    string `json:"title"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Status   string `json:"status,omitempty"` // default inherit
}
