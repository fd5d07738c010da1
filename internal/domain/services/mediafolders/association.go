package mediafolders

import (
	"context"

	models "mediafolders/internal/domain/models/mediafolders"
)

// AssociationService maps attachments to folders
type AssociationService interface {
	// Assign replaces the attachment's folders with folderID (0 = uncategorized).
	// Returns false without error when the attachment does not exist.
	Assign(ctx context.Context, attachmentID, folderID int64) (bool, error)

	// BulkAssign applies Assign ("move") or an additive association ("add") to each id.
	// Failures are skipped; the result counts only successful ids.
	BulkAssign(ctx context.Context, req *BulkAssignRequest) (*BulkAssignResult, error)

	// CountInFolder counts inherit-status attachments in a folder (0 = uncategorized)
	CountInFolder(ctx context.Context, folderID int64) (int, error)

	// ListBulkActions lists the admin list bulk actions (one move action per folder, plus remove)
	ListBulkActions(ctx context.Context) ([]BulkAction, error)

	// RunBulkAction executes a named admin list bulk action
	RunBulkAction(ctx context.Context, req *BulkActionRequest) (*BulkAssignResult, error)
}

// BulkAssignRequest represents a bulk assignment
type BulkAssignRequest struct {
	AttachmentIDs []int64           `json:"attachment_ids"`
	FolderID      int64             `json:"folder_id"`
	Mode          models.AssignMode `json:"mode"` // "move" (default) or "add"
}

// BulkAssignResult reports the outcome of a bulk assignment
type BulkAssignResult struct {
	Message    string `json:"message"`
	Processed  int    `json:"processed"`
	FolderName string `json:"folder_name"` // "Uncategorized" for folder 0
}

// BulkAction is one entry of the admin list bulk-action menu
type BulkAction struct {
	Action string `json:"action"`
	Label  string `json:"label"`
}

// BulkActionRequest represents an admin list bulk action submission
type BulkActionRequest struct {
	Action        string  `json:"action"`
	AttachmentIDs []int64 `json:"attachment_ids"`
}
