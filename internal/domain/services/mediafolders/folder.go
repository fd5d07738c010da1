package mediafolders

import (
	"context"

	models "mediafolders/internal/domain/models/mediafolders"
)

// FolderService handles folder business logic
type FolderService interface {
	// CreateFolder creates a new folder with count 0
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder by ID
	GetFolder(ctx context.Context, id int64) (*models.Folder, error)

	// RenameFolder renames a folder in place (slug follows the name)
	RenameFolder(ctx context.Context, id int64, req *RenameFolderRequest) (*models.Folder, error)

	// MoveFolder reparents a folder, rejecting self and descendant targets
	MoveFolder(ctx context.Context, id int64, req *MoveFolderRequest) (*models.Folder, error)

	// DeleteFolder deletes a folder, reassigning its media to the parent when requested
	DeleteFolder(ctx context.Context, id int64, req *DeleteFolderRequest) error

	// ListFolders lists the direct children of parentID (nil = every folder), by name
	ListFolders(ctx context.Context, parentID *int64) ([]models.Folder, error)

	// ListOptions lists every folder flattened in tree order with its depth
	ListOptions(ctx context.Context) ([]models.FolderOption, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name     string `json:"name"`
	ParentID int64  `json:"parent_id"`      // 0 for root
	Slug     string `json:"slug,omitempty"` // Optional explicit slug; derived from name when empty
}

// RenameFolderRequest represents a folder rename request
type RenameFolderRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// MoveFolderRequest represents a folder reparent request
type MoveFolderRequest struct {
	ParentID int64 `json:"parent_id"` // 0 moves the folder to the root
}

// DeleteFolderRequest represents a folder deletion request
type DeleteFolderRequest struct {
	Reassign bool `json:"reassign"` // Move the folder's media to its parent instead of uncategorizing it
}
