package mediafolders

import (
	"context"

	models "mediafolders/internal/domain/models/mediafolders"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create creates a new folder (sets ID and timestamps)
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id int64) (*models.Folder, error)

	// GetBySlug retrieves a folder by slug, returns nil if none exists
	GetBySlug(ctx context.Context, slug string) (*models.Folder, error)

	// Update updates a folder's name, slug and parent
	Update(ctx context.Context, folder *models.Folder) error

	// Delete deletes a folder row
	Delete(ctx context.Context, id int64) error

	// ListChildren lists immediate child folders ordered by name (parentID 0 = root)
	ListChildren(ctx context.Context, parentID int64) ([]models.Folder, error)

	// ListAll lists every folder ordered by name
	ListAll(ctx context.Context) ([]models.Folder, error)

	// GetAncestorIDs returns the ids from the folder's parent up to the root, nearest first
	GetAncestorIDs(ctx context.Context, id int64) ([]int64, error)

	// ReparentChildren moves every child of fromParentID under toParentID
	ReparentChildren(ctx context.Context, fromParentID, toParentID int64) error

	// RecountItems refreshes the cached item count of the given folders
	RecountItems(ctx context.Context, ids []int64) error

	// LockTree serializes parent-pointer changes until the surrounding
	// transaction ends. Must be called inside ExecTx.
	LockTree(ctx context.Context) error
}
