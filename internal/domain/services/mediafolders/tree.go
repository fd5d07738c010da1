package mediafolders

import (
	"context"

	models "mediafolders/internal/domain/models/mediafolders"
)

// TreeService defines operations for building folder trees
type TreeService interface {
	// GetFolderTree builds the nested folder tree with live counts
	GetFolderTree(ctx context.Context) ([]*models.FolderTreeNode, error)

	// GetFolderData returns the tree plus the uncategorized count
	GetFolderData(ctx context.Context) (*models.FolderData, error)
}
