package mediafolders

import (
	"context"
	"log/slog"

	models "mediafolders/internal/domain/models/mediafolders"
	repos "mediafolders/internal/domain/repositories/mediafolders"
	svc "mediafolders/internal/domain/services/mediafolders"
)

// treeService implements the TreeService interface
type treeService struct {
	folderRepo repos.FolderRepository
	assocRepo  repos.AssociationRepository
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo repos.FolderRepository,
	assocRepo repos.AssociationRepository,
	logger *slog.Logger,
) svc.TreeService {
	return &treeService{
		folderRepo: folderRepo,
		assocRepo:  assocRepo,
		logger:     logger,
	}
}

// GetFolderTree builds the nested folder tree. Siblings are ordered by name and
// each node carries the live count of attachments directly in it.
func (s *treeService) GetFolderTree(ctx context.Context) ([]*models.FolderTreeNode, error) {
	// ListAll is name-ordered, so appending children in this order keeps siblings sorted
	allFolders, err := s.folderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	// First pass: create all folder nodes with live counts
	folderMap := make(map[int64]*models.FolderTreeNode, len(allFolders))
	for _, folder := range allFolders {
		count, err := s.assocRepo.CountInFolder(ctx, folder.ID)
		if err != nil {
			return nil, err
		}
		folderMap[folder.ID] = &models.FolderTreeNode{
			ID:       folder.ID,
			Name:     folder.Name,
			Slug:     folder.Slug,
			ParentID: folder.ParentID,
			Count:    count,
			Children: []*models.FolderTreeNode{},
		}
	}

	// Second pass: nest folders by connecting children to parents.
	// Folders whose parent is missing are unreachable from the root and left out.
	rootFolders := make([]*models.FolderTreeNode, 0)
	for _, folder := range allFolders {
		node := folderMap[folder.ID]
		if folder.IsRoot() {
			rootFolders = append(rootFolders, node)
			continue
		}
		if parent, exists := folderMap[folder.ParentID]; exists {
			parent.Children = append(parent.Children, node)
		}
	}

	s.logger.Debug("folder tree built",
		"folder_count", len(allFolders),
		"root_count", len(rootFolders),
	)

	return rootFolders, nil
}

// GetFolderData returns the tree plus the uncategorized count
func (s *treeService) GetFolderData(ctx context.Context) (*models.FolderData, error) {
	tree, err := s.GetFolderTree(ctx)
	if err != nil {
		return nil, err
	}

	uncategorized, err := s.assocRepo.CountInFolder(ctx, models.RootFolderID)
	if err != nil {
		return nil, err
	}

	return &models.FolderData{
		Folders:            tree,
		UncategorizedCount: uncategorized,
	}, nil
}
