package mediafolders

import (
	"log/slog"

	models "mediafolders/internal/domain/models/mediafolders"
	svc "mediafolders/internal/domain/services/mediafolders"
)

// folderQueryFilter constrains attachment listings to a folder selector.
// Every listing surface calls it the same way, so the admin grid, the generic
// attachment query and the insertion modal always agree on folder membership.
type folderQueryFilter struct {
	logger *slog.Logger
}

// NewQueryFilter creates the folder query filter
func NewQueryFilter(logger *slog.Logger) svc.QueryFilter {
	return &folderQueryFilter{logger: logger}
}

// Apply sets the folder constraint on query.
// An absent selector leaves the query unconstrained.
func (f *folderQueryFilter) Apply(surface svc.Surface, query *models.AttachmentQuery, selector models.FolderSelector) {
	switch selector.Scope {
	case models.FolderScopeUncategorized:
		query.Folder = selector
	case models.FolderScopeFolder:
		if selector.FolderID <= 0 {
			query.Folder = models.FolderSelector{Scope: models.FolderScopeAll}
			return
		}
		query.Folder = selector
	default:
		query.Folder = models.FolderSelector{Scope: models.FolderScopeAll}
		return
	}

	f.logger.Debug("folder filter applied",
		"surface", surface,
		"media_folder", selector.String(),
	)
}
