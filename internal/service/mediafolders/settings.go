package mediafolders

import (
	"context"
	"log/slog"
	"time"

	"mediafolders/internal/domain"
	models "mediafolders/internal/domain/models/mediafolders"
	repos "mediafolders/internal/domain/repositories/mediafolders"
	svc "mediafolders/internal/domain/services/mediafolders"
)

type settingsService struct {
	settingsRepo repos.SettingsRepository
	folderRepo   repos.FolderRepository
	defaults     models.Settings
	logger       *slog.Logger
}

// NewSettingsService creates a settings service that falls back to defaults
// until settings are saved
func NewSettingsService(
	settingsRepo repos.SettingsRepository,
	folderRepo repos.FolderRepository,
	defaults models.Settings,
	logger *slog.Logger,
) svc.SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		folderRepo:   folderRepo,
		defaults:     defaults,
		logger:       logger,
	}
}

// GetSettings returns stored settings, or the defaults when nothing is stored
func (s *settingsService) GetSettings(ctx context.Context) (*models.Settings, error) {
	stored, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		defaults := s.defaults
		return &defaults, nil
	}
	return stored, nil
}

// UpdateSettings applies the present fields and saves the result
func (s *settingsService) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.Settings, error) {
	current, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return current, nil
	}

	if req.DefaultFolder != nil {
		if *req.DefaultFolder < 0 {
			return nil, &domain.ValidationError{Message: MsgInvalidFolderID}
		}
		if *req.DefaultFolder != models.RootFolderID {
			if _, err := s.folderRepo.GetByID(ctx, *req.DefaultFolder); err != nil {
				return nil, err
			}
		}
	}

	req.Apply(current)
	current.UpdatedAt = time.Now()

	if err := s.settingsRepo.Upsert(ctx, current); err != nil {
		return nil, err
	}

	s.logger.Info("settings updated",
		"enable_drag_drop", current.EnableDragDrop,
		"show_folder_count", current.ShowFolderCount,
		"default_folder", current.DefaultFolder,
		"show_uncategorized", current.ShowUncategorized,
		"folder_tree_expanded", current.FolderTreeExpanded,
		"enable_modal_filter", current.EnableModalFilter,
	)

	return current, nil
}
