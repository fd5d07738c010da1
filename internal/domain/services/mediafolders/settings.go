package mediafolders

import (
	"context"

	models "mediafolders/internal/domain/models/mediafolders"
)

// SettingsService reads and updates the media organizer options
type SettingsService interface {
	// GetSettings returns stored settings merged over the defaults
	GetSettings(ctx context.Context) (*models.Settings, error)

	// UpdateSettings applies a partial update
	UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.Settings, error)
}
