package mediafolders

import (
	"context"

	models "mediafolders/internal/domain/models/mediafolders"
)

// SettingsRepository persists the media organizer options
type SettingsRepository interface {
	// Get returns the stored settings, or nil if none were saved yet
	Get(ctx context.Context) (*models.Settings, error)

	// Upsert stores the settings
	Upsert(ctx context.Context, settings *models.Settings) error
}
