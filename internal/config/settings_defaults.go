package config

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
	models "mediafolders/internal/domain/models/mediafolders"
)

//go:embed defaults/*.yaml
var defaultFiles embed.FS

const settingsDefaultsFile = "defaults/settings.yaml"

// DefaultSettings loads the media organizer defaults embedded in the binary
func DefaultSettings() (models.Settings, error) {
	data, err := defaultFiles.ReadFile(settingsDefaultsFile)
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to read %s: %w", settingsDefaultsFile, err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes a settings YAML document.
// Unknown keys are rejected so typos in the defaults file fail loudly.
func ParseSettings(data []byte) (models.Settings, error) {
	var settings models.Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return models.Settings{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	var known map[string]any
	if err := yaml.Unmarshal(data, &known); err != nil {
		return models.Settings{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	for key := range known {
		if !settingsKeys[key] {
			return models.Settings{}, fmt.Errorf("unknown setting %q", key)
		}
	}
	if settings.DefaultFolder < 0 {
		return models.Settings{}, fmt.Errorf("default_folder must be 0 or a folder id, got %d", settings.DefaultFolder)
	}
	return settings, nil
}

var settingsKeys = map[string]bool{
	"enable_drag_drop":     true,
	"show_folder_count":    true,
	"default_folder":       true,
	"show_uncategorized":   true,
	"folder_tree_expanded": true,
	"enable_modal_filter":  true,
}
