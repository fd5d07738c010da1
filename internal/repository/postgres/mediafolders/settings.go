package mediafolders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	models "mediafolders/internal/domain/models/mediafolders"
	repos "mediafolders/internal/domain/repositories/mediafolders"
	"mediafolders/internal/repository/postgres"
)

// settingsRowName is the single options row holding every media organizer setting
const settingsRowName = "media_organizer"

// PostgresSettingsRepository implements the SettingsRepository interface
type PostgresSettingsRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(config *postgres.RepositoryConfig) repos.SettingsRepository {
	return &PostgresSettingsRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Get returns the stored settings, or nil if none were saved yet
func (r *PostgresSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	query := fmt.Sprintf(`SELECT value, updated_at FROM %s WHERE name = $1`, r.tables.Settings)

	var raw []byte
	var updatedAt time.Time
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, settingsRowName).Scan(&raw, &updatedAt)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			// Nothing saved yet - caller falls back to defaults
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	var settings models.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	settings.UpdatedAt = updatedAt

	return &settings, nil
}

// Upsert creates or replaces the settings row
func (r *PostgresSettingsRepository) Upsert(ctx context.Context, settings *models.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (name, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`, r.tables.Settings)

	executor := postgres.GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query, settingsRowName, raw, settings.UpdatedAt).Scan(&settings.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}

	return nil
}
