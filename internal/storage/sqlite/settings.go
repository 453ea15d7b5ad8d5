package sqlite

import (
	"context"
	"errors"

	"github.com/mmynk/mealbook/internal/models"
	"github.com/mmynk/mealbook/internal/storage"
)

// GetSettings returns the saved settings or models.DefaultSettings.
func (s *SQLiteStore) GetSettings(ctx context.Context) (*models.UserSettings, error) {
	settings := models.DefaultSettings()
	err := s.settings.Get(ctx, models.SettingsID, &settings)
	if errors.Is(err, storage.ErrNotFound) {
		defaults := models.DefaultSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, persistErr("get settings", err)
	}
	return &settings, nil
}

// SaveSettings overwrites the settings document.
func (s *SQLiteStore) SaveSettings(ctx context.Context, settings *models.UserSettings) error {
	if err := s.settings.Put(ctx, models.SettingsID, settings); err != nil {
		return persistErr("save settings", err)
	}
	return nil
}
