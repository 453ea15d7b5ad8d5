package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/mealbook/internal/calculator"
	"github.com/mmynk/mealbook/internal/storage"
	"github.com/mmynk/mealbook/pkg/api"
)

// SettingsService implements the Connect SettingsService.
type SettingsService struct {
	store storage.SettingsStore
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(store storage.SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// GetSettings returns the settings (defaults when none are saved) and the
// daily targets they imply.
func (s *SettingsService) GetSettings(ctx context.Context, req *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.GetSettingsResponse], error) {
	slog.Info("GetSettings request received")

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		slog.Error("GetSettings failed", "error", err)
		return nil, toConnectError(err)
	}

	res := &api.GetSettingsResponse{Settings: settingsToAPI(settings)}
	if targets, err := calculator.DailyTargets(*settings); err == nil {
		res.Targets = targetsToAPI(targets)
	} else {
		slog.Warn("Stored settings have non-numeric targets", "error", err)
	}
	return connect.NewResponse(res), nil
}

// SaveSettings validates and overwrites the settings document.
func (s *SettingsService) SaveSettings(ctx context.Context, req *connect.Request[api.SaveSettingsRequest]) (*connect.Response[api.SaveSettingsResponse], error) {
	slog.Info("SaveSettings request received")

	if req.Msg.Settings == nil {
		return nil, invalidArgument("settings are required")
	}
	settings := settingsFromAPI(req.Msg.Settings)

	if err := calculator.ValidateSettings(settings); err != nil {
		slog.Warn("SaveSettings rejected", "error", err)
		return nil, toConnectError(err)
	}
	targets, err := calculator.DailyTargets(settings)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.SaveSettings(ctx, &settings); err != nil {
		slog.Error("SaveSettings failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Settings saved", "daily_calories", targets.Calories)
	return connect.NewResponse(&api.SaveSettingsResponse{
		Settings: settingsToAPI(&settings),
		Targets:  targetsToAPI(targets),
	}), nil
}
