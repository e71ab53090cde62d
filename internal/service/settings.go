package service

import (
	"context"
	"strings"

	"github.com/WilliamRochafnpe/FNPE/internal/apperrors"
	"github.com/WilliamRochafnpe/FNPE/internal/logging"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
)

// SettingsService manages the document's configuration block.
type SettingsService struct {
	state  State
	logger *logging.Logger
}

// NewSettingsService creates the settings service.
func NewSettingsService(state State, logger *logging.Logger) *SettingsService {
	return &SettingsService{state: state, logger: logger}
}

// Get returns the current settings.
func (s *SettingsService) Get(_ context.Context) models.Settings {
	return s.state.DB().Settings
}

// Update replaces the settings block.
func (s *SettingsService) Update(ctx context.Context, settings models.Settings) (models.Settings, error) {
	if strings.TrimSpace(settings.AppBranding.AppName) == "" {
		return models.Settings{}, apperrors.NewMissingFieldError("appName")
	}

	db := s.state.DB().Clone()
	db.Settings = settings

	if _, err := s.state.Replace(ctx, db); err != nil {
		return models.Settings{}, err
	}
	s.logger.Info("Settings updated")
	return settings, nil
}
