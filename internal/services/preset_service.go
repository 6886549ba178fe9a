package services

import (
	"context"
	"log/slog"

	"tsclean/internal/cleanse"
	"tsclean/internal/preset"
)

// PresetService manages saved cleaning configurations.
type PresetService struct {
	store  *preset.Store
	logger *slog.Logger
}

// NewPresetService creates a preset service over the given store.
func NewPresetService(store *preset.Store, logger *slog.Logger) *PresetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PresetService{
		store:  store,
		logger: logger.With(slog.String("component", "preset_service")),
	}
}

// Save persists a preset.
func (s *PresetService) Save(ctx context.Context, name, description string, settings cleanse.Options) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.store.Save(name, description, settings); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "preset saved", slog.String("name", name))
	return nil
}

// Load retrieves a preset by name or file path.
func (s *PresetService) Load(ctx context.Context, nameOrPath string) (*preset.Preset, error) {
	return s.store.Load(nameOrPath)
}

// List returns all presets.
func (s *PresetService) List(ctx context.Context) ([]preset.Preset, error) {
	return s.store.List()
}

// Delete removes a preset by name.
func (s *PresetService) Delete(ctx context.Context, name string) error {
	if err := s.store.Delete(name); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "preset deleted", slog.String("name", name))
	return nil
}
