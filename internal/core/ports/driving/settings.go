package driving

import "github.com/custodia-labs/mapstore/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get builds the current settings from configuration, falling back to
	// defaults for missing or invalid values.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Validate checks the current settings for consistency.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
