package driving

import "github.com/custodia-labs/valueindex/internal/core/domain"

// SettingsService resolves run settings from configuration.
type SettingsService interface {
	// Get returns the effective settings: defaults overlaid with configuration.
	Get() (*domain.Settings, error)
}
