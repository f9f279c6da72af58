package driving

import "github.com/custodia-labs/willa/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, then the config file,
	// then environment overrides. The result is validated.
	Get() (*domain.Settings, error)

	// Value returns the effective value of one key as text.
	// Secrets are masked.
	Value(key string) (string, error)

	// Set parses value for key, validates the result and persists it.
	Set(key, value string) error

	// Keys lists every known setting key in display order.
	Keys() []string
}
