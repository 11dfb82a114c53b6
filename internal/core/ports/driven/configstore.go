package driven

import "time"

// ConfigStore holds site configuration under dotted keys such as
// "collect.ignore" or "watch.debounce".
// Typed getters return the zero value for absent or mistyped keys; use Get
// to tell an absent key from an explicit zero.
type ConfigStore interface {
	// Get returns the raw value for key and whether it is set.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool

	// GetStringSlice returns nil unless the value is a list of strings.
	GetStringSlice(key string) []string

	// GetDuration reads a duration written as "50ms" or "1s".
	GetDuration(key string) time.Duration

	// Set changes a value and writes the configuration back.
	Set(key string, value any) error

	// Save writes the configuration back to its file.
	Save() error

	// Load re-reads the configuration file, replacing unsaved values.
	Load() error

	// Path names the backing file.
	Path() string
}
