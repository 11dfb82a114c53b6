package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/core/ports/driven"
	"github.com/custodia-labs/sitesource/internal/logger"
)

// Configuration keys.
const (
	KeyContentDir         = "content_dir"
	KeyLayoutsDir         = "layouts_dir"
	KeyEncoding           = "encoding"
	KeyWorkers            = "workers"
	KeySeparatorMinLength = "frontmatter.separator_min_length"
	KeyMetadataExtensions = "collect.metadata_extensions"
	KeyAllowPeriods       = "collect.allow_periods_in_identifiers"
	KeyIgnore             = "collect.ignore"
	KeyDebounce           = "watch.debounce"
	KeyVerbose            = "log.verbose"
	KeyLogLevel           = "log.level"
	KeyDataDir            = "storage.data_dir"
)

// DefaultConfig is written by "sitesource init".
const DefaultConfig = `# sitesource configuration
content_dir = "content"
layouts_dir = "layouts"
encoding = "utf-8"
workers = 4

[frontmatter]
separator_min_length = 4

[collect]
metadata_extensions = ["yaml", "yml"]
allow_periods_in_identifiers = false
ignore = ["*~", "*.orig", "*.rej", "*.bak"]

[watch]
debounce = "50ms"

[log]
verbose = false
level = "info"

[storage]
data_dir = ".sitesource"
`

// LoadSettings reads typed settings from store, falling back to
// domain.DefaultSettings for absent keys. siteDir becomes Settings.SiteDir.
func LoadSettings(store driven.ConfigStore, siteDir string) (domain.Settings, error) {
	s := domain.DefaultSettings()
	if siteDir != "" {
		s.SiteDir = siteDir
	}

	setString(store, KeyContentDir, &s.ContentDir)
	setString(store, KeyLayoutsDir, &s.LayoutsDir)
	setString(store, KeyEncoding, &s.Encoding)
	setString(store, KeyLogLevel, &s.LogLevel)
	setString(store, KeyDataDir, &s.DataDir)

	if _, ok := store.Get(KeyWorkers); ok {
		s.Workers = store.GetInt(KeyWorkers)
	}
	if _, ok := store.Get(KeySeparatorMinLength); ok {
		s.SeparatorMinLength = store.GetInt(KeySeparatorMinLength)
	}
	if _, ok := store.Get(KeyMetadataExtensions); ok {
		s.MetadataExtensions = store.GetStringSlice(KeyMetadataExtensions)
	}
	if _, ok := store.Get(KeyIgnore); ok {
		s.Ignore = store.GetStringSlice(KeyIgnore)
	}
	s.AllowPeriodsInIdentifiers = store.GetBool(KeyAllowPeriods)
	s.Verbose = store.GetBool(KeyVerbose)

	if raw, ok := store.Get(KeyDebounce); ok {
		d, err := parseDuration(raw)
		if err != nil {
			return s, fmt.Errorf("%s: %w", KeyDebounce, err)
		}
		s.Debounce = d
	}

	if err := validate(s); err != nil {
		return s, err
	}
	return s, nil
}

// WriteDefault writes DefaultConfig to path unless a file already exists.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(DefaultConfig), 0644)
}

func setString(store driven.ConfigStore, key string, dst *string) {
	if v := store.GetString(key); v != "" {
		*dst = v
	}
}

func parseDuration(raw any) (time.Duration, error) {
	switch v := raw.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return d, nil
	case int64:
		return time.Duration(v) * time.Millisecond, nil
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case time.Duration:
		return v, nil
	default:
		return 0, fmt.Errorf("%w: unexpected %T", domain.ErrInvalidInput, raw)
	}
}

func validate(s domain.Settings) error {
	switch {
	case s.Workers < 1:
		return fmt.Errorf("%s must be at least 1: %w", KeyWorkers, domain.ErrInvalidInput)
	case s.SeparatorMinLength < 1:
		return fmt.Errorf("%s must be at least 1: %w", KeySeparatorMinLength, domain.ErrInvalidInput)
	case s.Debounce < 0:
		return fmt.Errorf("%s must not be negative: %w", KeyDebounce, domain.ErrInvalidInput)
	}
	if _, err := logger.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%s: %w: %v", KeyLogLevel, domain.ErrInvalidInput, err)
	}
	return nil
}
