package domain

import (
	"path/filepath"
	"time"
)

// Settings is the typed site configuration.
type Settings struct {
	// SiteDir is the directory other relative paths are resolved against.
	SiteDir string

	// ContentDir holds items.
	ContentDir string

	// LayoutsDir holds layouts.
	LayoutsDir string

	// Encoding is the source file encoding, e.g. "utf-8" or "iso-8859-1".
	Encoding string

	// Workers bounds parallel parsing during collection.
	Workers int

	// SeparatorMinLength is the minimum number of dashes in a front matter separator.
	SeparatorMinLength int

	// MetadataExtensions lists extensions (without period) of metadata files.
	MetadataExtensions []string

	// AllowPeriodsInIdentifiers strips only the last extension when grouping files.
	AllowPeriodsInIdentifiers bool

	// Ignore holds glob patterns of file names skipped during collection.
	Ignore []string

	// Debounce is the coalescing window for change events.
	Debounce time.Duration

	// Verbose enables debug logging.
	Verbose bool

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// DataDir holds the manifest database.
	DataDir string
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		SiteDir:            ".",
		ContentDir:         "content",
		LayoutsDir:         "layouts",
		Encoding:           "utf-8",
		Workers:            4,
		SeparatorMinLength: 4,
		MetadataExtensions: []string{"yaml", "yml"},
		Ignore:             []string{"*~", "*.orig", "*.rej", "*.bak"},
		Debounce:           50 * time.Millisecond,
		LogLevel:           "info",
		DataDir:            ".sitesource",
	}
}

// ContentRoot returns the content directory resolved against SiteDir.
func (s Settings) ContentRoot() string {
	return s.resolve(s.ContentDir)
}

// LayoutsRoot returns the layouts directory resolved against SiteDir.
func (s Settings) LayoutsRoot() string {
	return s.resolve(s.LayoutsDir)
}

// DataRoot returns the data directory resolved against SiteDir.
func (s Settings) DataRoot() string {
	return s.resolve(s.DataDir)
}

func (s Settings) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.SiteDir, p)
}
