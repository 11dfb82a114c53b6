// Package file provides the file-based site configuration.
//
// Configuration lives in sitesource.toml at the site root. Nested tables
// are flattened into dotted keys, so
//
//	[watch]
//	debounce = "100ms"
//
// is read as "watch.debounce".
package file
