// Package sqlite provides a SQLite-backed driven.ManifestStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is an NNN_name.up.sql file.
//
// # Data Location
//
// The database is stored at <site>/.sitesource/manifest.db unless
// storage.data_dir says otherwise.
package sqlite
