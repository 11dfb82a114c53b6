// Package memory provides in-memory stores for tests and for runs that
// should leave nothing on disk.
package memory
