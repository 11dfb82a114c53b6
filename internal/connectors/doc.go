// Package connectors provides the sources sitesource reads from.
// The filesystem connector collects items from a directory tree and
// reports changes to it.
package connectors
