// Package filesystem collects items from a directory tree and watches
// directory trees for changes.
//
// Collection walks a root, groups files that share a basename into
// content/metadata pairs, and parses every pair. Watching is backed by
// fsnotify with one reference-counted OS watch per root, shared by every
// stream started on that root.
package filesystem
