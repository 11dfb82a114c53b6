package domain

import "time"

// ParsedDocument is the result of parsing one source item.
// Attributes is always a mapping; Content is empty for metadata-only items.
type ParsedDocument struct {
	// Attributes holds the decoded metadata in declaration order.
	Attributes Attributes

	// Content is the body text after front matter has been removed.
	Content string
}

// FilePair names the files that make up one logical source item.
// An empty path means the file is absent.
type FilePair struct {
	// ContentPath is the file holding the body (and possibly embedded metadata).
	ContentPath string

	// MetaPath is a separate metadata file, e.g. foo.yaml next to foo.html.
	MetaPath string
}

// HasContent reports whether the pair has a content file.
func (p FilePair) HasContent() bool {
	return p.ContentPath != ""
}

// HasMeta reports whether the pair has a metadata file.
func (p FilePair) HasMeta() bool {
	return p.MetaPath != ""
}

// Paths returns the present paths, content first.
func (p FilePair) Paths() []string {
	var paths []string
	if p.ContentPath != "" {
		paths = append(paths, p.ContentPath)
	}
	if p.MetaPath != "" {
		paths = append(paths, p.MetaPath)
	}
	return paths
}

// Validate checks that at least one of the two paths is present.
func (p FilePair) Validate() error {
	if p.ContentPath == "" && p.MetaPath == "" {
		return ErrInvalidInput
	}
	return nil
}

// Item is a parsed document enriched with filesystem data and checksums.
// It is produced once per collection pass and not mutated afterwards.
type Item struct {
	ParsedDocument

	// ID is a stable identifier derived from Key.
	ID string

	// Key is the root-relative slash path without extension, e.g. "/blog/post".
	Key string

	// Pair holds the source paths the item was parsed from.
	Pair FilePair

	// Extension is taken from the content file, without the leading period.
	Extension string

	// MTime is the modification time of the content file, or of the
	// metadata file for metadata-only items.
	MTime time.Time

	// AttributesChecksum is the digest of Attributes.
	AttributesChecksum string

	// ContentChecksum is the digest of Content.
	ContentChecksum string
}
