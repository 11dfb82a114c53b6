package driven

import "github.com/custodia-labs/sitesource/internal/core/domain"

// DocumentParser splits a file pair into attributes and content.
type DocumentParser interface {
	// Parse reads the files named by pair and returns the parsed document.
	Parse(pair domain.FilePair) (*domain.ParsedDocument, error)
}

// Checksummer computes opaque, stable digests.
// Content and attribute digests are independent of each other.
type Checksummer interface {
	// Content digests a content string.
	Content(content string) string

	// Attributes digests a mapping; key order does not affect the result.
	Attributes(attrs domain.Attributes) (string, error)
}
