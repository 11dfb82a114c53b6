package driven

import "github.com/custodia-labs/sitesource/internal/core/domain"

// MetadataDecoder decodes a metadata block into an ordered mapping.
// Implementations return an empty mapping for an empty or null document
// and a *domain.MetadataError when the root is not a mapping.
type MetadataDecoder interface {
	// Format returns the format name, e.g. "yaml".
	Format() string

	// Decode parses data. path is used for error reporting only.
	Decode(data []byte, path string) (domain.Attributes, error)
}

// DecoderRegistry selects metadata decoders.
type DecoderRegistry interface {
	// Default returns the decoder used for embedded front matter.
	Default() MetadataDecoder

	// ForExtension returns the decoder for a metadata file extension
	// (without the leading period).
	ForExtension(ext string) (MetadataDecoder, bool)

	// Extensions returns the registered metadata extensions.
	Extensions() []string
}
