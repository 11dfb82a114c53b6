package metadata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/sitesource/internal/adapters/driven/metadata/toml"
	"github.com/custodia-labs/sitesource/internal/adapters/driven/metadata/yaml"
	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.DecoderRegistry = (*Registry)(nil)

// Registry maps metadata file extensions to decoders.
type Registry struct {
	def      driven.MetadataDecoder
	decoders map[string]driven.MetadataDecoder
}

// NewRegistry creates a registry whose embedded front matter decoder is def.
func NewRegistry(def driven.MetadataDecoder) *Registry {
	return &Registry{
		def:      def,
		decoders: make(map[string]driven.MetadataDecoder),
	}
}

// NewDefaultRegistry builds a registry for the given metadata extensions.
// yaml, yml and json decode as YAML; toml decodes as TOML.
func NewDefaultRegistry(extensions []string) (*Registry, error) {
	yamlDecoder := yaml.New()
	tomlDecoder := toml.New()

	r := NewRegistry(yamlDecoder)
	for _, ext := range extensions {
		ext = normaliseExt(ext)
		switch ext {
		case "yaml", "yml", "json":
			r.Register(ext, yamlDecoder)
		case "toml":
			r.Register(ext, tomlDecoder)
		default:
			return nil, fmt.Errorf("%w: metadata extension %q", domain.ErrUnsupportedType, ext)
		}
	}
	return r, nil
}

// Register adds a decoder for an extension, replacing any existing one.
func (r *Registry) Register(ext string, decoder driven.MetadataDecoder) {
	r.decoders[normaliseExt(ext)] = decoder
}

// Default returns the decoder used for embedded front matter.
func (r *Registry) Default() driven.MetadataDecoder {
	return r.def
}

// ForExtension returns the decoder registered for ext.
func (r *Registry) ForExtension(ext string) (driven.MetadataDecoder, bool) {
	d, ok := r.decoders[normaliseExt(ext)]
	return d, ok
}

// Extensions returns all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.decoders))
	for ext := range r.decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normaliseExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
