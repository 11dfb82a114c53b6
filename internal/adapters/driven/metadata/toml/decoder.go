// Package toml decodes TOML metadata files into attributes.
package toml

import (
	"bytes"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.MetadataDecoder = (*Decoder)(nil)

// Decoder decodes TOML documents. TOML tables carry no order once decoded,
// so keys come back sorted.
type Decoder struct{}

// New creates a new TOML decoder.
func New() *Decoder {
	return &Decoder{}
}

// Format returns "toml".
func (d *Decoder) Format() string {
	return "toml"
}

// Decode parses data into attributes. The root of a TOML document is
// always a table, so only syntax errors are reported.
func (d *Decoder) Decode(data []byte, path string) (domain.Attributes, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.Attributes{}, nil
	}

	var root map[string]any
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, &domain.MetadataError{Path: path, Err: err}
	}
	return fromMap(root), nil
}

func fromMap(m map[string]any) domain.Attributes {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make(domain.Attributes, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, domain.Attribute{Key: k, Value: convert(m[k])})
	}
	return attrs
}

func convert(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return fromMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = convert(item)
		}
		return out
	default:
		return v
	}
}
