// Package yaml decodes YAML metadata into ordered attributes.
package yaml

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.MetadataDecoder = (*Decoder)(nil)

// Decoder decodes YAML documents, keeping mapping key order.
type Decoder struct{}

// New creates a new YAML decoder.
func New() *Decoder {
	return &Decoder{}
}

// Format returns "yaml".
func (d *Decoder) Format() string {
	return "yaml"
}

// Decode parses data into attributes. An empty or null document yields an
// empty mapping; any other non-mapping root is a *domain.MetadataError.
func (d *Decoder) Decode(data []byte, path string) (domain.Attributes, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.Attributes{}, nil
	}

	var root any
	if err := yaml.UnmarshalWithOptions(data, &root, yaml.UseOrderedMap()); err != nil {
		return nil, &domain.MetadataError{Path: path, Err: err}
	}

	switch v := root.(type) {
	case nil:
		return domain.Attributes{}, nil
	case yaml.MapSlice:
		return fromMapSlice(v), nil
	default:
		return nil, &domain.MetadataError{Path: path, Kind: domain.KindName(root)}
	}
}

func fromMapSlice(ms yaml.MapSlice) domain.Attributes {
	attrs := make(domain.Attributes, 0, len(ms))
	for _, item := range ms {
		attrs = append(attrs, domain.Attribute{
			Key:   keyString(item.Key),
			Value: convert(item.Value),
		})
	}
	return attrs
}

func convert(v any) any {
	switch val := v.(type) {
	case yaml.MapSlice:
		return fromMapSlice(val)
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

// keyString renders non-string keys (e.g. 1: foo) the way they were written.
func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

// Encode renders attributes as a YAML document in their original order.
func Encode(attrs domain.Attributes) ([]byte, error) {
	if attrs.Len() == 0 {
		return []byte("{}\n"), nil
	}
	return yaml.Marshal(toMapSlice(attrs))
}

func toMapSlice(attrs domain.Attributes) yaml.MapSlice {
	ms := make(yaml.MapSlice, 0, len(attrs))
	for _, a := range attrs {
		ms = append(ms, yaml.MapItem{Key: a.Key, Value: unconvert(a.Value)})
	}
	return ms
}

func unconvert(v any) any {
	switch val := v.(type) {
	case domain.Attributes:
		return toMapSlice(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = unconvert(item)
		}
		return out
	default:
		return v
	}
}
