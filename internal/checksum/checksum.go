// Package checksum computes stable digests used to detect changed items
// without re-parsing them.
//
// Content and attributes are digested separately so that editing only the
// metadata of an item leaves its content checksum untouched, and vice versa.
package checksum

import (
	"fmt"
	"reflect"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/core/ports/driven"
)

// Size is the length of every digest token in characters.
const Size = 16

// Ensure Computer implements the interface.
var _ driven.Checksummer = (*Computer)(nil)

// Computer produces fixed-length hexadecimal digests.
// It holds no state and is safe for concurrent use.
type Computer struct{}

// New creates a new checksum computer.
func New() *Computer {
	return &Computer{}
}

// Content digests a content string.
func (c *Computer) Content(content string) string {
	return token(xxhash.Sum64String(content))
}

// Attributes digests a mapping. Mappings are hashed as unordered sets of
// key-value pairs, so two mappings with the same entries in a different
// order produce the same digest. Lists stay ordered.
func (c *Computer) Attributes(attrs domain.Attributes) (string, error) {
	sum, err := hashstructure.Hash(canonical(attrs), hashstructure.FormatV2, &hashstructure.HashOptions{
		Hasher: xxhash.New(),
	})
	if err != nil {
		return "", fmt.Errorf("hashing attributes: %w", err)
	}
	return token(sum), nil
}

func token(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

// canonical rewrites a decoded value into plain maps, slices and scalars.
// Times and other structs are rendered as text since hashstructure only
// sees exported fields.
func canonical(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case domain.Attributes:
		m := make(map[string]any, len(val))
		for _, attr := range val {
			m[attr.Key] = canonical(attr.Value)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = canonical(item)
		}
		return m
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = canonical(item)
		}
		return out
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	}
	if reflect.TypeOf(v).Kind() == reflect.Struct {
		return fmt.Sprintf("%v", v)
	}
	return v
}
