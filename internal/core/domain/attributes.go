package domain

// Attribute is a single key-value pair in an Attributes mapping.
type Attribute struct {
	Key   string
	Value any
}

// Attributes is an ordered mapping of string keys to values.
// Keys keep the order in which the metadata declared them.
// Nested mappings are themselves Attributes.
type Attributes []Attribute

// Len returns the number of keys.
func (a Attributes) Len() int {
	return len(a)
}

// Get returns the value for key and whether it was present.
func (a Attributes) Get(key string) (any, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in declaration order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for _, attr := range a {
		keys = append(keys, attr.Key)
	}
	return keys
}

// Set replaces the value for key, appending it when absent.
// The receiver is not modified; the updated mapping is returned.
func (a Attributes) Set(key string, value any) Attributes {
	out := make(Attributes, len(a), len(a)+1)
	copy(out, a)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Attribute{Key: key, Value: value})
}

// Map converts the attributes into plain Go maps, recursing into
// nested mappings and slices. Key order is lost.
func (a Attributes) Map() map[string]any {
	m := make(map[string]any, len(a))
	for _, attr := range a {
		m[attr.Key] = plainValue(attr.Value)
	}
	return m
}

func plainValue(v any) any {
	switch val := v.(type) {
	case Attributes:
		return val.Map()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}
