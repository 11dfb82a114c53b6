package domain

import (
	"fmt"
	"reflect"
	"time"
)

// KindName names the shape of a decoded metadata value for error messages.
func KindName(v any) string {
	switch v.(type) {
	case nil:
		return "Null"
	case string:
		return "String"
	case bool:
		return "Boolean"
	case time.Time:
		return "Time"
	case Attributes, map[string]any:
		return "Hash"
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return "Array"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "Integer"
	case reflect.Float32, reflect.Float64:
		return "Float"
	case reflect.Map:
		return "Hash"
	default:
		return fmt.Sprintf("%T", v)
	}
}
