// Package convert maps loosely typed configuration values between the JSON
// and TOML representations of an MCP server spec.
//
// Only shapes that survive both formats unchanged are carried across:
// string/int/float/bool scalars, arrays whose elements are all such
// scalars, and flat string-to-string tables. Anything else is dropped
// whole, never partially converted.
package convert

// ToTOML converts a JSON-decoded value to its TOML equivalent.
// The second return is false when the value has no faithful TOML shape,
// in which case the field should be omitted.
func ToTOML(v any) (any, bool) {
	return convertValue(v)
}

// FromTOML converts a TOML-decoded value to its JSON equivalent.
// The second return is false when the value has no faithful JSON shape.
func FromTOML(v any) (any, bool) {
	return convertValue(v)
}

func convertValue(v any) (any, bool) {
	switch val := v.(type) {
	case string, bool:
		return val, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return val, true
	case float32, float64:
		return val, true
	case []any:
		return convertArray(val)
	case map[string]any:
		return convertTable(val)
	default:
		// nil and every other shape (nested arrays wrapped in interfaces,
		// dates, typed structs) have no faithful counterpart.
		return nil, false
	}
}

// convertArray accepts a non-empty array whose elements are all
// scalars. A single non-scalar element rejects the whole array.
func convertArray(arr []any) (any, bool) {
	if len(arr) == 0 {
		return nil, false
	}
	out := make([]any, 0, len(arr))
	for _, elem := range arr {
		if !isScalar(elem) {
			return nil, false
		}
		out = append(out, elem)
	}
	return out, true
}

// convertTable accepts a non-empty object whose values are all strings.
// A single non-string value rejects the whole table.
func convertTable(m map[string]any) (any, bool) {
	if len(m) == 0 {
		return nil, false
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		out[k] = s
	}
	return out, true
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}
