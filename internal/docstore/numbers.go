package docstore

import "encoding/json"

// NormalizeNumbers walks a value decoded with json.Decoder.UseNumber and replaces every
// json.Number with an int64 when it is integral, or a float64 otherwise. Backends such as
// Firestore keep the two apart, so integers submitted by clients stay integers.
func NormalizeNumbers(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = NormalizeNumbers(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = NormalizeNumbers(item)
		}
		return val
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	default:
		return v
	}
}
