// Package jsonb normalizes JSONB-backed array columns into native slices.
//
// Postgres JSONB columns holding arrays can surface in application code as a
// native slice, as []byte, or as the JSON text of the array, depending on the
// driver path and on how the row was written. Appending to a string value as if
// it were a slice decomposes it into single characters and corrupts the column,
// so every array-column read goes through Normalize before any element-wise
// operation.
package jsonb

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// NormalizeValues coerces a raw column value of unknown shape into a native
// []any. Native slices are returned element-for-element, JSON-encoded text is
// parsed, and anything else (nil, malformed text, scalar JSON) degrades to an
// empty slice with a diagnostic. It never returns an error: a corrupt array
// field means the field starts empty, not that the operation aborts.
func NormalizeValues(field string, raw any) []any {
	switch v := raw.(type) {
	case nil:
		return []any{}
	case []any:
		return v
	case []string:
		values := make([]any, len(v))
		for i, s := range v {
			values[i] = s
		}

		return values
	case []int:
		values := make([]any, len(v))
		for i, n := range v {
			values[i] = n
		}

		return values
	case []float64:
		values := make([]any, len(v))
		for i, n := range v {
			values[i] = n
		}

		return values
	case string:
		return parseArray(field, []byte(v))
	case []byte:
		return parseArray(field, v)
	case json.RawMessage:
		return parseArray(field, v)
	default:
		log.Warn().
			Str("field", field).
			Str("type", fmt.Sprintf("%T", raw)).
			Msg("unexpected type for array field, treating as empty")

		return []any{}
	}
}

// NormalizeStrings is NormalizeValues for columns whose elements are
// identifiers. Non-string elements produced by a structured parse (JSON
// numbers, nested values) are dropped with a diagnostic rather than
// stringified, since an identifier column should never contain them.
func NormalizeStrings(field string, raw any) []string {
	if v, ok := raw.([]string); ok {
		return v
	}

	values := NormalizeValues(field, raw)
	strs := make([]string, 0, len(values))

	for _, value := range values {
		s, ok := value.(string)
		if !ok {
			log.Warn().
				Str("field", field).
				Str("type", fmt.Sprintf("%T", value)).
				Msg("dropping non-string element of identifier array field")

			continue
		}

		strs = append(strs, s)
	}

	return strs
}

// Append normalizes raw and appends elems, preserving the order of the
// existing elements. The returned slice is always freshly allocated.
func Append(field string, raw any, elems ...string) []string {
	existing := NormalizeStrings(field, raw)

	merged := make([]string, 0, len(existing)+len(elems))
	merged = append(merged, existing...)
	merged = append(merged, elems...)

	return merged
}

// AppendUnique is Append but skips elements already present.
func AppendUnique(field string, raw any, elems ...string) []string {
	existing := NormalizeStrings(field, raw)

	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[e] = struct{}{}
	}

	merged := make([]string, 0, len(existing)+len(elems))
	merged = append(merged, existing...)

	for _, e := range elems {
		if _, ok := seen[e]; ok {
			continue
		}

		seen[e] = struct{}{}

		merged = append(merged, e)
	}

	return merged
}

func parseArray(field string, data []byte) []any {
	if len(data) == 0 {
		return []any{}
	}

	var values []any
	if err := json.Unmarshal(data, &values); err == nil {
		if values == nil {
			return []any{}
		}

		return values
	}

	// Rows written through the old path hold the array's JSON text wrapped in
	// a JSON string. Unwrap one layer and parse the text itself.
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		return parseArray(field, []byte(text))
	}

	log.Warn().
		Str("field", field).
		Msg("array field holds unparsable text, treating as empty")

	return []any{}
}
