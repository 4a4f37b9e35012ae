// Package weekday decodes a proposal's selected-nights field.
//
// The column has two live encodings: an array of weekday names written by the
// current UI, and a legacy array of 1-indexed integers (1=Sunday .. 7=Saturday)
// written before the text encoding was introduced. Both decode to the same
// Sunday-first row of seven selection flags.
package weekday

import (
	"strings"

	"github.com/rs/zerolog/log"

	"splitlease/shared/jsonb"
)

// DaysInWeek is the length of every Selection.
const DaysInWeek = 7

// Names lists the canonical weekday names, Sunday first, matching the order of
// a decoded Selection.
var Names = [DaysInWeek]string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

// Day is one entry of a decoded week row.
type Day struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// Selection is the full Sunday-first week row.
type Selection [DaysInWeek]Day

// SelectedNames returns the names of the selected days in week order.
func (s Selection) SelectedNames() []string {
	names := []string{}

	for _, day := range s {
		if day.Selected {
			names = append(names, day.Name)
		}
	}

	return names
}

// Decode interprets the raw days-selected column value and returns the week
// row. The raw value is normalized first, so JSON text, []byte, nil and native
// slices are all accepted. Format detection: a non-empty sequence whose first
// element is text is decoded as weekday names; everything else takes the
// legacy-integer path. An empty sequence therefore decodes as legacy and
// yields all-unselected, which is the accepted degenerate case for both "guest
// picked no nights" and "field was lost to a fetch bug" — the data carries no
// signal to tell them apart.
func Decode(field string, raw any) Selection {
	values := jsonb.NormalizeValues(field, raw)

	if len(values) > 0 {
		if _, ok := values[0].(string); ok {
			return decodeNames(values)
		}
	}

	return decodeLegacy(field, values)
}

func decodeNames(values []any) Selection {
	selected := map[string]bool{}

	for _, value := range values {
		name, ok := value.(string)
		if !ok {
			continue
		}

		selected[strings.ToLower(strings.TrimSpace(name))] = true
	}

	var week Selection
	for i, name := range Names {
		week[i] = Day{
			Name:     name,
			Selected: selected[strings.ToLower(name)],
		}
	}

	return week
}

// decodeLegacy maps 1-indexed integers onto Sunday-first indices. Values
// outside 1..7 are ignored, not errors.
func decodeLegacy(field string, values []any) Selection {
	var week Selection
	for i, name := range Names {
		week[i] = Day{Name: name}
	}

	for _, value := range values {
		idx, ok := legacyIndex(value)
		if !ok {
			log.Debug().
				Str("field", field).
				Interface("value", value).
				Msg("ignoring out-of-range legacy day value")

			continue
		}

		week[idx].Selected = true
	}

	return week
}

func legacyIndex(value any) (int, bool) {
	var v int

	switch n := value.(type) {
	case int:
		v = n
	case int64:
		v = int(n)
	case float64:
		// JSON numbers parse as float64; non-integral values are out of range.
		if n != float64(int(n)) {
			return 0, false
		}

		v = int(n)
	default:
		return 0, false
	}

	if v < 1 || v > DaysInWeek {
		return 0, false
	}

	return v - 1, true
}
