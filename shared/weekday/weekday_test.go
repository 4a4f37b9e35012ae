package weekday_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"splitlease/shared/weekday"
)

func selectedOnly(s weekday.Selection) []string {
	return s.SelectedNames()
}

func TestDecode_WeekdayNames(t *testing.T) {
	got := weekday.Decode("days_selected", []any{"Monday", "Wednesday", "Friday"})

	assert.Len(t, got, weekday.DaysInWeek)
	assert.Equal(t, []string{"Monday", "Wednesday", "Friday"}, selectedOnly(got))
	assert.Equal(t, "Sunday", got[0].Name)
	assert.False(t, got[0].Selected)
	assert.False(t, got[6].Selected)
}

func TestDecode_LegacyIntegers(t *testing.T) {
	// 1-indexed with 1=Sunday, so 2/4/6 are Monday/Wednesday/Friday.
	got := weekday.Decode("days_selected", []any{2, 4, 6})

	assert.Equal(t, []string{"Monday", "Wednesday", "Friday"}, selectedOnly(got))
}

func TestDecode_LegacyBounds(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected []string
	}{
		{
			name:     "1 maps to Sunday",
			raw:      []any{1},
			expected: []string{"Sunday"},
		},
		{
			name:     "7 maps to Saturday",
			raw:      []any{7},
			expected: []string{"Saturday"},
		},
		{
			name:     "out of range values are ignored",
			raw:      []any{0, 8, -3, 100, 3},
			expected: []string{"Tuesday"},
		},
		{
			name:     "non integral values are ignored",
			raw:      []any{2.5, 5},
			expected: []string{"Thursday"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, selectedOnly(weekday.Decode("days_selected", tt.raw)))
		})
	}
}

func TestDecode_EmptyYieldsAllUnselected(t *testing.T) {
	got := weekday.Decode("days_selected", []any{})

	for _, day := range got {
		assert.False(t, day.Selected, day.Name)
	}
}

func TestDecode_RawJSONText(t *testing.T) {
	t.Run("serialized name array", func(t *testing.T) {
		got := weekday.Decode("days_selected", `["Sunday","Saturday"]`)

		assert.Equal(t, []string{"Sunday", "Saturday"}, selectedOnly(got))
	})

	t.Run("serialized legacy array", func(t *testing.T) {
		got := weekday.Decode("days_selected", `[2,4,6]`)

		assert.Equal(t, []string{"Monday", "Wednesday", "Friday"}, selectedOnly(got))
	})

	t.Run("null column", func(t *testing.T) {
		got := weekday.Decode("days_selected", nil)

		assert.Empty(t, selectedOnly(got))
	})

	t.Run("unparsable text", func(t *testing.T) {
		got := weekday.Decode("days_selected", "{oops")

		assert.Empty(t, selectedOnly(got))
	})
}

func TestDecode_MixedCaseNames(t *testing.T) {
	got := weekday.Decode("days_selected", []any{"monday", " FRIDAY "})

	assert.Equal(t, []string{"Monday", "Friday"}, selectedOnly(got))
}
