package highlow

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFloat(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
		ok    bool
	}{
		{"json number", json.Number("1234.5"), 1234.5, true},
		{"float64", 12.0, 12, true},
		{"int", 7, 7, true},
		{"numeric string", " 800 ", 800, true},
		{"string with separators", "1,200", 1200, true},
		{"blank string", "  ", 0, false},
		{"text", "n/a", 0, false},
		{"nan string", "NaN", 0, false},
		{"inf string", "inf", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"nan float", math.NaN(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "6961.0", ToString(json.Number("6961.0")))
	assert.Equal(t, "6961", ToString(6961.0))
	assert.Equal(t, "130A", ToString("130A"))
	assert.Equal(t, "", ToString(nil))
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"2025-01-03", "2025/01/03", "20250103", "2025-01-03T00:00:00", "2025-01-03 00:00:00", "2025-01-03T00:00:00Z"} {
		t.Run(input, func(t *testing.T) {
			got := ParseDate(input)
			require.NotNil(t, got)
			assert.True(t, want.Equal(*got), "got %v", got)
		})
	}

	assert.Nil(t, ParseDate("not a date"))
	assert.Nil(t, ParseDate(nil))
	assert.Nil(t, ParseDate(""))
}
