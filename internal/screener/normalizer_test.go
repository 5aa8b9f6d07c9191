package screener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rsystem/internal/contracts"
)

func TestCanonicalCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"6961", "6961"},
		{"6961.0", "6961"},
		{" 6961.00 ", "6961"},
		{"6961.", "6961"},
		{"130A", "130A"},
		{"0050", "0050"},
		{"6961.5", "6961.5"},
		{"6961e0", "6961"},
		{"6.961e3", "6961"},
		{"6961E+00", "6961"},
		{"6.9615e3", "6.9615e3"},
		{"1e400", "1e400"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalCode(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	raws := []contracts.RawRow{
		{"code": "1000", "name": "Alpha", "low": 50.0, "high": 100.0, "low_date": "2025-01-01", "high_date": "2025-01-03"},
		{"code": 2000.0, "name": "Beta", "low": "1,200", "high": "1,500", "low_date": "bad", "high_date": nil},
		{"code": "3000", "name": "NoHigh", "low": 10.0, "high": "n/a"},
		{"code": "4000", "name": "NoLow", "high": 10.0},
	}

	rows := Normalize(contracts.SourceToday, raws)
	require.Len(t, rows, 2)

	assert.Equal(t, "1000", rows[0].Code)
	assert.Equal(t, "Alpha", rows[0].Name)
	assert.Equal(t, 50.0, rows[0].Low)
	assert.Equal(t, 100.0, rows[0].High)
	require.NotNil(t, rows[0].HighDate)
	assert.Equal(t, "2025-01-03", rows[0].HighDate.Format("2006-01-02"))
	assert.Equal(t, contracts.SourceToday, rows[0].Source)

	assert.Equal(t, "2000", rows[1].Code)
	assert.Equal(t, 1200.0, rows[1].Low)
	assert.Equal(t, 1500.0, rows[1].High)
	assert.Nil(t, rows[1].LowDate)
	assert.Nil(t, rows[1].HighDate)
}

func TestNormalize_Empty(t *testing.T) {
	rows := Normalize(contracts.SourceYesterday, nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
