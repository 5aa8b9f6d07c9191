package present

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestPercent(t *testing.T) {
	assert.Equal(t, "40.0%", Percent(f(0.4)))
	assert.Equal(t, "12.3%", Percent(f(0.12345)))
	assert.Equal(t, "-5.0%", Percent(f(-0.05)))
	assert.Equal(t, "0.0%", Percent(f(0)))
	assert.Equal(t, Missing, Percent(nil))
}

func TestMultiplier(t *testing.T) {
	assert.Equal(t, "1.52x", Multiplier(f(1.5234)))
	assert.Equal(t, "2.00x", Multiplier(f(2)))
	assert.Equal(t, Missing, Multiplier(nil))
}

func TestFormat_NonFiniteIsMissing(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, Missing, Multiplier(f(math.Inf(1))))
		assert.Equal(t, Missing, Percent(f(math.Inf(-1))))
		assert.Equal(t, Missing, Percent(f(math.NaN())))
		assert.Equal(t, Missing, Price(math.Inf(1)))
	})
}

func TestPrice(t *testing.T) {
	assert.Equal(t, "1234.5", Price(1234.5))
	assert.Equal(t, "80", Price(80))
	assert.Equal(t, Missing, PricePtr(nil))
	assert.Equal(t, "80", PricePtr(f(80)))
}

func TestDate(t *testing.T) {
	d := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-03", Date(&d))
	assert.Equal(t, Missing, Date(nil))
}
