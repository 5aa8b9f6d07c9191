// Package present turns screener output into display rows, HTML pages and console tables.
package present

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Missing is shown for any unknown value
const Missing = "-"

var hundred = decimal.NewFromInt(100)

// Percent renders a ratio as a percentage with one decimal, e.g. 0.4 -> "40.0%"
func Percent(v *float64) string {
	if !known(v) {
		return Missing
	}
	return decimal.NewFromFloat(*v).Mul(hundred).StringFixed(1) + "%"
}

// Multiplier renders a ratio with two decimals, e.g. 1.5234 -> "1.52x"
func Multiplier(v *float64) string {
	if !known(v) {
		return Missing
	}
	return decimal.NewFromFloat(*v).StringFixed(2) + "x"
}

// Price renders a price without trailing zeros
func Price(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return Missing
	}
	return decimal.NewFromFloat(v).String()
}

// PricePtr is Price for optional prices
func PricePtr(v *float64) string {
	if v == nil {
		return Missing
	}
	return Price(*v)
}

// known is false for nil and for values decimal cannot represent
func known(v *float64) bool {
	return v != nil && !math.IsInf(*v, 0) && !math.IsNaN(*v)
}

// Date renders a date as YYYY-MM-DD
func Date(t *time.Time) string {
	if t == nil {
		return Missing
	}
	return t.Format("2006-01-02")
}
