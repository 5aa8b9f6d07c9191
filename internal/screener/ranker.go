package screener

import (
	"math"
	"sort"

	"github.com/wonny/rsystem/internal/contracts"
)

// RiseRatio is high / low, nil when low is zero
func RiseRatio(high, low float64) *float64 {
	if low == 0 {
		return nil
	}
	return finite(high / low)
}

// DrawdownFromHigh is (high - current) / high, nil without a price or when high is zero
func DrawdownFromHigh(high float64, current *float64) *float64 {
	if current == nil || high == 0 {
		return nil
	}
	return finite((high - *current) / high)
}

// DrawdownFromRange is (high - current) / (high - low), nil without a price or unless high > low.
// 0 means still at the high, 1 means back at the low.
func DrawdownFromRange(high, low float64, current *float64) *float64 {
	if current == nil || high <= low {
		return nil
	}
	return finite((high - *current) / (high - low))
}

// finite drops ratios that overflowed, e.g. a low of 1e-320
func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// Rank derives the ratios for every row and orders them by metric
func Rank(rows []PricedRow, metric contracts.Metric) []contracts.RankedRow {
	ranked := make([]contracts.RankedRow, len(rows))
	for i, row := range rows {
		ranked[i] = contracts.RankedRow{
			Code:              row.Code,
			Name:              row.Name,
			Low:               row.Low,
			LowDate:           row.LowDate,
			High:              row.High,
			HighDate:          row.HighDate,
			Source:            row.Source,
			RiseRatio:         RiseRatio(row.High, row.Low),
			Current:           row.Current,
			DrawdownFromHigh:  DrawdownFromHigh(row.High, row.Current),
			DrawdownFromRange: DrawdownFromRange(row.High, row.Low, row.Current),
		}
	}
	return Sort(ranked, metric)
}

// Sort returns a copy ordered by metric descending with nil values last.
// Ties keep input order and ranks are renumbered from 1.
func Sort(rows []contracts.RankedRow, metric contracts.Metric) []contracts.RankedRow {
	out := make([]contracts.RankedRow, len(rows))
	copy(out, rows)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Drawdown(metric), out[j].Drawdown(metric)
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a > *b
	})

	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
