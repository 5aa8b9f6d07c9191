package present

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/rsystem/internal/contracts"
)

// Summary describes one ranking at a glance
type Summary struct {
	Count          int      `json:"count"`
	Priced         int      `json:"priced"`
	MeanRiseRatio  *float64 `json:"mean_rise_ratio"`
	MedianDrawdown *float64 `json:"median_drawdown"`
}

// Summarize computes counts and central values over the selected metric.
// Unknown values are left out; nil means nothing to average.
func Summarize(rows []contracts.RankedRow, metric contracts.Metric) Summary {
	s := Summary{Count: len(rows)}

	var rises, drawdowns []float64
	for i := range rows {
		if rows[i].Current != nil {
			s.Priced++
		}
		if v := rows[i].RiseRatio; v != nil {
			rises = append(rises, *v)
		}
		if v := rows[i].Drawdown(metric); v != nil {
			drawdowns = append(drawdowns, *v)
		}
	}

	if len(rises) > 0 {
		mean := stat.Mean(rises, nil)
		s.MeanRiseRatio = &mean
	}
	if len(drawdowns) > 0 {
		sort.Float64s(drawdowns)
		median := stat.Quantile(0.5, stat.Empirical, drawdowns, nil)
		s.MedianDrawdown = &median
	}
	return s
}
