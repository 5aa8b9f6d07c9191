package contracts

import (
	"fmt"
	"strings"
	"time"
)

// Metric selects which drawdown figure orders the ranking
type Metric string

const (
	// MetricRange is (high - current) / (high - low): share of the whole rise given back
	MetricRange Metric = "range"
	// MetricHigh is (high - current) / high: share of the peak price lost
	MetricHigh Metric = "high"
)

// ParseMetric converts "range" or "high" into a Metric
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case MetricRange:
		return MetricRange, nil
	case MetricHigh:
		return MetricHigh, nil
	default:
		return "", fmt.Errorf("unknown drawdown metric %q", s)
	}
}

// Label returns the column heading for the metric
func (m Metric) Label() string {
	if m == MetricHigh {
		return "高値からの下落率"
	}
	return "上げ幅に対する下落率"
}

// RankedRow is a deduplicated stock with its derived ratios
// ⭐ SSOT: ranking output passed from the screener to the presenter
type RankedRow struct {
	Rank              int        `json:"rank"` // 1-based
	Code              string     `json:"code"`
	Name              string     `json:"name"`
	Low               float64    `json:"low"`
	LowDate           *time.Time `json:"low_date,omitempty"`
	High              float64    `json:"high"`
	HighDate          *time.Time `json:"high_date,omitempty"`
	Source            Source     `json:"source"`
	RiseRatio         *float64   `json:"rise_ratio"`
	Current           *float64   `json:"current"`
	DrawdownFromHigh  *float64   `json:"drawdown_from_high"`
	DrawdownFromRange *float64   `json:"drawdown_from_high_vs_range"`
}

// Drawdown returns the figure selected by m
func (r *RankedRow) Drawdown(m Metric) *float64 {
	if m == MetricHigh {
		return r.DrawdownFromHigh
	}
	return r.DrawdownFromRange
}
