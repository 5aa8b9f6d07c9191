package present

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rsystem/internal/contracts"
)

func TestSummarize(t *testing.T) {
	rows := []contracts.RankedRow{
		{RiseRatio: f(2.0), Current: f(80), DrawdownFromRange: f(0.4), DrawdownFromHigh: f(0.2)},
		{RiseRatio: f(1.5), Current: f(90), DrawdownFromRange: f(0.1), DrawdownFromHigh: f(0.05)},
		{RiseRatio: f(1.0)},
		{RiseRatio: f(1.5), Current: f(60), DrawdownFromRange: f(0.9), DrawdownFromHigh: f(0.3)},
	}

	s := Summarize(rows, contracts.MetricRange)
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 3, s.Priced)
	require.NotNil(t, s.MeanRiseRatio)
	assert.InDelta(t, 1.5, *s.MeanRiseRatio, 1e-9)
	require.NotNil(t, s.MedianDrawdown)
	assert.InDelta(t, 0.4, *s.MedianDrawdown, 1e-9)

	s = Summarize(rows, contracts.MetricHigh)
	require.NotNil(t, s.MedianDrawdown)
	assert.InDelta(t, 0.2, *s.MedianDrawdown, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, contracts.MetricRange)
	assert.Equal(t, 0, s.Count)
	assert.Nil(t, s.MeanRiseRatio)
	assert.Nil(t, s.MedianDrawdown)
}
