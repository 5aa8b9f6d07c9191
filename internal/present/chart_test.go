package present

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rsystem/internal/contracts"
)

func TestRenderCandleChart(t *testing.T) {
	candles := []contracts.Candle{
		{Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Open: 90, High: 100, Low: 85, Close: 95},
		{Date: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), Open: 95, High: 96, Low: 75, Close: 80},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderCandleChart(&buf, "1000", "Alpha", candles))

	page := buf.String()
	assert.Contains(t, page, "echarts")
	assert.Contains(t, page, "candlestick")
	assert.Contains(t, page, "2025-01-03")
	assert.Contains(t, page, upColor)
	assert.Contains(t, page, downColor)
}

func TestRenderCandleChart_NoData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCandleChart(&buf, "1000", "Alpha", nil))
	assert.Contains(t, buf.String(), "echarts")
}
