package present

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/wonny/rsystem/internal/contracts"
)

const (
	upColor    = "red"
	downColor  = "blue"
	chartPanel = "#f8f8f8"
)

// CandleChart builds a compact daily candlestick chart: red up bars, blue down bars, no axes
func CandleChart(code, name string, candles []contracts.Candle) *charts.Kline {
	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       fmt.Sprintf("%s（%s）", name, code),
			Width:           "100%",
			Height:          "200px",
			BackgroundColor: chartPanel,
		}),
		charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(false), Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(false), Scale: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(false)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithGridOpts(opts.Grid{Left: "10", Right: "10", Top: "10", Bottom: "10"}),
	)

	dates := make([]string, len(candles))
	bars := make([]opts.KlineData, len(candles))
	for i, c := range candles {
		dates[i] = c.Date.Format("2006-01-02")
		// echarts order: open, close, low, high
		bars[i] = opts.KlineData{Value: [4]float64{c.Open, c.Close, c.Low, c.High}}
	}

	kline.SetXAxis(dates).AddSeries(code, bars,
		charts.WithItemStyleOpts(opts.ItemStyle{
			Color:        upColor,
			Color0:       downColor,
			BorderColor:  upColor,
			BorderColor0: downColor,
		}),
	)
	return kline
}

// RenderCandleChart writes the chart as a standalone HTML page
func RenderCandleChart(w io.Writer, code, name string, candles []contracts.Candle) error {
	if err := CandleChart(code, name, candles).Render(w); err != nil {
		return fmt.Errorf("render chart %s: %w", code, err)
	}
	return nil
}
