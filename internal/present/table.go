package present

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/wonny/rsystem/internal/contracts"
)

var rightAligned = []table.ColumnConfig{
	{Name: "安値", Align: text.AlignRight},
	{Name: "高値", Align: text.AlignRight},
	{Name: "上昇率", Align: text.AlignRight},
	{Name: "現在値", Align: text.AlignRight},
	{Name: contracts.MetricRange.Label(), Align: text.AlignRight},
	{Name: contracts.MetricHigh.Label(), Align: text.AlignRight},
}

// WriteRankingTable prints the ranking as a console table
func WriteRankingTable(w io.Writer, rows []RankingRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs(rightAligned)

	t.AppendHeader(table.Row{
		"#", "コード", "銘柄名", "安値", "安値日", "高値", "高値日", "上昇率", "現在値",
		contracts.MetricRange.Label(), contracts.MetricHigh.Label(),
	})
	for _, r := range rows {
		t.AppendRow(table.Row{
			r.Rank, r.Code, r.Name, r.Low, r.LowDate, r.High, r.HighDate,
			r.RiseRatio, r.Current, r.DrawdownFromRange, r.DrawdownFromHigh,
		})
	}
	t.Render()
}

// WriteDailyTable prints one source's rows as a console table
func WriteDailyTable(w io.Writer, rows []DailyRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs(rightAligned)

	t.AppendHeader(table.Row{"コード", "銘柄名", "安値", "安値日", "高値", "高値日", "上昇率"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Code, r.Name, r.Low, r.LowDate, r.High, r.HighDate, r.RiseRatio})
	}
	t.Render()
}
