package present

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rsystem/internal/contracts"
	"github.com/wonny/rsystem/internal/screener"
	"github.com/wonny/rsystem/pkg/config"
)

func TestLinksFor(t *testing.T) {
	links := LinksFor(config.DefaultLinks(), "6961")

	assert.Equal(t, "https://kabuka-check-app.onrender.com/?code=6961", links.Detail)
	assert.Equal(t, "https://kabutan.jp/stock/finance?code=6961", links.Finance)
	assert.Equal(t, "https://kabutan.jp/stock/news?code=6961", links.News)
}

func TestLinksFor_EmptyTemplate(t *testing.T) {
	links := LinksFor(config.LinkConfig{Detail: "https://example.com/%s"}, "130A")
	assert.Equal(t, "https://example.com/130A", links.Detail)
	assert.Empty(t, links.Finance)
}

func TestFormatRanking(t *testing.T) {
	high := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	rows := []contracts.RankedRow{{
		Rank: 1, Code: "1000", Name: "Alpha",
		Low: 50, High: 100, HighDate: &high, Source: contracts.SourceToday,
		RiseRatio: f(2), Current: f(80),
		DrawdownFromHigh: f(0.2), DrawdownFromRange: f(0.4),
	}}

	out := FormatRanking(rows, config.DefaultLinks())
	require.Len(t, out, 1)
	assert.Equal(t, "40.0%", out[0].DrawdownFromRange)
	assert.Equal(t, "20.0%", out[0].DrawdownFromHigh)
	assert.Equal(t, "2.00x", out[0].RiseRatio)
	assert.Equal(t, "80", out[0].Current)
	assert.Equal(t, Missing, out[0].LowDate)
	assert.Equal(t, "2025-01-03", out[0].HighDate)
	assert.Equal(t, "本日", out[0].Source)
}

func TestFormatRanking_Nulls(t *testing.T) {
	out := FormatRanking([]contracts.RankedRow{{Rank: 1, Code: "2000", Low: 100, High: 100}}, config.DefaultLinks())
	assert.Equal(t, Missing, out[0].Current)
	assert.Equal(t, Missing, out[0].DrawdownFromRange)
	assert.Equal(t, Missing, out[0].DrawdownFromHigh)
	assert.Equal(t, Missing, out[0].RiseRatio)
}

func TestFormatDaily(t *testing.T) {
	out := FormatDaily([]contracts.SnapshotRow{{Code: "1000", Name: "A", Low: 100, High: 152}}, config.DefaultLinks())
	require.Len(t, out, 1)
	assert.Equal(t, "1.52x", out[0].RiseRatio)
	assert.Equal(t, "152", out[0].High)
}

func TestExclude(t *testing.T) {
	rows := []contracts.SnapshotRow{
		{Code: "9501"}, {Code: "1000"}, {Code: "7203.0"}, {Code: "9432"}, {Code: "2000"},
	}

	out := Exclude(rows, []string{"9501", "9432", "7203"})
	require.Len(t, out, 2)
	assert.Equal(t, "1000", out[0].Code)
	assert.Equal(t, "2000", out[1].Code)

	assert.Len(t, Exclude(rows, nil), 5)
}

func TestFilterDaily(t *testing.T) {
	t.Run("emptied by exclusion", func(t *testing.T) {
		result := FilterDaily(screener.DailyResult{
			Source: contracts.SourceToday,
			Rows:   []contracts.SnapshotRow{{Code: "9501"}},
		}, []string{"9501"})

		assert.Empty(t, result.Rows)
		require.Len(t, result.Notices, 1)
		assert.Equal(t, contracts.NoticeInfo, result.Notices[0].Level)
	})

	t.Run("already empty keeps its notices", func(t *testing.T) {
		var notices contracts.Notices
		notices.Info(contracts.SourceToday, "本日は該当銘柄がありませんでした")

		result := FilterDaily(screener.DailyResult{
			Source:  contracts.SourceToday,
			Rows:    []contracts.SnapshotRow{},
			Notices: notices,
		}, []string{"9501"})

		assert.Len(t, result.Notices, 1)
	})
}
