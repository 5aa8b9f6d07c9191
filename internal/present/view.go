package present

import (
	"github.com/wonny/rsystem/internal/contracts"
	"github.com/wonny/rsystem/internal/screener"
	"github.com/wonny/rsystem/pkg/config"
)

// RankingRow is one formatted ranking line
type RankingRow struct {
	Rank              int    `json:"rank"`
	Code              string `json:"code"`
	Name              string `json:"name"`
	Low               string `json:"low"`
	LowDate           string `json:"low_date"`
	High              string `json:"high"`
	HighDate          string `json:"high_date"`
	Source            string `json:"source"`
	RiseRatio         string `json:"rise_ratio"`
	Current           string `json:"current"`
	DrawdownFromHigh  string `json:"drawdown_from_high"`
	DrawdownFromRange string `json:"drawdown_from_high_vs_range"`
	Links             Links  `json:"links"`
}

// DailyRow is one formatted per-day card
type DailyRow struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Low       string `json:"low"`
	LowDate   string `json:"low_date"`
	High      string `json:"high"`
	HighDate  string `json:"high_date"`
	RiseRatio string `json:"rise_ratio"`
	Links     Links  `json:"links"`
}

// FormatRanking converts ranked rows for display
func FormatRanking(rows []contracts.RankedRow, links config.LinkConfig) []RankingRow {
	out := make([]RankingRow, len(rows))
	for i, r := range rows {
		out[i] = RankingRow{
			Rank:              r.Rank,
			Code:              r.Code,
			Name:              r.Name,
			Low:               Price(r.Low),
			LowDate:           Date(r.LowDate),
			High:              Price(r.High),
			HighDate:          Date(r.HighDate),
			Source:            r.Source.Label(),
			RiseRatio:         Multiplier(r.RiseRatio),
			Current:           PricePtr(r.Current),
			DrawdownFromHigh:  Percent(r.DrawdownFromHigh),
			DrawdownFromRange: Percent(r.DrawdownFromRange),
			Links:             LinksFor(links, r.Code),
		}
	}
	return out
}

// FormatDaily converts one source's rows for display
func FormatDaily(rows []contracts.SnapshotRow, links config.LinkConfig) []DailyRow {
	out := make([]DailyRow, len(rows))
	for i, r := range rows {
		out[i] = DailyRow{
			Code:      r.Code,
			Name:      r.Name,
			Low:       Price(r.Low),
			LowDate:   Date(r.LowDate),
			High:      Price(r.High),
			HighDate:  Date(r.HighDate),
			RiseRatio: Multiplier(screener.RiseRatio(r.High, r.Low)),
			Links:     LinksFor(links, r.Code),
		}
	}
	return out
}

// Exclude drops rows whose canonical code is in codes
func Exclude(rows []contracts.SnapshotRow, codes []string) []contracts.SnapshotRow {
	if len(codes) == 0 {
		return rows
	}

	blocked := make(map[string]bool, len(codes))
	for _, c := range codes {
		blocked[screener.CanonicalCode(c)] = true
	}

	out := make([]contracts.SnapshotRow, 0, len(rows))
	for _, r := range rows {
		if !blocked[screener.CanonicalCode(r.Code)] {
			out = append(out, r)
		}
	}
	return out
}

// FilterDaily applies the exclusion list to a day list.
// A list emptied only by exclusion gets an info notice.
func FilterDaily(result screener.DailyResult, codes []string) screener.DailyResult {
	before := len(result.Rows)
	result.Rows = Exclude(result.Rows, codes)
	if before > 0 && len(result.Rows) == 0 {
		result.Notices = append(result.Notices, contracts.Notice{
			Level:   contracts.NoticeInfo,
			Source:  result.Source,
			Message: "データがありません",
		})
	}
	return result
}
