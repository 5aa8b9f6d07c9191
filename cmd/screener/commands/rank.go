package commands

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/rsystem/internal/contracts"
	"github.com/wonny/rsystem/internal/present"
	"github.com/wonny/rsystem/internal/screener"
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Print the drawdown ranking",
	Long: `Merges the ranking sources, prices every stock and prints the
ranking ordered by drawdown, largest first. Unpriced stocks come last.

Example:
  go run ./cmd/screener rank
  go run ./cmd/screener rank --metric high --limit 30
  go run ./cmd/screener rank --sources today,yesterday
  go run ./cmd/screener rank --json`,
	RunE: runRank,
}

var (
	rankMetric  string
	rankSources string
	rankLimit   int
	rankJSON    bool
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVar(&rankMetric, "metric", "", "range or high (default from RANKING_METRIC)")
	rankCmd.Flags().StringVar(&rankSources, "sources", "", "comma-separated snapshot keys to merge (default from RANKING_SOURCES)")
	rankCmd.Flags().IntVar(&rankLimit, "limit", 0, "show only the top N rows (0 = all)")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "print JSON instead of a table")
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	metric := a.metric
	if rankMetric != "" {
		if metric, err = contracts.ParseMetric(rankMetric); err != nil {
			return err
		}
	}

	pipeline := a.pipeline
	if rankSources != "" {
		sources, err := parseSourcesFlag(rankSources)
		if err != nil {
			return err
		}
		pipeline = screener.NewPipeline(a.fetcher, sources, a.cfg.Screener.CandleCloseFallback, a.log)
	}

	result := pipeline.Ranking(ctx, metric)

	rows := result.Rows
	if rankLimit > 0 && len(rows) > rankLimit {
		rows = rows[:rankLimit]
	}

	if rankJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		result.Rows = rows
		return enc.Encode(result)
	}

	PrintHeader(metric.Label()+"ランキング", result.GeneratedAt)
	PrintNotices(result.Notices)
	present.WriteRankingTable(os.Stdout, present.FormatRanking(rows, a.cfg.Dashboard.Links))

	summary := present.Summarize(result.Rows, metric)
	PrintSummary(summary)
	return nil
}

// parseSourcesFlag reads a comma-separated list such as "today, yesterday"
func parseSourcesFlag(raw string) ([]contracts.Source, error) {
	return contracts.ParseSources(strings.Split(raw, ","))
}
