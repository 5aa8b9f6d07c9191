package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/rsystem/internal/contracts"
	"github.com/wonny/rsystem/internal/present"
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot [source]",
	Short: "Print one day's breakout list",
	Long: `Prints the stocks that set a high on the given day, in upstream order,
with the configured exclusion list applied.

Sources: today, yesterday, target2day, target3day, target4day, target5day

Example:
  go run ./cmd/screener snapshot
  go run ./cmd/screener snapshot target2day --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSnapshot,
}

var snapshotJSON bool

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "print JSON instead of a table")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	source := contracts.SourceToday
	if len(args) == 1 {
		parsed, err := contracts.ParseSource(args[0])
		if err != nil {
			return err
		}
		source = parsed
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result := present.FilterDaily(a.pipeline.DailyList(ctx, source), a.cfg.Dashboard.ExcludeCodes)

	if snapshotJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	PrintHeader(source.Label()+"の高値ブレイク銘柄", result.GeneratedAt)
	PrintNotices(result.Notices)
	if len(result.Rows) > 0 {
		present.WriteDailyTable(os.Stdout, present.FormatDaily(result.Rows, a.cfg.Dashboard.Links))
	}
	return nil
}
