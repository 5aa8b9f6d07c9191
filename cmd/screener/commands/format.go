package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/wonny/rsystem/internal/contracts"
	"github.com/wonny/rsystem/internal/present"
)

// ═══════════════════════════════════════════════════════════
// Common console output shared by the commands
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a title block
func PrintHeader(title string, at time.Time) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", title)
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Generated : %s\n", at.Format("2006-01-02 15:04:05"))
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintNotices prints notices to stderr, errors marked
func PrintNotices(notices contracts.Notices) {
	for _, n := range notices {
		mark := "ℹ️ "
		if n.Level == contracts.NoticeError {
			mark = "❌"
		}
		fmt.Fprintf(os.Stderr, "%s %s\n", mark, n.Message)
	}
}

// PrintSummary prints ranking totals
func PrintSummary(s present.Summary) {
	fmt.Println()
	fmt.Printf("  Stocks         : %d (priced %d)\n", s.Count, s.Priced)
	fmt.Printf("  Mean rise      : %s\n", present.Multiplier(s.MeanRiseRatio))
	fmt.Printf("  Median drawdown: %s\n", present.Percent(s.MedianDrawdown))
}
