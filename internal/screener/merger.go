package screener

import (
	"context"
	"time"

	"github.com/wonny/rsystem/internal/contracts"
	"github.com/wonny/rsystem/pkg/logger"
)

// SnapshotFetcher yields normalized rows for one source
type SnapshotFetcher interface {
	Snapshot(ctx context.Context, source contracts.Source) ([]contracts.SnapshotRow, error)
}

// Merger concatenates several snapshots and keeps one row per code
type Merger struct {
	fetcher SnapshotFetcher
	logger  *logger.Logger
}

// NewMerger creates a new merger
func NewMerger(fetcher SnapshotFetcher, log *logger.Logger) *Merger {
	return &Merger{
		fetcher: fetcher,
		logger:  log,
	}
}

// Merge fetches sources in order and deduplicates by code.
// Failed sources contribute no rows and a notice; the rest still merge.
func (m *Merger) Merge(ctx context.Context, sources []contracts.Source) ([]contracts.SnapshotRow, contracts.Notices) {
	var notices contracts.Notices
	var all []contracts.SnapshotRow

	for _, source := range sources {
		rows, err := m.fetcher.Snapshot(ctx, source)
		if err != nil {
			notices = append(notices, snapshotNotice(source, err))
			m.logger.WithError(err).WithField("source", source).Warn("Snapshot skipped in merge")
			continue
		}
		all = append(all, rows...)
	}

	merged := Dedupe(all)

	m.logger.WithFields(map[string]interface{}{
		"sources": len(sources),
		"rows":    len(all),
		"unique":  len(merged),
	}).Debug("Snapshots merged")

	return merged, notices
}

// Dedupe keeps, per canonical code, the row with the latest high date.
// Unknown dates lose to known ones; on equal dates the first row seen wins.
// Output follows the order in which each code first appeared.
func Dedupe(rows []contracts.SnapshotRow) []contracts.SnapshotRow {
	index := make(map[string]int, len(rows))
	out := make([]contracts.SnapshotRow, 0, len(rows))

	for _, row := range rows {
		row.Code = CanonicalCode(row.Code)

		i, seen := index[row.Code]
		if !seen {
			index[row.Code] = len(out)
			out = append(out, row)
			continue
		}

		if newerHigh(row.HighDate, out[i].HighDate) {
			out[i] = row
		}
	}
	return out
}

func newerHigh(candidate, current *time.Time) bool {
	if candidate == nil {
		return false
	}
	if current == nil {
		return true
	}
	return candidate.After(*current)
}
