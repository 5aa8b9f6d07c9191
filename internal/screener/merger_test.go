package screener

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rsystem/internal/contracts"
	"github.com/wonny/rsystem/internal/external/highlow"
	"github.com/wonny/rsystem/pkg/logger"
)

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestDedupe_KeepsLatestHighDate(t *testing.T) {
	rows := []contracts.SnapshotRow{
		{Code: "6961.0", Name: "Old", High: 100, Low: 50, HighDate: day("2025-01-02"), Source: contracts.SourceYesterday},
		{Code: "6961", Name: "New", High: 110, Low: 50, HighDate: day("2025-01-03"), Source: contracts.SourceToday},
	}

	out := Dedupe(rows)
	require.Len(t, out, 1)
	assert.Equal(t, "6961", out[0].Code)
	assert.Equal(t, "New", out[0].Name)
	assert.Equal(t, "2025-01-03", out[0].HighDate.Format("2006-01-02"))
}

func TestDedupe_UnknownDateLoses(t *testing.T) {
	rows := []contracts.SnapshotRow{
		{Code: "1000", Name: "Undated"},
		{Code: "1000", Name: "Dated", HighDate: day("2024-12-30")},
		{Code: "1000", Name: "UndatedAgain"},
	}

	out := Dedupe(rows)
	require.Len(t, out, 1)
	assert.Equal(t, "Dated", out[0].Name)
}

func TestDedupe_EqualDatesKeepFirst(t *testing.T) {
	rows := []contracts.SnapshotRow{
		{Code: "1000", Name: "First", HighDate: day("2025-01-03"), Source: contracts.SourceToday},
		{Code: "2000", Name: "Other", HighDate: day("2025-01-03")},
		{Code: "1000", Name: "Second", HighDate: day("2025-01-03"), Source: contracts.SourceYesterday},
	}

	out := Dedupe(rows)
	require.Len(t, out, 2)
	assert.Equal(t, "First", out[0].Name)
	assert.Equal(t, "Other", out[1].Name)
}

func TestDedupe_UniqueCodes(t *testing.T) {
	rows := []contracts.SnapshotRow{
		{Code: "1000"}, {Code: "2000"}, {Code: "1000.0"}, {Code: "3000"}, {Code: "2000"},
	}

	out := Dedupe(rows)
	seen := map[string]bool{}
	for _, r := range out {
		assert.False(t, seen[r.Code], "duplicate code %s", r.Code)
		seen[r.Code] = true
	}
	assert.Len(t, out, 3)
}

type stubSnapshots map[contracts.Source]struct {
	rows []contracts.SnapshotRow
	err  error
}

func (s stubSnapshots) Snapshot(_ context.Context, source contracts.Source) ([]contracts.SnapshotRow, error) {
	r := s[source]
	return r.rows, r.err
}

func TestMerger_FailedSourceDoesNotAbort(t *testing.T) {
	fetcher := stubSnapshots{
		contracts.SourceToday: {rows: []contracts.SnapshotRow{{Code: "1000", Name: "A"}}},
		contracts.SourceYesterday: {err: &highlow.UpstreamError{
			Endpoint: "/api/highlow/yesterday",
			Err:      errors.New("connection refused"),
		}},
		contracts.SourceTarget2Day: {rows: []contracts.SnapshotRow{{Code: "2000", Name: "B"}}},
	}

	m := NewMerger(fetcher, logger.Nop())
	rows, notices := m.Merge(context.Background(), []contracts.Source{
		contracts.SourceToday, contracts.SourceYesterday, contracts.SourceTarget2Day,
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "1000", rows[0].Code)
	assert.Equal(t, "2000", rows[1].Code)

	require.Len(t, notices, 1)
	assert.Equal(t, contracts.NoticeError, notices[0].Level)
	assert.Equal(t, contracts.SourceYesterday, notices[0].Source)
}
