package contracts

import (
	"fmt"
	"strings"
	"time"
)

// Source identifies one upstream breakout snapshot
// ⭐ SSOT: the six snapshot keys are defined here only
type Source string

const (
	SourceToday      Source = "today"
	SourceYesterday  Source = "yesterday"
	SourceTarget2Day Source = "target2day"
	SourceTarget3Day Source = "target3day"
	SourceTarget4Day Source = "target4day"
	SourceTarget5Day Source = "target5day"
)

// AllSources lists every snapshot in day order, most recent first
var AllSources = []Source{
	SourceToday,
	SourceYesterday,
	SourceTarget2Day,
	SourceTarget3Day,
	SourceTarget4Day,
	SourceTarget5Day,
}

var sourceLabels = map[Source]string{
	SourceToday:      "本日",
	SourceYesterday:  "昨日",
	SourceTarget2Day: "2日前",
	SourceTarget3Day: "3日前",
	SourceTarget4Day: "4日前",
	SourceTarget5Day: "5日前",
}

// Label returns the display name of the day the high was set
func (s Source) Label() string {
	if label, ok := sourceLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is one of the six snapshot keys
func (s Source) Valid() bool {
	_, ok := sourceLabels[s]
	return ok
}

// ParseSource converts a key such as "target2day" into a Source
func ParseSource(key string) (Source, error) {
	s := Source(strings.ToLower(strings.TrimSpace(key)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown snapshot source %q", key)
	}
	return s, nil
}

// ParseSources converts a list of keys, keeping order and dropping repeats
func ParseSources(keys []string) ([]Source, error) {
	seen := make(map[Source]bool, len(keys))
	out := make([]Source, 0, len(keys))
	for _, key := range keys {
		s, err := ParseSource(key)
		if err != nil {
			return nil, err
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

// RawRow is one undecoded upstream snapshot object; numbers arrive as json.Number
type RawRow map[string]interface{}

// SnapshotRow is one stock's breakout record from one source day
type SnapshotRow struct {
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	Low      float64    `json:"low"`
	LowDate  *time.Time `json:"low_date,omitempty"`
	High     float64    `json:"high"`
	HighDate *time.Time `json:"high_date,omitempty"`
	Source   Source     `json:"source"`
}

// Candle is one daily OHLC bar
type Candle struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}
