package screener

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/wonny/rsystem/internal/contracts"
	"github.com/wonny/rsystem/internal/external/highlow"
)

var (
	// integralSuffix matches codes that arrived through a float column, e.g. "6961.0"
	integralSuffix = regexp.MustCompile(`^(\d+)\.0*$`)
	// exponentForm matches the same column rendered in e-notation, e.g. "6961e0" or "6.961e3"
	exponentForm = regexp.MustCompile(`^\d+(\.\d*)?[eE][+-]?\d+$`)
)

// CanonicalCode strips whitespace and float formatting so "6961", "6961.0" and "6.961e3" share a key.
// Leading zeros, fractional values and non-numeric codes such as "130A" are preserved.
func CanonicalCode(code string) string {
	code = strings.TrimSpace(code)
	if m := integralSuffix.FindStringSubmatch(code); m != nil {
		return m[1]
	}
	if exponentForm.MatchString(code) {
		if f, err := strconv.ParseFloat(code, 64); err == nil && f < 1e15 && f == math.Trunc(f) {
			return strconv.FormatInt(int64(f), 10)
		}
	}
	return code
}

// Normalize converts raw upstream rows into snapshot rows tagged with source.
// A row survives iff both high and low coerce to numbers; bad dates become nil.
func Normalize(source contracts.Source, raws []contracts.RawRow) []contracts.SnapshotRow {
	rows := make([]contracts.SnapshotRow, 0, len(raws))
	for _, raw := range raws {
		high, okHigh := highlow.ToFloat(raw["high"])
		low, okLow := highlow.ToFloat(raw["low"])
		if !okHigh || !okLow {
			continue
		}

		rows = append(rows, contracts.SnapshotRow{
			Code:     CanonicalCode(highlow.ToString(raw["code"])),
			Name:     strings.TrimSpace(highlow.ToString(raw["name"])),
			Low:      low,
			LowDate:  highlow.ParseDate(raw["low_date"]),
			High:     high,
			HighDate: highlow.ParseDate(raw["high_date"]),
			Source:   source,
		})
	}
	return rows
}
