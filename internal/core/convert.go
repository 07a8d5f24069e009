package core

// convert.go turns raw CSV text into typed cells.
//
// These functions handle the messy reality of exported datasets:
//   - Several spellings of "no value" (NA, NaN, NULL, ...)
//   - Multiple date formats (US, EU, ISO, RFC3339 timestamps)
//   - Excel formula prefixes and stray quotes in headers
//
// Every To* function returns a value with Valid=false for empty or invalid
// input, so callers never need a separate error path per cell.

import (
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// numericRegex validates a plain number: integers, decimals and scientific
// notation. Currency symbols and separators are deliberately rejected so
// identifier-like text is never inferred as numeric.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearCutoff is the latest year a 2-digit year can resolve to.
// Later years move to the previous century: "49" is 2049, "50" is 1950.
// The result never depends on the current date.
var TwoDigitYearCutoff = 2049

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339Nano
)

// missingTokens are cell values read as "no value", compared after trimming.
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"NULL": {},
	"null": {},
	"None": {},
	"<NA>": {},
	"#N/A": {},
}

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"2006/01/02", "2006.01.02",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
)

// IsMissing reports whether a raw cell holds no value.
func IsMissing(s string) bool {
	_, ok := missingTokens[strings.TrimSpace(s)]
	return ok
}

// ToDecimal converts a string to a nullable decimal.
// Returns invalid for missing markers and anything that is not a plain number.
func ToDecimal(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if IsMissing(s) || !numericRegex.MatchString(s) {
		return decimal.NullDecimal{}
	}

	d, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// ToPgText converts a string to pgtype.Text, keeping it byte for byte.
// Returns invalid if the string is a missing marker.
func ToPgText(s string) pgtype.Text {
	if IsMissing(s) {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgTimestamp converts a string to pgtype.Timestamp.
// Supports ISO dates and timestamps, US/EU numeric dates, 2-digit years with
// pivot, and falls back to cast's layout list for anything else.
// A zone offset in the input is kept; everything else is UTC.
func ToPgTimestamp(s string) pgtype.Timestamp {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return pgtype.Timestamp{Valid: false}
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return pgtype.Timestamp{Time: t, Valid: true}
		}
	}

	// Try 2-digit year layouts with a fixed century cutoff
	for _, layout := range twoDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			if t.Year() > TwoDigitYearCutoff {
				t = t.AddDate(-100, 0, 0)
			}
			return pgtype.Timestamp{Time: t, Valid: true}
		}
	}

	// Bare numbers are not dates here, even though cast would read them as
	// unix seconds.
	if numericRegex.MatchString(s) {
		return pgtype.Timestamp{Valid: false}
	}

	if t, err := cast.ToTimeE(s); err == nil {
		return pgtype.Timestamp{Time: t, Valid: true}
	}

	return pgtype.Timestamp{Valid: false}
}

// CleanHeader removes common CSV artifacts from a header cell:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanHeader(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// UniqueHeaders cleans header cells and disambiguates repeats by appending
// ".1", ".2", ... so every column name in a table is distinct.
// Empty headers become "Unnamed: <position>".
func UniqueHeaders(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		name := CleanHeader(h)
		if name == "" {
			name = "Unnamed: " + cast.ToString(i)
		}
		candidate := name
		for n := 1; used[candidate]; n++ {
			candidate = name + "." + cast.ToString(n)
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}
