// pkg/schema/content.go
package schema

import (
	"strconv"
	"time"
)

// timestampFormats are the layouts tried when deciding whether a sampled
// value is date-like. Ordered from most to least specific.
var timestampFormats = []string{
	"2006-01-02T15:04:05Z",             // ISO8601 UTC
	"2006-01-02T15:04:05-07:00",        // ISO8601 with timezone
	"2006-01-02T15:04:05.999999Z",      // ISO8601 with microseconds
	"2006-01-02T15:04:05.999999-07:00", // ISO8601 with microseconds and TZ
	"2006-01-02T15:04:05",              // ISO8601 without zone
	"2006-01-02 15:04:05",              // SQL timestamp
	"2006-01-02",                       // Date only
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"20060102T150405Z", // Compact ISO8601
}

// isMissing determines whether a sampled value counts as absent.
// Mirrors the null handling used during value conversion: empty strings
// and literal null spellings are treated as missing.
func isMissing(value string) bool {
	switch value {
	case "", "null", "NULL", "nil", "NIL", "NaN", "nan", "N/A", "n/a":
		return true
	}
	return false
}

// parseNumeric parses a sampled value as a plain number. No currency-style
// cleanup is attempted; a column that needs scrubbing before it parses is
// not confidently an amount column.
func parseNumeric(value string) (float64, bool) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseTimestamp attempts to parse a value against the known layouts.
// Returns the parsed time and whether any layout matched.
func ParseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sampleColumn collects up to limit non-missing values of one column in
// row order. Rows where the column is missing are skipped, not counted.
func sampleColumn(rows []map[string]string, label string, limit int) []string {
	values := make([]string, 0, limit)
	for i := 0; i < len(rows) && i < limit; i++ {
		v := rows[i][label]
		if isMissing(v) {
			continue
		}
		values = append(values, v)
	}
	return values
}

// allNumericPositiveMean reports whether every value parses as a number
// and the arithmetic mean is strictly positive
func allNumericPositiveMean(values []string) bool {
	if len(values) == 0 {
		return false
	}
	var sum float64
	for _, v := range values {
		f, ok := parseNumeric(v)
		if !ok {
			return false
		}
		sum += f
	}
	return sum/float64(len(values)) > 0
}

// allNumeric reports whether every value parses as a number
func allNumeric(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if _, ok := parseNumeric(v); !ok {
			return false
		}
	}
	return true
}
