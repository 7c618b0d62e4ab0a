// Package etl loads heterogeneous spreadsheet exports into the star schema.
package etl

import (
	"strconv"
	"strings"
	"time"
)

// serialEpoch is the spreadsheet serial-day epoch (the Excel 1900 system,
// including its leap-year quirk, lands on 1899-12-30).
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// maxSerialDay bounds serial-day interpretation to plausible dates (~2499).
const maxSerialDay = 219146

// dateFormats are tried in order against string cells. D/M/YYYY is tried
// before M/D/YYYY: genuinely ambiguous dates like "03/04/2025" resolve
// day-first by fixed priority, a known accuracy risk of the source data.
var dateFormats = []string{
	"January 2 2006",
	"January 2, 2006",
	"2 January 2006",
	"2006-01-02",
	"2/1/2006",
	"1/2/2006",
	"2-1-2006",
	"2006/01/02",
}

// NormalizeDate parses a raw spreadsheet cell of unknown shape into a
// canonical calendar date (UTC midnight). Returns nil when no
// interpretation matches; the caller must treat such records as bad-date
// rejections.
func NormalizeDate(raw any) *time.Time {
	switch v := raw.(type) {
	case nil:
		return nil
	case time.Time:
		// Structured dates are re-anchored at UTC midnight so a local
		// offset cannot shift them across a day boundary.
		d := time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	case float64:
		return fromSerialDay(int(v))
	case int:
		return fromSerialDay(v)
	case int64:
		return fromSerialDay(int(v))
	case string:
		return normalizeDateString(v)
	default:
		return nil
	}
}

func fromSerialDay(days int) *time.Time {
	if days <= 0 || days > maxSerialDay {
		return nil
	}
	d := serialEpoch.AddDate(0, 0, days)
	return &d
}

func normalizeDateString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// Bare integers are spreadsheet serial day-counts.
	if n, err := strconv.Atoi(s); err == nil {
		return fromSerialDay(n)
	}

	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}

	// Best-effort generic fallback for timestamp-shaped cells.
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}

	return nil
}

// CanonicalDate formats a normalized date as YYYY-MM-DD.
func CanonicalDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// NormalizeNumber parses a numeric cell, tolerating thousands separators
// and surrounding whitespace. Returns nil for empty or non-numeric cells.
func NormalizeNumber(raw any) *float64 {
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// NormalizePercent parses a percentage cell into 0-100 terms. A value <= 1
// is a fraction and multiplied by 100; a trailing "%" is stripped; anything
// else is assumed to already be in 0-100 terms.
func NormalizePercent(raw any) *float64 {
	if s, ok := raw.(string); ok {
		raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	}

	f := NormalizeNumber(raw)
	if f == nil {
		return nil
	}

	v := *f
	if v <= 1 {
		v = v * 100
	}
	return &v
}

// NormalizeCount parses an integer cell via NormalizeNumber.
func NormalizeCount(raw any) *int {
	f := NormalizeNumber(raw)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}
