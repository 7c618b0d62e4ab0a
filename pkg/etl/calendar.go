package etl

import (
	"time"
)

// anchorHour is the fixed local wall-clock hour the session instant is
// anchored at. The fact table stores the UTC conversion of this instant;
// all calendar columns derive from the local date.
const anchorHour = 12

// Calendar holds the mutually-derivable calendar fields of one session date.
type Calendar struct {
	SessionTS   time.Time // UTC instant at anchorHour local time
	SessionDate time.Time // local calendar date (UTC midnight representation)
	Year        int
	Month       int
	Quarter     int
	MonthStart  time.Time
}

// DeriveCalendar expands a normalized calendar date into the fact table's
// calendar columns for the given reporting timezone.
func DeriveCalendar(date time.Time, loc *time.Location) Calendar {
	y, m, d := date.Date()

	local := time.Date(y, m, d, anchorHour, 0, 0, 0, loc)
	month := int(m)

	return Calendar{
		SessionTS:   local.UTC(),
		SessionDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Year:        y,
		Month:       month,
		Quarter:     Quarter(month),
		MonthStart:  time.Date(y, m, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Quarter maps a month (1-12) to its calendar quarter (1-4).
func Quarter(month int) int {
	return ((month - 1) / 3) + 1
}
