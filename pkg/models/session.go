// Package models holds the shared data structures of the rating pipeline.
package models

import "time"

// SessionRecord is one normalized spreadsheet row on its way into the star
// schema. Metric pointers are nil when the source cell was empty or
// unparseable.
type SessionRecord struct {
	Topic      string
	Type       string
	Domain     string
	Class      string
	Instructor string

	// RawDate is the original spreadsheet cell value; Date is the parsed
	// local calendar date, nil when no format matched.
	RawDate any
	Date    *time.Time

	AvgRating  *float64
	Responses  *int
	Attendance *int
	RatedPct   *float64
}

// HasRequiredFields reports whether all four dimension values are present.
// Rows missing any of them are rejected by the loader.
func (r *SessionRecord) HasRequiredFields() bool {
	return r.Type != "" && r.Domain != "" && r.Class != "" && r.Instructor != ""
}

// SessionFact is one row of the fact table keyed by its natural key.
type SessionFact struct {
	Topic        string
	TypeID       int
	DomainID     int
	ClassID      int
	InstructorID int

	SessionTS   time.Time
	SessionDate time.Time
	Year        int
	Month       int
	Quarter     int
	MonthStart  time.Time

	AvgRating  *float64
	Responses  *int
	Attendance *int
	RatedPct   *float64
}

// LoadReport accumulates per-record outcomes of one ETL run.
type LoadReport struct {
	Inserted int
	Updated  int
	Skipped  int // missing required dimension field
	BadDate  int // date cell matched no known format
}

// Total returns the number of source rows the run looked at.
func (r LoadReport) Total() int {
	return r.Inserted + r.Updated + r.Skipped + r.BadDate
}

// QueryResult is the three-part payload of a successful ask: row data, the
// prose summary, and the executed SQL (returned for transparency).
type QueryResult struct {
	Columns []string
	Rows    []map[string]any
	Summary string
	SQL     string
}
