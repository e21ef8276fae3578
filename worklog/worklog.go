package worklog

import (
	"time"

	"hrsync/internal/timeutil"
)

// RawEntry is one data row exactly as read from the input file.
type RawEntry struct {
	RowNumber     int
	PersonNumber  string
	ProjectName   string
	ProjectNumber string
	Date          string
	StartTime     string
	EndTime       string
}

// Key returns the field tuple used for duplicate detection. RowNumber is not part of it.
func (e RawEntry) Key() [6]string {
	return [6]string{e.PersonNumber, e.ProjectName, e.ProjectNumber, e.Date, e.StartTime, e.EndTime}
}

// Values returns the row cells in schema-independent order for messages and exports.
func (e RawEntry) Values() []string {
	values := make([]string, 0, 6)
	values = append(values, e.PersonNumber)
	if e.ProjectName != "" {
		values = append(values, e.ProjectName)
	}
	if e.ProjectNumber != "" {
		values = append(values, e.ProjectNumber)
	}
	return append(values, e.Date, e.StartTime, e.EndTime)
}

// ResolvedEntry is a RawEntry converted into an API-ready working time.
// Begin and End are always UTC.
type ResolvedEntry struct {
	RowNumber     int
	PersonNumber  string
	ProjectNumber int64
	ProjectName   string
	Begin         time.Time
	End           time.Time
}

func (e ResolvedEntry) BeginWire() string {
	return timeutil.FormatWire(e.Begin)
}

func (e ResolvedEntry) EndWire() string {
	return timeutil.FormatWire(e.End)
}

// Batch holds every entry derived from one input file.
type Batch struct {
	Source   string
	Raw      []RawEntry
	Resolved []ResolvedEntry
}
