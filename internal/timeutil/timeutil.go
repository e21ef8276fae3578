package timeutil

import (
	"fmt"
	"strings"
	"time"
	// Embedded zone database so civil conversion works on hosts without tzdata.
	_ "time/tzdata"
)

const (
	DefaultTimezone = "Europe/Berlin"

	DatePattern  = "day.month.year"
	ClockPattern = "hour:minute"

	dateLayout    = "2.1.2006"
	clockLayout   = "15:04"
	wireLayout    = "20060102T150405Z"
	displayLayout = "02-01-06 15:04"
)

// Date is a calendar day without time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Clock is a local time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseError reports a value that does not match the expected pattern.
type ParseError struct {
	Value   string
	Pattern string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q, expected format %s", e.Value, e.Pattern)
}

func (e *ParseError) Unwrap() error { return e.Err }

func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, &ParseError{Value: value, Pattern: DatePattern, Err: err}
	}
	return Date{Year: parsed.Year(), Month: parsed.Month(), Day: parsed.Day()}, nil
}

func ParseClock(value string) (Clock, error) {
	parsed, err := time.Parse(clockLayout, value)
	if err != nil {
		return Clock{}, &ParseError{Value: value, Pattern: ClockPattern, Err: err}
	}
	return Clock{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// CivilToUTC interprets date and clock as wall time in loc and returns the UTC instant.
// Wall times skipped by a DST change are normalized forward by the time package.
// Wall times that occur twice resolve to the first occurrence.
func CivilToUTC(date Date, clock Clock, loc *time.Location) time.Time {
	t := time.Date(date.Year, date.Month, date.Day, clock.Hour, clock.Minute, 0, 0, loc)
	_, offset := t.Zone()
	earlier := t.Add(-time.Hour).In(loc)
	if _, earlierOffset := earlier.Zone(); earlierOffset > offset && sameWallClock(earlier, t) {
		t = earlier
	}
	return t.UTC()
}

func sameWallClock(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd && a.Hour() == b.Hour() && a.Minute() == b.Minute()
}

func FormatWire(value time.Time) string {
	return value.UTC().Format(wireLayout)
}

func ParseWire(value string) (time.Time, error) {
	parsed, err := time.Parse(wireLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return parsed.UTC(), nil
}

// FormatDisplay renders a UTC instant for user-facing messages.
func FormatDisplay(value time.Time) string {
	return value.UTC().Format(displayLayout)
}

// FormatDate and FormatClock render values back into the input patterns.
func FormatDate(value time.Time) string {
	return value.Format("02.01.2006")
}

func FormatClock(value time.Time) string {
	return value.Format(clockLayout)
}
