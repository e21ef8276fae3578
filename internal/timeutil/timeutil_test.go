package timeutil

import (
	"errors"
	"testing"
)

func TestCivilToUTC_BerlinOffsets(t *testing.T) {
	t.Parallel()

	loc, err := LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	tests := []struct {
		name  string
		date  string
		clock string
		want  string
	}{
		{name: "winter time", date: "15.03.2024", clock: "09:00", want: "20240315T080000Z"},
		{name: "summer time", date: "15.06.2024", clock: "09:00", want: "20240615T070000Z"},
		{name: "day before dst switch", date: "30.03.2024", clock: "23:30", want: "20240330T223000Z"},
		{name: "day of dst switch", date: "31.03.2024", clock: "12:00", want: "20240331T100000Z"},
		{name: "back to winter time", date: "27.10.2024", clock: "12:00", want: "20241027T110000Z"},
		{name: "repeated hour takes first occurrence", date: "27.10.2024", clock: "02:30", want: "20241027T003000Z"},
		{name: "hour after repeated hour", date: "27.10.2024", clock: "03:00", want: "20241027T020000Z"},
		{name: "skipped hour moves forward", date: "31.03.2024", clock: "02:30", want: "20240331T013000Z"},
		{name: "midnight previous utc day", date: "01.01.2025", clock: "00:30", want: "20241231T233000Z"},
		{name: "unpadded values", date: "5.3.2024", clock: "9:05", want: "20240305T080500Z"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			date, err := ParseDate(tc.date)
			if err != nil {
				t.Fatalf("parse date: %v", err)
			}
			clock, err := ParseClock(tc.clock)
			if err != nil {
				t.Fatalf("parse clock: %v", err)
			}
			if got := FormatWire(CivilToUTC(date, clock, loc)); got != tc.want {
				t.Fatalf("unexpected wire value: want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestParseDate_RejectsOtherPatterns(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"2024-03-15", "15/03/2024", "", "32.01.2024", " 15.03.2024"} {
		_, err := ParseDate(value)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected ParseError for %q, got %v", value, err)
		}
		if parseErr.Pattern != DatePattern || parseErr.Value != value {
			t.Fatalf("unexpected parse error fields: %+v", parseErr)
		}
	}
}

func TestParseClock_RejectsOtherPatterns(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"9", "09:00:00", "25:00", "9.00", ""} {
		_, err := ParseClock(value)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected ParseError for %q, got %v", value, err)
		}
		if parseErr.Pattern != ClockPattern {
			t.Fatalf("unexpected pattern %q", parseErr.Pattern)
		}
	}
}

func TestParseWireRoundTrip(t *testing.T) {
	t.Parallel()

	parsed, err := ParseWire("20240315T080000Z")
	if err != nil {
		t.Fatalf("parse wire: %v", err)
	}
	if got := FormatWire(parsed); got != "20240315T080000Z" {
		t.Fatalf("unexpected round trip value %q", got)
	}
	if got := FormatDisplay(parsed); got != "15-03-24 08:00" {
		t.Fatalf("unexpected display value %q", got)
	}
}

func TestLoadLocation_DefaultsToBerlin(t *testing.T) {
	t.Parallel()

	loc, err := LoadLocation("")
	if err != nil {
		t.Fatalf("load default location: %v", err)
	}
	if loc.String() != DefaultTimezone {
		t.Fatalf("expected %s, got %s", DefaultTimezone, loc)
	}
	if _, err := LoadLocation("Mars/Olympus"); err == nil {
		t.Fatalf("expected error for unknown timezone")
	}
}
