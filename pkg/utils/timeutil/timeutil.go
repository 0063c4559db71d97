// Package timeutil converts between the convention's local wall-clock
// times and the UTC instants the platform stores. The scheduling core
// works entirely in UTC; local time exists only at the CSV and report
// edges.
package timeutil

import (
	"fmt"
	"time"
)

// csvLayout matches spreadsheet exports: 6/12/26 3:00:00 PM.
const csvLayout = "1/2/06 3:04:05 PM"

// ParseCSV reads a spreadsheet datetime in the convention's timezone
// and returns the UTC instant.
func ParseCSV(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(csvLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse datetime %q: %w", value, err)
	}
	return t.UTC(), nil
}

// ToLocal renders a UTC instant in the convention's timezone.
func ToLocal(t time.Time, loc *time.Location) time.Time {
	return t.In(loc)
}

// Truncate drops seconds and below, keeping the minute grid the
// daypart index is keyed on.
func Truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}
