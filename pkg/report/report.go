// Package report renders the post-run exports: one CSV of scheduled
// events with their tables and hosts, and one CSV of volunteers with
// the shifts they offered.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// EventLine is one row of the event export.
type EventLine struct {
	Number   int
	Name     string
	Start    time.Time
	StartBy  string
	Duration int
	Tables   []string
	Hosts    []string
}

// VolunteerLine is one row of the volunteer export.
type VolunteerLine struct {
	Email     string
	FirstName string
	LastName  string
	Shifts    []string
	Hours     int
}

// WriteEvents renders the event export in chronological order.
func WriteEvents(w io.Writer, events []EventLine) error {
	sorted := make([]EventLine, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"event_number", "name", "start", "duration", "tables", "hosts"}); err != nil {
		return fmt.Errorf("failed to write event header: %w", err)
	}
	for _, event := range sorted {
		record := []string{
			strconv.Itoa(event.Number),
			event.Name,
			event.StartBy,
			strconv.Itoa(event.Duration),
			strings.Join(event.Tables, " "),
			strings.Join(event.Hosts, " "),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write event %q: %w", event.Name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteVolunteers renders the volunteer export, ordered by email so
// successive exports diff cleanly.
func WriteVolunteers(w io.Writer, volunteers []VolunteerLine) error {
	sorted := make([]VolunteerLine, len(volunteers))
	copy(sorted, volunteers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Email < sorted[j].Email })

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"email_address", "firstname", "lastname", "shifts", "hours"}); err != nil {
		return fmt.Errorf("failed to write volunteer header: %w", err)
	}
	for _, volunteer := range sorted {
		record := []string{
			volunteer.Email,
			volunteer.FirstName,
			volunteer.LastName,
			strings.Join(volunteer.Shifts, " "),
			strconv.Itoa(volunteer.Hours),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write volunteer %s: %w", volunteer.Email, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
