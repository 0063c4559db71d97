package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/roleinit/conscheduler/pkg/clients/tteclient"
	"github.com/roleinit/conscheduler/pkg/report"
)

// EventReporter defines the client operations the event export needs.
type EventReporter interface {
	Events(ctx context.Context, conventionID string) ([]tteclient.Event, error)
	EventSlots(ctx context.Context, eventID string) ([]tteclient.Slot, error)
	EventHosts(ctx context.Context, eventID string) ([]tteclient.Host, error)
}

// EventReport writes the scheduled-events CSV: each event with the
// tables it holds and the hosts bound to it, in chronological order.
func EventReport(ctx context.Context, client EventReporter, logger *zap.Logger, conventionID string, w io.Writer) (int, error) {
	logger.Info("Building event report", zap.String("convention_id", conventionID))

	events, err := client.Events(ctx, conventionID)
	if err != nil {
		return 0, err
	}

	lines := make([]report.EventLine, 0, len(events))
	for i, event := range events {
		slots, err := client.EventSlots(ctx, event.ID)
		if err != nil {
			return 0, err
		}
		hosts, err := client.EventHosts(ctx, event.ID)
		if err != nil {
			return 0, err
		}

		hostNames := make([]string, 0, len(hosts))
		for _, host := range hosts {
			hostNames = append(hostNames, host.Name)
		}

		lines = append(lines, report.EventLine{
			Number:   i + 1,
			Name:     event.Name,
			Start:    event.StartDate.Time,
			StartBy:  event.StartDayPartName,
			Duration: event.Duration,
			Tables:   slotTables(slots),
			Hosts:    hostNames,
		})
	}

	if err := report.WriteEvents(w, lines); err != nil {
		return 0, fmt.Errorf("failed to write event report: %w", err)
	}
	logger.Info("Event report written", zap.Int("events", len(lines)))
	return len(lines), nil
}

// slotTables reduces an event's slot list to the distinct tables it
// occupies. Slot names lead with the table name ("Table 4 Fri 10:00"),
// so the first two fields identify the table.
func slotTables(slots []tteclient.Slot) []string {
	var tables []string
	seen := map[string]bool{}
	for _, slot := range slots {
		fields := strings.Fields(slot.Name)
		if len(fields) < 2 {
			continue
		}
		table := fields[0] + " " + fields[1]
		if !seen[table] {
			seen[table] = true
			tables = append(tables, table)
		}
	}
	return tables
}

// VolunteerReporter defines the client operations the volunteer export needs.
type VolunteerReporter interface {
	Volunteers(ctx context.Context, conventionID string) ([]tteclient.Volunteer, error)
	VolunteerShifts(ctx context.Context, conventionID, volunteerID string) ([]tteclient.VolunteerShift, error)
	Shifts(ctx context.Context, conventionID string) ([]tteclient.Shift, error)
}

// VolunteerReport writes the volunteer CSV: each volunteer with the
// shifts they offered and their scheduled hours.
func VolunteerReport(ctx context.Context, client VolunteerReporter, logger *zap.Logger, conventionID string, w io.Writer) (int, error) {
	logger.Info("Building volunteer report", zap.String("convention_id", conventionID))

	volunteers, err := client.Volunteers(ctx, conventionID)
	if err != nil {
		return 0, err
	}
	shifts, err := client.Shifts(ctx, conventionID)
	if err != nil {
		return 0, err
	}
	shiftNames := make(map[string]string, len(shifts))
	for _, shift := range shifts {
		shiftNames[shift.ID] = shift.Name
	}

	lines := make([]report.VolunteerLine, 0, len(volunteers))
	for _, volunteer := range volunteers {
		applications, err := client.VolunteerShifts(ctx, conventionID, volunteer.ID)
		if err != nil {
			return 0, err
		}
		names := make([]string, 0, len(applications))
		for _, application := range applications {
			if name, ok := shiftNames[application.ShiftID]; ok {
				names = append(names, name)
			}
		}
		sort.Strings(names)

		lines = append(lines, report.VolunteerLine{
			Email:     strings.ToLower(volunteer.EmailAddress),
			FirstName: volunteer.FirstName,
			LastName:  volunteer.LastName,
			Shifts:    names,
			Hours:     volunteer.HoursScheduledCount,
		})
	}

	if err := report.WriteVolunteers(w, lines); err != nil {
		return 0, fmt.Errorf("failed to write volunteer report: %w", err)
	}
	logger.Info("Volunteer report written", zap.Int("volunteers", len(lines)))
	return len(lines), nil
}
