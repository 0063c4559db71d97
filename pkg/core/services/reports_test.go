package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roleinit/conscheduler/pkg/clients/tteclient"
)

func TestEventReport(t *testing.T) {
	platform := &fakePlatform{
		events: []tteclient.Event{{
			ID:               "ev-1",
			Name:             "Dragon Hunt",
			Duration:         120,
			StartDate:        tteclient.WireTime{Time: time.Date(2026, 7, 10, 10, 0, 0, 0, time.UTC)},
			StartDayPartName: "Fri 10:00 AM",
		}},
		eventSlots: map[string][]tteclient.Slot{
			"ev-1": {
				{Name: "Table 4 Fri 10:00 AM"},
				{Name: "Table 4 Fri 10:30 AM"},
				{Name: "Table 5 Fri 10:00 AM"},
			},
		},
		eventHosts: map[string][]tteclient.Host{
			"ev-1": {{ID: "h-1", UserID: "u-1", Name: "Alice Smith"}},
		},
	}

	var buf bytes.Buffer
	count, err := EventReport(context.Background(), platform, zap.NewNop(), "con-1", &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	out := buf.String()
	assert.Contains(t, out, "Dragon Hunt")
	assert.Contains(t, out, "Table 4 Table 5", "duplicate slot rows collapse per table")
	assert.Contains(t, out, "Alice Smith")
}

func TestVolunteerReport(t *testing.T) {
	platform := &fakePlatform{
		volunteers: []tteclient.Volunteer{{
			ID:                  "pv-1",
			EmailAddress:        "Alice@Example.com",
			FirstName:           "Alice",
			LastName:            "Smith",
			HoursScheduledCount: 6,
		}},
		shifts: []tteclient.Shift{
			{ID: "sh-1", Name: "Slot 2"},
			{ID: "sh-2", Name: "Slot 1"},
		},
		volunteerShifts: map[string][]tteclient.VolunteerShift{
			"pv-1": {
				{ID: "vs-1", ShiftID: "sh-1", VolunteerID: "pv-1"},
				{ID: "vs-2", ShiftID: "sh-2", VolunteerID: "pv-1"},
			},
		},
	}

	var buf bytes.Buffer
	count, err := VolunteerReport(context.Background(), platform, zap.NewNop(), "con-1", &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	out := buf.String()
	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "Slot 1 Slot 2", "shift names come out sorted")
	assert.Contains(t, out, "6")
}
