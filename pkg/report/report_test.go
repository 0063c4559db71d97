package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEventsChronological(t *testing.T) {
	events := []EventLine{
		{
			Number:   2,
			Name:     "Learn to Play",
			Start:    time.Date(2026, 6, 12, 19, 0, 0, 0, time.UTC),
			StartBy:  "Fri 02:00 PM",
			Duration: 120,
			Tables:   []string{"Table 3"},
			Hosts:    []string{"alex@example.com"},
		},
		{
			Number:   1,
			Name:     "Dragon Heist",
			Start:    time.Date(2026, 6, 12, 15, 0, 0, 0, time.UTC),
			StartBy:  "Fri 10:00 AM",
			Duration: 240,
			Tables:   []string{"Table 1", "Table 2"},
			Hosts:    []string{"sam@example.com"},
		},
	}

	var out strings.Builder
	require.NoError(t, WriteEvents(&out, events))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "event_number,name,start,duration,tables,hosts", lines[0])
	assert.Equal(t, "1,Dragon Heist,Fri 10:00 AM,240,Table 1 Table 2,sam@example.com", lines[1])
	assert.Equal(t, "2,Learn to Play,Fri 02:00 PM,120,Table 3,alex@example.com", lines[2])
}

func TestWriteVolunteersSortedByEmail(t *testing.T) {
	volunteers := []VolunteerLine{
		{Email: "sam@example.com", FirstName: "Sam", LastName: "Tabler", Shifts: []string{"Slot 1", "Slot 3"}, Hours: 12},
		{Email: "alex@example.com", FirstName: "Alex", LastName: "Chen", Shifts: []string{"Slot 2"}, Hours: 4},
	}

	var out strings.Builder
	require.NoError(t, WriteVolunteers(&out, volunteers))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "email_address,firstname,lastname,shifts,hours", lines[0])
	assert.Equal(t, "alex@example.com,Alex,Chen,Slot 2,4", lines[1])
	assert.Equal(t, "sam@example.com,Sam,Tabler,Slot 1 Slot 3,12", lines[2])
}

func TestWriteEventsEmpty(t *testing.T) {
	var out strings.Builder
	require.NoError(t, WriteEvents(&out, nil))
	assert.Equal(t, "event_number,name,start,duration,tables,hosts", strings.TrimSpace(out.String()))
}
