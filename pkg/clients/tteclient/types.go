package tteclient

import (
	"fmt"
	"strings"
	"time"
)

// wireTimeLayout is the platform's datetime format, always UTC.
const wireTimeLayout = "2006-01-02 15:04:05"

// WireTime wraps time.Time for the platform's non-RFC3339 format.
type WireTime struct {
	time.Time
}

func (t *WireTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(wireTimeLayout, s)
	if err != nil {
		return fmt.Errorf("invalid wire time %q: %w", s, err)
	}
	t.Time = parsed.UTC()
	return nil
}

func (t WireTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(wireTimeLayout) + `"`), nil
}

// FormatWire renders a time the way the platform expects it.
func FormatWire(t time.Time) string {
	return t.UTC().Format(wireTimeLayout)
}

// Convention is the platform's convention record.
type Convention struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	GeolocationID string `json:"geolocation_id"`
	EmailAddress  string `json:"email_address"`
	PhoneNumber   string `json:"phone_number"`
	Description   string `json:"description"`
}

// ConventionSummary is one row of the group conventions listing.
type ConventionSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Geolocation carries the convention's IANA timezone.
type Geolocation struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

// Day is one convention day.
type Day struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	StartDate WireTime `json:"start_date"`
	EndDate   WireTime `json:"end_date"`
}

// DayPart is one 30-minute scheduling quantum.
type DayPart struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	StartDate       WireTime `json:"start_date"`
	ConventionDayID string   `json:"conventionday_id"`
}

// Room is a table-type grouping of spaces.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Space is a physical table within a room.
type Space struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RoomID     string `json:"room_id"`
	MaxTickets int    `json:"max_tickets"`
}

// Slot is one space x daypart cell with its reservation state.
type Slot struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SpaceID    string `json:"space_id"`
	RoomID     string `json:"room_id"`
	DayPartID  string `json:"daypart_id"`
	EventID    string `json:"event_id"`
	IsAssigned int    `json:"is_assigned"`
}

// EventType is an event category; Tier carries the custom field when the
// type was registered with one.
type EventType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tier string `json:"tier,omitempty"`
}

// Event is the platform's event record.
type Event struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	TypeID             string   `json:"type_id"`
	ConventionDayID    string   `json:"conventionday_id"`
	Duration           int      `json:"duration"`
	StartDate          WireTime `json:"start_date"`
	PreferredDayPartID string   `json:"preferreddaypart_id"`
	RoomName           string   `json:"room_name"`
	SpaceName          string   `json:"space_name"`
	StartDayPartName   string   `json:"startdaypart_name"`
}

// Host is one volunteer bound to run an event.
type Host struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// Volunteer is one convention volunteer.
type Volunteer struct {
	ID                  string `json:"id"`
	UserID              string `json:"user_id"`
	Name                string `json:"name"`
	FirstName           string `json:"firstname"`
	LastName            string `json:"lastname"`
	EmailAddress        string `json:"email_address"`
	HoursScheduledCount int    `json:"hours_scheduled_count"`
}

// ShiftType categorizes volunteer shifts.
type ShiftType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Shift is a volunteer shift posting.
type Shift struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ShiftTypeID string   `json:"shifttype_id"`
	StartTime   WireTime `json:"start_time"`
	EndTime     WireTime `json:"end_time"`
}

// VolunteerShift is one volunteer's application to a shift.
type VolunteerShift struct {
	ID          string `json:"id"`
	ShiftID     string `json:"shift_id"`
	VolunteerID string `json:"volunteer_id"`
}

// User is a platform account.
type User struct {
	ID       string `json:"id"`
	RealName string `json:"real_name"`
	Email    string `json:"email_address"`
}
