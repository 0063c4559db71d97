package schedule

import "time"

const (
	// DayPartMinutes is the length of one scheduling quantum. The
	// convention is created with slot_duration 30, and every duration in
	// the system is a whole number of these.
	DayPartMinutes = 30

	// MaxCommittedMinutes is the per-volunteer workload ceiling (16
	// dayparts). A match that would push a volunteer past this is
	// rejected, never force-fitted.
	MaxCommittedMinutes = 480
)

// Day is one calendar day of the convention, immutable once fetched.
type Day struct {
	ID    string
	Name  string
	Start time.Time
	End   time.Time
}

// DayPart is a 30-minute window within a Day. Start (UTC) is the matching
// key for all allocation decisions.
type DayPart struct {
	ID    string
	DayID string
	Name  string
	Start time.Time
}

// Room is a table-type: a named group of interchangeable tables.
type Room struct {
	ID   string
	Name string
}

// Table is a physical seating unit (a "space" on the wire) belonging to a
// Room. Number is its position within the room and fixes scan order.
type Table struct {
	ID     string
	RoomID string
	Name   string
	Number int
}

// Slot is one Table x DayPart reservation cell. Assigned flips when an
// event reserves the cell; the in-process value is advisory for the
// duration of a single run.
type Slot struct {
	ID        string
	TableID   string
	RoomID    string
	DayPartID string
	Assigned  bool
}

// EventRequest is a normalized event row from the events matrix.
type EventRequest struct {
	Name       string
	Start      time.Time
	Duration   int // minutes, multiple of DayPartMinutes
	TableType  string
	TableCount int
	Tier       int // 0 means no tier requirement
	HostEmails []string
}

// Commitment is a block of dayparts a volunteer is already booked for.
type Commitment struct {
	EventID    string
	DayPartIDs []string
}

// Volunteer is the scheduling view of a convention volunteer. Sequence is
// the registration order and is the final tie-break, so a run against
// unchanged state always produces the same matches.
type Volunteer struct {
	ID               string
	UserID           string
	Name             string
	Email            string
	Tier             int
	Sequence         int
	CommittedMinutes int
	Commitments      []Commitment
}

// Assignment is one scheduled hosting of one table-instance of one event.
// VolunteerID is empty when the table was reserved but no host qualified.
type Assignment struct {
	EventID     string
	TableID     string
	DayPartIDs  []string
	VolunteerID string
}

// Minutes returns the committed time this assignment represents.
func (a Assignment) Minutes() int {
	return len(a.DayPartIDs) * DayPartMinutes
}
