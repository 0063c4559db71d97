package schedule

import (
	"sort"
	"strings"
	"time"
)

// ConventionSnapshot is the convention state a scheduling run works
// against. It is built once per run from fully-drained fetches and passed
// explicitly into every component; nothing re-reads the external platform
// mid-run, so a later run must re-fetch to observe changes.
type ConventionSnapshot struct {
	ConventionID string
	Timezone     *time.Location
	Days         []Day
	DayParts     []DayPart
	Rooms        []Room
	Tables       []Table
	Slots        []Slot
	Volunteers   []Volunteer

	daypartsByStart map[time.Time]int
	slotsByCell     map[cellKey]int
	tablesByRoom    map[string][]int
}

type cellKey struct {
	tableID   string
	dayPartID string
}

// NewSnapshot indexes the fetched state. Tables within a room are ordered
// by ascending table number; volunteers keep their fetch order as the
// registration sequence.
func NewSnapshot(
	conventionID string,
	tz *time.Location,
	days []Day,
	dayParts []DayPart,
	rooms []Room,
	tables []Table,
	slots []Slot,
	volunteers []Volunteer,
) *ConventionSnapshot {
	s := &ConventionSnapshot{
		ConventionID: conventionID,
		Timezone:     tz,
		Days:         days,
		DayParts:     dayParts,
		Rooms:        rooms,
		Tables:       tables,
		Slots:        slots,
		Volunteers:   volunteers,
	}
	for i := range s.Volunteers {
		s.Volunteers[i].Sequence = i
	}
	s.reindex()
	return s
}

func (s *ConventionSnapshot) reindex() {
	s.daypartsByStart = make(map[time.Time]int, len(s.DayParts))
	for i, dp := range s.DayParts {
		key := dp.Start.UTC().Truncate(time.Minute)
		if _, dup := s.daypartsByStart[key]; !dup {
			s.daypartsByStart[key] = i
		}
	}
	s.slotsByCell = make(map[cellKey]int, len(s.Slots))
	for i, slot := range s.Slots {
		key := cellKey{tableID: slot.TableID, dayPartID: slot.DayPartID}
		if _, dup := s.slotsByCell[key]; !dup {
			s.slotsByCell[key] = i
		}
	}
	s.tablesByRoom = make(map[string][]int, len(s.Rooms))
	for i, table := range s.Tables {
		s.tablesByRoom[table.RoomID] = append(s.tablesByRoom[table.RoomID], i)
	}
	for _, indices := range s.tablesByRoom {
		sort.SliceStable(indices, func(a, b int) bool {
			return s.Tables[indices[a]].Number < s.Tables[indices[b]].Number
		})
	}
}

// DayPartAt returns the daypart whose window starts at the given instant.
func (s *ConventionSnapshot) DayPartAt(t time.Time) (DayPart, bool) {
	i, ok := s.daypartsByStart[t.UTC().Truncate(time.Minute)]
	if !ok {
		return DayPart{}, false
	}
	return s.DayParts[i], true
}

// RoomByName returns the first room matching name case-insensitively.
// Duplicate names can exist in the external catalog; first match in fetch
// order wins, which keeps resolution deterministic.
func (s *ConventionSnapshot) RoomByName(name string) (Room, bool) {
	for _, room := range s.Rooms {
		if strings.EqualFold(room.Name, name) {
			return room, true
		}
	}
	return Room{}, false
}

// TablesInRoom returns the room's tables in ascending table-number order.
func (s *ConventionSnapshot) TablesInRoom(roomID string) []Table {
	indices := s.tablesByRoom[roomID]
	tables := make([]Table, 0, len(indices))
	for _, i := range indices {
		tables = append(tables, s.Tables[i])
	}
	return tables
}

// SlotFor returns the reservation cell for a table and daypart.
func (s *ConventionSnapshot) SlotFor(tableID, dayPartID string) (Slot, bool) {
	i, ok := s.slotsByCell[cellKey{tableID: tableID, dayPartID: dayPartID}]
	if !ok {
		return Slot{}, false
	}
	return s.Slots[i], true
}

// markAssigned records an in-process reservation so later events in the
// same run do not compete for the cell.
func (s *ConventionSnapshot) markAssigned(tableID, dayPartID string) {
	if i, ok := s.slotsByCell[cellKey{tableID: tableID, dayPartID: dayPartID}]; ok {
		s.Slots[i].Assigned = true
	}
}

// VolunteerByEmail matches case-insensitively on the unique email key.
func (s *ConventionSnapshot) VolunteerByEmail(email string) (*Volunteer, bool) {
	for i := range s.Volunteers {
		if strings.EqualFold(s.Volunteers[i].Email, email) {
			return &s.Volunteers[i], true
		}
	}
	return nil, false
}
