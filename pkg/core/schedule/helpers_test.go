package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"
)

var dayStart = time.Date(2026, 7, 10, 10, 0, 0, 0, time.UTC)

func dpID(t time.Time) string {
	return "dp-" + t.Format("1504")
}

// dayPartIDs returns the ids for the grid between two offsets (minutes
// from the day start), half-open.
func dayPartIDs(fromMinutes, toMinutes int) []string {
	var ids []string
	for m := fromMinutes; m < toMinutes; m += DayPartMinutes {
		ids = append(ids, dpID(dayStart.Add(time.Duration(m)*time.Minute)))
	}
	return ids
}

// testSnapshot builds a one-day convention: an eight-hour grid of
// 30-minute dayparts, an "RPG" room with three tables and a "Board Game"
// room with one, every cell free, and the given volunteers.
func testSnapshot(volunteers ...Volunteer) *ConventionSnapshot {
	var dayParts []DayPart
	for m := 0; m < 480; m += DayPartMinutes {
		start := dayStart.Add(time.Duration(m) * time.Minute)
		dayParts = append(dayParts, DayPart{
			ID:    dpID(start),
			DayID: "day-1",
			Name:  start.Format("Mon 03:04 PM"),
			Start: start,
		})
	}

	rooms := []Room{
		{ID: "room-rpg", Name: "RPG"},
		{ID: "room-board", Name: "Board Game"},
	}
	tables := []Table{
		{ID: "t1", RoomID: "room-rpg", Name: "Table 1", Number: 1},
		{ID: "t2", RoomID: "room-rpg", Name: "Table 2", Number: 2},
		{ID: "t3", RoomID: "room-rpg", Name: "Table 3", Number: 3},
		{ID: "b1", RoomID: "room-board", Name: "Table 1", Number: 1},
	}

	var slots []Slot
	for _, table := range tables {
		for _, dp := range dayParts {
			slots = append(slots, Slot{
				ID:        fmt.Sprintf("slot-%s-%s", table.ID, dp.ID),
				TableID:   table.ID,
				RoomID:    table.RoomID,
				DayPartID: dp.ID,
			})
		}
	}

	days := []Day{{
		ID:    "day-1",
		Name:  "Friday",
		Start: dayStart,
		End:   dayStart.Add(8 * time.Hour),
	}}

	return NewSnapshot("con-1", time.UTC, days, dayParts, rooms, tables, slots, volunteers)
}

// fullDayAvailability marks every volunteer available for the whole grid.
func fullDayAvailability(snapshot *ConventionSnapshot) (*AvailabilityIndex, map[int][]string) {
	slotDayParts := map[int][]string{1: dayPartIDs(0, 480)}
	var preferences []SlotPreference
	for _, v := range snapshot.Volunteers {
		preferences = append(preferences, SlotPreference{VolunteerID: v.ID, SlotNumbers: []int{1}})
	}
	return BuildAvailabilityIndex(snapshot, preferences, slotDayParts), slotDayParts
}

type fakeReserver struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeReserver) ReserveSlot(_ context.Context, slotID, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, slotID)
	if err, ok := f.fail[slotID]; ok {
		return err
	}
	return nil
}

type fakeBinder struct {
	bound []string // user ids in bind order
	fail  map[string]error
}

func (f *fakeBinder) BindHost(_ context.Context, eventID, userID string) error {
	f.bound = append(f.bound, userID)
	if err, ok := f.fail[userID]; ok {
		return err
	}
	return nil
}

type fakeCreator struct {
	created []string // event names in creation order
	fail    map[string]error
}

func (f *fakeCreator) CreateEvent(_ context.Context, event EventRequest, _ *Requirement) (string, error) {
	if err, ok := f.fail[event.Name]; ok {
		return "", err
	}
	f.created = append(f.created, event.Name)
	return fmt.Sprintf("ev-%d", len(f.created)), nil
}
