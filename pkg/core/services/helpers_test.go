package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/roleinit/conscheduler/pkg/clients/tteclient"
	"github.com/roleinit/conscheduler/pkg/db"
)

// memStore is an in-memory db.Store so service tests do not touch disk.
type memStore struct {
	conventions map[string]db.Convention
	volunteers  map[string][]db.Volunteer
}

func newMemStore() *memStore {
	return &memStore{
		conventions: make(map[string]db.Convention),
		volunteers:  make(map[string][]db.Volunteer),
	}
}

func (m *memStore) GetConvention(_ context.Context, conventionID string) (*db.Convention, error) {
	convention, ok := m.conventions[conventionID]
	if !ok {
		return nil, nil
	}
	return &convention, nil
}

func (m *memStore) UpsertConvention(_ context.Context, convention *db.Convention) error {
	m.conventions[convention.ID] = *convention
	return nil
}

func (m *memStore) DeleteConvention(_ context.Context, conventionID string) error {
	delete(m.conventions, conventionID)
	delete(m.volunteers, conventionID)
	return nil
}

func (m *memStore) GetVolunteers(_ context.Context, conventionID string) ([]db.Volunteer, error) {
	return m.volunteers[conventionID], nil
}

func (m *memStore) UpsertVolunteers(_ context.Context, volunteers []db.Volunteer) error {
	for _, v := range volunteers {
		existing := m.volunteers[v.ConventionID]
		replaced := false
		for i := range existing {
			if strings.EqualFold(existing[i].Email, v.Email) {
				existing[i] = v
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, v)
		}
		m.volunteers[v.ConventionID] = existing
	}
	return nil
}

// fakePlatform backs every service interface with in-memory state and
// records what the service pushed.
type fakePlatform struct {
	convention *tteclient.Convention
	tz         *time.Location
	days       []tteclient.Day
	dayParts   []tteclient.DayPart
	rooms      []tteclient.Room
	spaces     []tteclient.Space
	slots      []tteclient.Slot
	volunteers []tteclient.Volunteer
	eventTypes []tteclient.EventType
	events     []tteclient.Event
	shiftTypes []tteclient.ShiftType
	shifts     []tteclient.Shift

	geolocations []tteclient.Geolocation

	users           map[string]*tteclient.User
	userEvents      map[string][]tteclient.Event
	eventDayParts   map[string][]tteclient.DayPart
	eventSlots      map[string][]tteclient.Slot
	eventHosts      map[string][]tteclient.Host
	volunteerShifts map[string][]tteclient.VolunteerShift

	createdEvents []tteclient.CreateEventParams
	reserved      []string
	bound         []string // "eventID/userID"
	registered    []string // AddVolunteer emails
	boundRooms    []string // "eventTypeID/roomID"
	deleted       []string
	failDelete    map[string]error

	seq int
}

func (f *fakePlatform) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakePlatform) GetConvention(context.Context, string) (*tteclient.Convention, error) {
	return f.convention, nil
}

func (f *fakePlatform) FindGeolocation(_ context.Context, query string) (*tteclient.Geolocation, error) {
	for i := range f.geolocations {
		if f.geolocations[i].Name == query {
			return &f.geolocations[i], nil
		}
	}
	return nil, nil
}

func (f *fakePlatform) CreateGeolocation(_ context.Context, name string) (*tteclient.Geolocation, error) {
	geo := tteclient.Geolocation{ID: f.nextID("geo"), Name: name}
	f.geolocations = append(f.geolocations, geo)
	return &geo, nil
}

func (f *fakePlatform) CreateConvention(_ context.Context, p tteclient.CreateConventionParams) (*tteclient.Convention, error) {
	convention := tteclient.Convention{
		ID:            f.nextID("con"),
		Name:          p.Name,
		GeolocationID: p.GeolocationID,
		EmailAddress:  p.EmailAddress,
		PhoneNumber:   p.PhoneNumber,
		Description:   p.Description,
	}
	f.convention = &convention
	return &convention, nil
}

func (f *fakePlatform) CreateDay(_ context.Context, _, name string, start, end time.Time) (*tteclient.Day, error) {
	day := tteclient.Day{
		ID:        f.nextID("day"),
		Name:      name,
		StartDate: tteclient.WireTime{Time: start.UTC()},
		EndDate:   tteclient.WireTime{Time: end.UTC()},
	}
	f.days = append(f.days, day)
	return &day, nil
}

func (f *fakePlatform) ConventionTimezone(context.Context, string) (*time.Location, error) {
	return f.tz, nil
}

func (f *fakePlatform) Days(context.Context, string) ([]tteclient.Day, error) {
	return f.days, nil
}

func (f *fakePlatform) DayParts(context.Context, string) ([]tteclient.DayPart, error) {
	return f.dayParts, nil
}

func (f *fakePlatform) CreateDayPart(_ context.Context, _, dayID, name string, start time.Time) (*tteclient.DayPart, error) {
	dp := tteclient.DayPart{
		ID:              f.nextID("dp"),
		Name:            name,
		StartDate:       tteclient.WireTime{Time: start.UTC()},
		ConventionDayID: dayID,
	}
	f.dayParts = append(f.dayParts, dp)
	return &dp, nil
}

func (f *fakePlatform) Rooms(context.Context, string) ([]tteclient.Room, error) {
	return f.rooms, nil
}

func (f *fakePlatform) CreateRoom(_ context.Context, _, name string) (*tteclient.Room, error) {
	room := tteclient.Room{ID: f.nextID("room"), Name: name}
	f.rooms = append(f.rooms, room)
	return &room, nil
}

func (f *fakePlatform) Spaces(context.Context, string) ([]tteclient.Space, error) {
	return f.spaces, nil
}

func (f *fakePlatform) CreateSpace(_ context.Context, _, roomID, name string, maxTickets int) (*tteclient.Space, error) {
	space := tteclient.Space{ID: f.nextID("sp"), Name: name, RoomID: roomID, MaxTickets: maxTickets}
	f.spaces = append(f.spaces, space)
	return &space, nil
}

func (f *fakePlatform) Slots(context.Context, string) ([]tteclient.Slot, error) {
	return f.slots, nil
}

func (f *fakePlatform) Volunteers(context.Context, string) ([]tteclient.Volunteer, error) {
	return f.volunteers, nil
}

func (f *fakePlatform) UserEvents(_ context.Context, _, userID string) ([]tteclient.Event, error) {
	return f.userEvents[userID], nil
}

func (f *fakePlatform) EventDayParts(_ context.Context, eventID string) ([]tteclient.DayPart, error) {
	return f.eventDayParts[eventID], nil
}

func (f *fakePlatform) EventTypes(context.Context, string) ([]tteclient.EventType, error) {
	return f.eventTypes, nil
}

func (f *fakePlatform) CreateEventType(_ context.Context, _, name, tier string) (*tteclient.EventType, error) {
	eventType := tteclient.EventType{ID: f.nextID("et"), Name: name, Tier: tier}
	f.eventTypes = append(f.eventTypes, eventType)
	return &eventType, nil
}

func (f *fakePlatform) BindEventTypeRoom(_ context.Context, _, eventTypeID, roomID string) error {
	f.boundRooms = append(f.boundRooms, eventTypeID+"/"+roomID)
	return nil
}

func (f *fakePlatform) CreateEvent(_ context.Context, p tteclient.CreateEventParams) (*tteclient.Event, error) {
	f.createdEvents = append(f.createdEvents, p)
	event := tteclient.Event{ID: f.nextID("ev"), Name: p.Name, TypeID: p.TypeID, Duration: p.Duration}
	f.events = append(f.events, event)
	return &event, nil
}

func (f *fakePlatform) ReserveSlot(_ context.Context, slotID, eventID string) error {
	f.reserved = append(f.reserved, slotID)
	return nil
}

func (f *fakePlatform) BindHost(_ context.Context, eventID, userID string) error {
	f.bound = append(f.bound, eventID+"/"+userID)
	return nil
}

func (f *fakePlatform) FindUser(_ context.Context, email string) (*tteclient.User, error) {
	return f.users[strings.ToLower(email)], nil
}

func (f *fakePlatform) AddVolunteer(_ context.Context, _, email, firstName, lastName string) (*tteclient.Volunteer, error) {
	f.registered = append(f.registered, email)
	volunteer := tteclient.Volunteer{
		ID:           f.nextID("pv"),
		UserID:       f.nextID("u"),
		EmailAddress: email,
		FirstName:    firstName,
		LastName:     lastName,
	}
	f.volunteers = append(f.volunteers, volunteer)
	return &volunteer, nil
}

func (f *fakePlatform) ShiftTypes(context.Context, string) ([]tteclient.ShiftType, error) {
	return f.shiftTypes, nil
}

func (f *fakePlatform) CreateShiftType(_ context.Context, _, name string) (*tteclient.ShiftType, error) {
	shiftType := tteclient.ShiftType{ID: f.nextID("st"), Name: name}
	f.shiftTypes = append(f.shiftTypes, shiftType)
	return &shiftType, nil
}

func (f *fakePlatform) CreateShift(_ context.Context, _, dayID, shiftTypeID, name string, start, end time.Time) (*tteclient.Shift, error) {
	shift := tteclient.Shift{
		ID:          f.nextID("sh"),
		Name:        name,
		ShiftTypeID: shiftTypeID,
		StartTime:   tteclient.WireTime{Time: start.UTC()},
		EndTime:     tteclient.WireTime{Time: end.UTC()},
	}
	f.shifts = append(f.shifts, shift)
	return &shift, nil
}

func (f *fakePlatform) Events(context.Context, string) ([]tteclient.Event, error) {
	return f.events, nil
}

func (f *fakePlatform) EventSlots(_ context.Context, eventID string) ([]tteclient.Slot, error) {
	return f.eventSlots[eventID], nil
}

func (f *fakePlatform) EventHosts(_ context.Context, eventID string) ([]tteclient.Host, error) {
	return f.eventHosts[eventID], nil
}

func (f *fakePlatform) Shifts(context.Context, string) ([]tteclient.Shift, error) {
	return f.shifts, nil
}

func (f *fakePlatform) VolunteerShifts(_ context.Context, _, volunteerID string) ([]tteclient.VolunteerShift, error) {
	return f.volunteerShifts[volunteerID], nil
}

func (f *fakePlatform) delete(id string) error {
	if err, ok := f.failDelete[id]; ok {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePlatform) DeleteEvent(_ context.Context, id string) error     { return f.delete(id) }
func (f *fakePlatform) DeleteVolunteer(_ context.Context, id string) error { return f.delete(id) }
func (f *fakePlatform) DeleteShift(_ context.Context, id string) error     { return f.delete(id) }
func (f *fakePlatform) DeleteDayPart(_ context.Context, id string) error   { return f.delete(id) }
func (f *fakePlatform) DeleteSpace(_ context.Context, id string) error     { return f.delete(id) }
func (f *fakePlatform) DeleteRoom(_ context.Context, id string) error      { return f.delete(id) }
