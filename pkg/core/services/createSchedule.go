package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/roleinit/conscheduler/pkg/clients/tteclient"
	"github.com/roleinit/conscheduler/pkg/core/schedule"
	"github.com/roleinit/conscheduler/pkg/db"
	"github.com/roleinit/conscheduler/pkg/ingest"
	"github.com/roleinit/conscheduler/pkg/utils/timeutil"
)

// SchedulePlatform defines the client operations a scheduling run needs.
type SchedulePlatform interface {
	Days(ctx context.Context, conventionID string) ([]tteclient.Day, error)
	DayParts(ctx context.Context, conventionID string) ([]tteclient.DayPart, error)
	Rooms(ctx context.Context, conventionID string) ([]tteclient.Room, error)
	CreateRoom(ctx context.Context, conventionID, name string) (*tteclient.Room, error)
	Spaces(ctx context.Context, conventionID string) ([]tteclient.Space, error)
	Slots(ctx context.Context, conventionID string) ([]tteclient.Slot, error)
	Volunteers(ctx context.Context, conventionID string) ([]tteclient.Volunteer, error)
	UserEvents(ctx context.Context, conventionID, userID string) ([]tteclient.Event, error)
	EventDayParts(ctx context.Context, eventID string) ([]tteclient.DayPart, error)
	EventTypes(ctx context.Context, conventionID string) ([]tteclient.EventType, error)
	CreateEventType(ctx context.Context, conventionID, name, tier string) (*tteclient.EventType, error)
	BindEventTypeRoom(ctx context.Context, conventionID, eventTypeID, roomID string) error
	CreateEvent(ctx context.Context, p tteclient.CreateEventParams) (*tteclient.Event, error)
	ReserveSlot(ctx context.Context, slotID, eventID string) error
	BindHost(ctx context.Context, eventID, userID string) error
}

// ScheduleResult is the outcome of one scheduling run.
type ScheduleResult struct {
	Report    *schedule.RunReport
	Conflicts []schedule.ConflictError
}

// CreateSchedule runs the whole pipeline for one events sheet: fetch
// the convention baseline, make sure every event type and room exists
// in the catalog, then resolve, allocate, and host-match each event
// chronologically. Per-event faults land in the report; only a failed
// baseline fetch aborts.
func CreateSchedule(
	ctx context.Context,
	database db.Store,
	client SchedulePlatform,
	logger *zap.Logger,
	conventionID string,
	eventsFile io.Reader,
) (*ScheduleResult, error) {
	logger.Info("Creating schedule", zap.String("convention_id", conventionID))

	cached, err := database.GetConvention(ctx, conventionID)
	if err != nil {
		return nil, err
	}
	if cached == nil || cached.SlotDayParts == "" {
		return nil, fmt.Errorf("convention %s has no imported layout; run importLayout first", conventionID)
	}
	roster, err := database.GetVolunteers(ctx, conventionID)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("convention %s has no imported volunteers; run importVolunteers first", conventionID)
	}
	tz, err := time.LoadLocation(cached.Timezone)
	if err != nil {
		return nil, fmt.Errorf("cached timezone %q is invalid: %w", cached.Timezone, err)
	}

	eventRows, err := ingest.ParseEvents(eventsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse events: %w", err)
	}

	snapshot, err := fetchSnapshot(ctx, client, logger, conventionID, tz, roster)
	if err != nil {
		return nil, err
	}

	typeIDs, err := ensureEventTypes(ctx, client, logger, conventionID, eventRows)
	if err != nil {
		return nil, err
	}

	events := make([]schedule.EventRequest, 0, len(eventRows))
	for _, row := range eventRows {
		start, err := timeutil.ParseCSV(row.Datetime, tz)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", row.Name, err)
		}
		events = append(events, schedule.EventRequest{
			Name:       row.Name,
			Start:      start,
			Duration:   row.Duration,
			TableType:  row.Type,
			TableCount: row.TableCount,
			Tier:       row.Tier,
			HostEmails: row.Hosts,
		})
	}

	preferences, err := rosterPreferences(roster, snapshot)
	if err != nil {
		return nil, err
	}
	slotDayParts, err := slotDayPartMap(cached.SlotDayParts, snapshot)
	if err != nil {
		return nil, err
	}

	adapter := &platformAdapter{
		client:       client,
		conventionID: conventionID,
		typeIDs:      typeIDs,
	}
	orchestrator := schedule.NewOrchestrator(adapter, adapter, adapter, logger)
	report, err := orchestrator.Run(ctx, snapshot, events, preferences, slotDayParts)
	if err != nil {
		return nil, err
	}

	conflicts := schedule.ValidateAssignments(report.Assignments)
	for _, conflict := range conflicts {
		logger.Error("schedule conflict", zap.String("kind", conflict.Kind), zap.String("detail", conflict.Description))
	}

	scheduled := 0
	for _, outcome := range report.Outcomes {
		if outcome.Scheduled() {
			scheduled++
		}
	}
	logger.Info("Schedule run complete",
		zap.Int("events", len(report.Outcomes)),
		zap.Int("fully_scheduled", scheduled),
		zap.Int("assignments", len(report.Assignments)),
		zap.Int("conflicts", len(conflicts)))

	return &ScheduleResult{Report: report, Conflicts: conflicts}, nil
}

// fetchSnapshot drains the convention baseline and folds the cached
// roster (tiers) plus each volunteer's existing hosted events into the
// scheduling snapshot.
func fetchSnapshot(
	ctx context.Context,
	client SchedulePlatform,
	logger *zap.Logger,
	conventionID string,
	tz *time.Location,
	roster []db.Volunteer,
) (*schedule.ConventionSnapshot, error) {
	logger.Debug("Fetching convention baseline")

	wireDays, err := client.Days(ctx, conventionID)
	if err != nil {
		return nil, err
	}
	wireDayParts, err := client.DayParts(ctx, conventionID)
	if err != nil {
		return nil, err
	}
	wireRooms, err := client.Rooms(ctx, conventionID)
	if err != nil {
		return nil, err
	}
	wireSpaces, err := client.Spaces(ctx, conventionID)
	if err != nil {
		return nil, err
	}
	wireSlots, err := client.Slots(ctx, conventionID)
	if err != nil {
		return nil, err
	}
	wireVolunteers, err := client.Volunteers(ctx, conventionID)
	if err != nil {
		return nil, err
	}

	days := make([]schedule.Day, 0, len(wireDays))
	for _, d := range wireDays {
		days = append(days, schedule.Day{ID: d.ID, Name: d.Name, Start: d.StartDate.Time, End: d.EndDate.Time})
	}
	dayParts := make([]schedule.DayPart, 0, len(wireDayParts))
	for _, dp := range wireDayParts {
		dayParts = append(dayParts, schedule.DayPart{ID: dp.ID, DayID: dp.ConventionDayID, Name: dp.Name, Start: dp.StartDate.Time})
	}
	rooms := make([]schedule.Room, 0, len(wireRooms))
	for _, r := range wireRooms {
		rooms = append(rooms, schedule.Room{ID: r.ID, Name: r.Name})
	}
	tables := make([]schedule.Table, 0, len(wireSpaces))
	for _, s := range wireSpaces {
		tables = append(tables, schedule.Table{ID: s.ID, RoomID: s.RoomID, Name: s.Name, Number: tableNumber(s.Name)})
	}
	slots := make([]schedule.Slot, 0, len(wireSlots))
	for _, s := range wireSlots {
		slots = append(slots, schedule.Slot{
			ID:        s.ID,
			TableID:   s.SpaceID,
			RoomID:    s.RoomID,
			DayPartID: s.DayPartID,
			Assigned:  s.IsAssigned == 1 || s.EventID != "",
		})
	}

	tiers := make(map[string]int, len(roster))
	for _, record := range roster {
		tier, _ := strconv.Atoi(record.Tiers)
		tiers[strings.ToLower(record.Email)] = tier
	}

	volunteers := make([]schedule.Volunteer, 0, len(wireVolunteers))
	for _, wv := range wireVolunteers {
		volunteer := schedule.Volunteer{
			ID:     wv.ID,
			UserID: wv.UserID,
			Name:   wv.Name,
			Email:  strings.ToLower(wv.EmailAddress),
			Tier:   tiers[strings.ToLower(wv.EmailAddress)],
		}
		hosted, err := client.UserEvents(ctx, conventionID, wv.UserID)
		if err != nil {
			return nil, err
		}
		for _, event := range hosted {
			eventDayParts, err := client.EventDayParts(ctx, event.ID)
			if err != nil {
				return nil, err
			}
			ids := make([]string, 0, len(eventDayParts))
			for _, dp := range eventDayParts {
				ids = append(ids, dp.ID)
			}
			volunteer.Commitments = append(volunteer.Commitments, schedule.Commitment{EventID: event.ID, DayPartIDs: ids})
			volunteer.CommittedMinutes += len(ids) * schedule.DayPartMinutes
		}
		volunteers = append(volunteers, volunteer)
	}

	logger.Debug("Baseline fetched",
		zap.Int("dayparts", len(dayParts)),
		zap.Int("tables", len(tables)),
		zap.Int("slots", len(slots)),
		zap.Int("volunteers", len(volunteers)))

	return schedule.NewSnapshot(conventionID, tz, days, dayParts, rooms, tables, slots, volunteers), nil
}

// ensureEventTypes makes every event type named in the sheet exist in
// the catalog and be allowed into its room, returning name -> type ID.
func ensureEventTypes(
	ctx context.Context,
	client SchedulePlatform,
	logger *zap.Logger,
	conventionID string,
	rows []ingest.EventRow,
) (map[string]string, error) {
	existing, err := client.EventTypes(ctx, conventionID)
	if err != nil {
		return nil, err
	}
	typeIDs := make(map[string]string, len(existing))
	for _, et := range existing {
		typeIDs[et.Name] = et.ID
	}

	rooms, err := client.Rooms(ctx, conventionID)
	if err != nil {
		return nil, err
	}
	roomIDs := make(map[string]string, len(rooms))
	for _, room := range rooms {
		roomIDs[strings.ToLower(room.Name)] = room.ID
	}

	for _, row := range rows {
		if _, ok := typeIDs[row.Type]; ok {
			continue
		}

		tier := ""
		if row.Tier > 0 {
			tier = strconv.Itoa(row.Tier)
		}
		eventType, err := client.CreateEventType(ctx, conventionID, row.Type, tier)
		if err != nil {
			return nil, err
		}
		typeIDs[row.Type] = eventType.ID
		logger.Debug("Created event type", zap.String("name", row.Type))

		roomID, ok := roomIDs[strings.ToLower(row.Type)]
		if !ok {
			room, err := client.CreateRoom(ctx, conventionID, row.Type)
			if err != nil {
				return nil, err
			}
			roomID = room.ID
			roomIDs[strings.ToLower(row.Type)] = roomID
		}
		if err := client.BindEventTypeRoom(ctx, conventionID, eventType.ID, roomID); err != nil {
			return nil, err
		}
	}
	return typeIDs, nil
}

// rosterPreferences translates cached slot preferences into the core's
// form, keyed by the platform volunteer matched on email.
func rosterPreferences(roster []db.Volunteer, snapshot *schedule.ConventionSnapshot) ([]schedule.SlotPreference, error) {
	preferences := make([]schedule.SlotPreference, 0, len(roster))
	for _, record := range roster {
		volunteer, ok := snapshot.VolunteerByEmail(record.Email)
		if !ok {
			continue
		}
		var slotNumbers []int
		if record.SlotNumbers != "" {
			if err := json.Unmarshal([]byte(record.SlotNumbers), &slotNumbers); err != nil {
				return nil, fmt.Errorf("cached slots for %s are invalid: %w", record.Email, err)
			}
		}
		preferences = append(preferences, schedule.SlotPreference{
			VolunteerID: volunteer.ID,
			SlotNumbers: slotNumbers,
		})
	}
	return preferences, nil
}

// slotDayPartMap expands each cached slot window into the daypart IDs
// it covers, via the snapshot's daypart grid.
func slotDayPartMap(cachedWindows string, snapshot *schedule.ConventionSnapshot) (map[int][]string, error) {
	var windows map[string]SlotWindow
	if err := json.Unmarshal([]byte(cachedWindows), &windows); err != nil {
		return nil, fmt.Errorf("cached slot windows are invalid: %w", err)
	}

	slotDayParts := make(map[int][]string, len(windows))
	for key, window := range windows {
		number, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("cached slot number %q is invalid: %w", key, err)
		}
		start, err := time.Parse("2006-01-02 15:04:05", window.Start)
		if err != nil {
			return nil, fmt.Errorf("cached slot %d start is invalid: %w", number, err)
		}
		var ids []string
		for offset := 0; offset < window.Minutes; offset += schedule.DayPartMinutes {
			if dp, ok := snapshot.DayPartAt(start.Add(time.Duration(offset) * time.Minute)); ok {
				ids = append(ids, dp.ID)
			}
		}
		if len(ids) > 0 {
			slotDayParts[number] = ids
		}
	}
	return slotDayParts, nil
}

// tableNumber pulls the numeric suffix out of a space name like
// "Table 12"; unnumbered spaces sort last.
func tableNumber(name string) int {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return int(^uint(0) >> 1)
	}
	if n, err := strconv.Atoi(fields[len(fields)-1]); err == nil {
		return n
	}
	return int(^uint(0) >> 1)
}

// platformAdapter implements the orchestrator's externalization points
// over the platform client.
type platformAdapter struct {
	client       SchedulePlatform
	conventionID string
	typeIDs      map[string]string
}

func (a *platformAdapter) CreateEvent(ctx context.Context, event schedule.EventRequest, req *schedule.Requirement) (string, error) {
	typeID, ok := a.typeIDs[event.TableType]
	if !ok {
		return "", fmt.Errorf("event %q: no event type for %q", event.Name, event.TableType)
	}
	tier := ""
	if event.Tier > 0 {
		tier = strconv.Itoa(event.Tier)
	}
	created, err := a.client.CreateEvent(ctx, tteclient.CreateEventParams{
		ConventionID:   a.conventionID,
		Name:           event.Name,
		TypeID:         typeID,
		DayID:          req.DayID,
		Duration:       event.Duration,
		StartDayPartID: req.StartDayPartID,
		Tier:           tier,
	})
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (a *platformAdapter) ReserveSlot(ctx context.Context, slotID, eventID string) error {
	return a.client.ReserveSlot(ctx, slotID, eventID)
}

func (a *platformAdapter) BindHost(ctx context.Context, eventID, userID string) error {
	return a.client.BindHost(ctx, eventID, userID)
}
