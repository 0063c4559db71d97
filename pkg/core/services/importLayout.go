package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/roleinit/conscheduler/internal/config"
	"github.com/roleinit/conscheduler/pkg/clients/tteclient"
	"github.com/roleinit/conscheduler/pkg/db"
	"github.com/roleinit/conscheduler/pkg/ingest"
	"github.com/roleinit/conscheduler/pkg/utils/timeutil"
)

// slotShiftType names the shift type every slot shift hangs off.
const slotShiftType = "Slot"

// SlotWindow is the cached time window of one slot-matrix column,
// stored on the convention record so a scheduling run can map slot
// numbers back onto dayparts.
type SlotWindow struct {
	Start   string `json:"start"` // wire format, UTC
	Minutes int    `json:"minutes"`
}

// LayoutClient defines the client operations needed to push a layout.
type LayoutClient interface {
	GetConvention(ctx context.Context, conventionID string) (*tteclient.Convention, error)
	ConventionTimezone(ctx context.Context, conventionID string) (*time.Location, error)
	Days(ctx context.Context, conventionID string) ([]tteclient.Day, error)
	DayParts(ctx context.Context, conventionID string) ([]tteclient.DayPart, error)
	CreateDayPart(ctx context.Context, conventionID, dayID, name string, start time.Time) (*tteclient.DayPart, error)
	Rooms(ctx context.Context, conventionID string) ([]tteclient.Room, error)
	CreateRoom(ctx context.Context, conventionID, name string) (*tteclient.Room, error)
	Spaces(ctx context.Context, conventionID string) ([]tteclient.Space, error)
	CreateSpace(ctx context.Context, conventionID, roomID, name string, maxTickets int) (*tteclient.Space, error)
	ShiftTypes(ctx context.Context, conventionID string) ([]tteclient.ShiftType, error)
	CreateShiftType(ctx context.Context, conventionID, name string) (*tteclient.ShiftType, error)
	Shifts(ctx context.Context, conventionID string) ([]tteclient.Shift, error)
	CreateShift(ctx context.Context, conventionID, dayID, shiftTypeID, name string, start, end time.Time) (*tteclient.Shift, error)
}

// LayoutResult summarizes what a layout import pushed to the platform.
type LayoutResult struct {
	DayPartsCreated int
	RoomsCreated    int
	SpacesCreated   int
	ShiftsCreated   int
	Slots           int
}

// ImportLayout pushes the room/slot matrix to the platform: the
// 30-minute daypart grid for every convention day, a room per table
// type with its numbered spaces, and a volunteer shift per slot column.
// Everything already present is left alone, so re-importing after a
// partial failure finishes the job. The slot windows and table config
// are cached for the scheduling run.
func ImportLayout(
	ctx context.Context,
	database db.ConventionStore,
	client LayoutClient,
	cfg *config.Config,
	logger *zap.Logger,
	conventionID string,
	r io.Reader,
) (*LayoutResult, error) {
	logger.Info("Importing layout", zap.String("convention_id", conventionID))

	layout, err := ingest.ParseLayout(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	logger.Debug("Parsed layout",
		zap.Int("slots", len(layout.Slots)),
		zap.Int("table_types", len(layout.Tables)))

	convention, err := client.GetConvention(ctx, conventionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch convention: %w", err)
	}
	tz, err := client.ConventionTimezone(ctx, conventionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch convention timezone: %w", err)
	}

	days, err := client.Days(ctx, conventionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch convention days: %w", err)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("convention %s has no days", conventionID)
	}

	result := &LayoutResult{Slots: len(layout.Slots)}

	if result.DayPartsCreated, err = ensureDayParts(ctx, client, cfg, logger, conventionID, days, tz); err != nil {
		return nil, err
	}
	if result.RoomsCreated, result.SpacesCreated, err = ensureRoomsAndSpaces(ctx, client, logger, conventionID, layout.Tables); err != nil {
		return nil, err
	}
	if result.ShiftsCreated, err = ensureSlotShifts(ctx, client, logger, conventionID, days, layout.Slots, tz); err != nil {
		return nil, err
	}

	if err := cacheLayout(ctx, database, convention, tz, layout); err != nil {
		return nil, err
	}

	logger.Info("Layout imported",
		zap.Int("dayparts_created", result.DayPartsCreated),
		zap.Int("rooms_created", result.RoomsCreated),
		zap.Int("spaces_created", result.SpacesCreated),
		zap.Int("shifts_created", result.ShiftsCreated))
	return result, nil
}

// ensureDayParts expands the configured recurrence over each day's open
// hours and creates every missing daypart. Daypart names carry the
// local wall-clock time because that is what organizers read.
func ensureDayParts(
	ctx context.Context,
	client LayoutClient,
	cfg *config.Config,
	logger *zap.Logger,
	conventionID string,
	days []tteclient.Day,
	tz *time.Location,
) (int, error) {
	existing, err := client.DayParts(ctx, conventionID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch dayparts: %w", err)
	}
	seen := make(map[time.Time]bool, len(existing))
	for _, dp := range existing {
		seen[dp.StartDate.UTC().Truncate(time.Minute)] = true
	}

	created := 0
	for _, day := range days {
		rule, err := rrule.StrToRRule(cfg.DayPartGrid.RRule)
		if err != nil {
			return created, fmt.Errorf("invalid daypart grid rrule: %w", err)
		}
		rule.DTStart(day.StartDate.UTC())

		end := day.EndDate.UTC()
		if cfg.DayPartGrid.Hours != nil {
			capped := day.StartDate.Add(time.Duration(*cfg.DayPartGrid.Hours) * time.Hour)
			if capped.Before(end) {
				end = capped
			}
		}

		for _, start := range rule.Between(day.StartDate.UTC(), end, true) {
			if !start.Before(end) || seen[start.Truncate(time.Minute)] {
				continue
			}
			name := start.In(tz).Format("Mon 03:04 PM")
			if _, err := client.CreateDayPart(ctx, conventionID, day.ID, name, start); err != nil {
				return created, fmt.Errorf("failed to create daypart %s: %w", name, err)
			}
			seen[start.Truncate(time.Minute)] = true
			created++
		}
		logger.Debug("Day grid ensured", zap.String("day", day.Name))
	}
	return created, nil
}

// ensureRoomsAndSpaces creates a room per table type and numbered
// spaces for its table range.
func ensureRoomsAndSpaces(
	ctx context.Context,
	client LayoutClient,
	logger *zap.Logger,
	conventionID string,
	tables []ingest.TableConfig,
) (roomsCreated, spacesCreated int, err error) {
	rooms, err := client.Rooms(ctx, conventionID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch rooms: %w", err)
	}
	roomIDs := make(map[string]string, len(rooms))
	for _, room := range rooms {
		roomIDs[room.Name] = room.ID
	}

	spaces, err := client.Spaces(ctx, conventionID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch spaces: %w", err)
	}
	spaceNames := make(map[string]bool, len(spaces))
	for _, space := range spaces {
		spaceNames[space.Name] = true
	}

	for _, table := range tables {
		roomID, ok := roomIDs[table.Type]
		if !ok {
			room, err := client.CreateRoom(ctx, conventionID, table.Type)
			if err != nil {
				return roomsCreated, spacesCreated, fmt.Errorf("failed to create room %q: %w", table.Type, err)
			}
			roomID = room.ID
			roomIDs[table.Type] = roomID
			roomsCreated++
			logger.Debug("Created room", zap.String("name", table.Type))
		}

		for n := table.TableStart; n <= table.TableEnd; n++ {
			name := "Table " + strconv.Itoa(n)
			if spaceNames[name] {
				continue
			}
			if _, err := client.CreateSpace(ctx, conventionID, roomID, name, 6); err != nil {
				return roomsCreated, spacesCreated, fmt.Errorf("failed to create space %q: %w", name, err)
			}
			spaceNames[name] = true
			spacesCreated++
		}
	}
	return roomsCreated, spacesCreated, nil
}

// ensureSlotShifts posts one volunteer shift per slot column so the
// platform's volunteer signup mirrors the availability matrix.
func ensureSlotShifts(
	ctx context.Context,
	client LayoutClient,
	logger *zap.Logger,
	conventionID string,
	days []tteclient.Day,
	slots []ingest.SlotTime,
	tz *time.Location,
) (int, error) {
	shiftTypes, err := client.ShiftTypes(ctx, conventionID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch shift types: %w", err)
	}
	shiftTypeID := ""
	for _, st := range shiftTypes {
		if st.Name == slotShiftType {
			shiftTypeID = st.ID
			break
		}
	}
	if shiftTypeID == "" {
		shiftType, err := client.CreateShiftType(ctx, conventionID, slotShiftType)
		if err != nil {
			return 0, fmt.Errorf("failed to create shift type: %w", err)
		}
		shiftTypeID = shiftType.ID
		logger.Debug("Created shift type", zap.String("name", slotShiftType))
	}

	existing, err := client.Shifts(ctx, conventionID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch shifts: %w", err)
	}
	shiftNames := make(map[string]bool, len(existing))
	for _, shift := range existing {
		shiftNames[shift.Name] = true
	}

	created := 0
	for _, slot := range slots {
		start, err := timeutil.ParseCSV(slot.Start, tz)
		if err != nil {
			return created, fmt.Errorf("slot %d: %w", slot.Number, err)
		}
		end := start.Add(time.Duration(slot.Hours) * time.Hour)

		dayID := ""
		for _, day := range days {
			if sameLocalDate(start, day.StartDate.Time, tz) {
				dayID = day.ID
				break
			}
		}
		if dayID == "" {
			return created, fmt.Errorf("slot %d starts outside every convention day", slot.Number)
		}

		name := "Slot " + strconv.Itoa(slot.Number)
		if shiftNames[name] {
			continue
		}
		if _, err := client.CreateShift(ctx, conventionID, dayID, shiftTypeID, name, start, end); err != nil {
			return created, fmt.Errorf("failed to create shift %q: %w", name, err)
		}
		created++
	}
	return created, nil
}

func sameLocalDate(a, b time.Time, tz *time.Location) bool {
	al, bl := a.In(tz), b.In(tz)
	ay, am, ad := al.Date()
	by, bm, bd := bl.Date()
	return ay == by && am == bm && ad == bd
}

// cacheLayout stores the slot windows and table config on the cached
// convention record for the scheduling run.
func cacheLayout(
	ctx context.Context,
	database db.ConventionStore,
	convention *tteclient.Convention,
	tz *time.Location,
	layout *ingest.Layout,
) error {
	windows := make(map[string]SlotWindow, len(layout.Slots))
	for _, slot := range layout.Slots {
		start, err := timeutil.ParseCSV(slot.Start, tz)
		if err != nil {
			return fmt.Errorf("slot %d: %w", slot.Number, err)
		}
		windows[strconv.Itoa(slot.Number)] = SlotWindow{
			Start:   tteclient.FormatWire(start),
			Minutes: slot.Hours * 60,
		}
	}
	windowsJSON, err := json.Marshal(windows)
	if err != nil {
		return fmt.Errorf("failed to encode slot windows: %w", err)
	}
	tablesJSON, err := json.Marshal(layout.Tables)
	if err != nil {
		return fmt.Errorf("failed to encode table config: %w", err)
	}

	return database.UpsertConvention(ctx, &db.Convention{
		ID:           convention.ID,
		Name:         convention.Name,
		Timezone:     tz.String(),
		SlotDayParts: string(windowsJSON),
		TableConfig:  string(tablesJSON),
		SyncedAt:     time.Now().UTC(),
	})
}
