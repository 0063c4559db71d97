package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roleinit/conscheduler/internal/config"
	"github.com/roleinit/conscheduler/pkg/clients/tteclient"
)

const layoutCSV = `Table Type,Table Start,Table End,Length,Slot 1,Slot 2
RPG,1,2,4,7/10/26 10:00:00 AM,X
Board Game,3,3,4,X,7/10/26 2:00:00 PM
`

func layoutPlatform() *fakePlatform {
	open := time.Date(2026, 7, 10, 10, 0, 0, 0, time.UTC)
	return &fakePlatform{
		convention: &tteclient.Convention{ID: "con-1", Name: "SummerCon"},
		tz:         time.UTC,
		days: []tteclient.Day{{
			ID:        "day-1",
			Name:      "Friday",
			StartDate: tteclient.WireTime{Time: open},
			EndDate:   tteclient.WireTime{Time: open.Add(2 * time.Hour)},
		}},
	}
}

func gridConfig() *config.Config {
	return &config.Config{
		GroupID:     "group-1",
		DayPartGrid: config.DayPartGrid{RRule: "FREQ=MINUTELY;INTERVAL=30"},
	}
}

func TestImportLayoutCreatesEverything(t *testing.T) {
	platform := layoutPlatform()
	store := newMemStore()

	result, err := ImportLayout(context.Background(), store, platform, gridConfig(), zap.NewNop(),
		"con-1", strings.NewReader(layoutCSV))
	require.NoError(t, err)

	assert.Equal(t, 4, result.DayPartsCreated, "two-hour day on a 30-minute grid")
	assert.Equal(t, 2, result.RoomsCreated)
	assert.Equal(t, 3, result.SpacesCreated, "tables 1-2 plus table 3")
	assert.Equal(t, 2, result.ShiftsCreated)
	assert.Equal(t, 2, result.Slots)

	require.Len(t, platform.shiftTypes, 1)
	assert.Equal(t, "Slot", platform.shiftTypes[0].Name)
	assert.Equal(t, "Slot 1", platform.shifts[0].Name)
	assert.Equal(t, "2026-07-10 10:00:00", tteclient.FormatWire(platform.shifts[0].StartTime.Time))
	assert.Equal(t, "2026-07-10 14:00:00", tteclient.FormatWire(platform.shifts[0].EndTime.Time))

	// The slot windows land in the cache for the scheduling run.
	cached, err := store.GetConvention(context.Background(), "con-1")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "SummerCon", cached.Name)
	assert.Equal(t, "UTC", cached.Timezone)

	var windows map[string]SlotWindow
	require.NoError(t, json.Unmarshal([]byte(cached.SlotDayParts), &windows))
	require.Contains(t, windows, "1")
	assert.Equal(t, "2026-07-10 10:00:00", windows["1"].Start)
	assert.Equal(t, 240, windows["1"].Minutes)
}

func TestImportLayoutIsIdempotent(t *testing.T) {
	platform := layoutPlatform()
	store := newMemStore()

	_, err := ImportLayout(context.Background(), store, platform, gridConfig(), zap.NewNop(),
		"con-1", strings.NewReader(layoutCSV))
	require.NoError(t, err)

	dayParts, rooms, spaces, shifts := len(platform.dayParts), len(platform.rooms), len(platform.spaces), len(platform.shifts)

	result, err := ImportLayout(context.Background(), store, platform, gridConfig(), zap.NewNop(),
		"con-1", strings.NewReader(layoutCSV))
	require.NoError(t, err)

	assert.Zero(t, result.DayPartsCreated)
	assert.Zero(t, result.RoomsCreated)
	assert.Zero(t, result.SpacesCreated)
	assert.Zero(t, result.ShiftsCreated)
	assert.Equal(t, dayParts, len(platform.dayParts))
	assert.Equal(t, rooms, len(platform.rooms))
	assert.Equal(t, spaces, len(platform.spaces))
	assert.Equal(t, shifts, len(platform.shifts))
}

func TestImportLayoutCapsGridHours(t *testing.T) {
	platform := layoutPlatform()
	cfg := gridConfig()
	hours := 1
	cfg.DayPartGrid.Hours = &hours

	result, err := ImportLayout(context.Background(), newMemStore(), platform, cfg, zap.NewNop(),
		"con-1", strings.NewReader(layoutCSV))
	require.NoError(t, err)

	assert.Equal(t, 2, result.DayPartsCreated, "grid stops at the configured cap")
}

func TestImportLayoutRejectsConventionWithoutDays(t *testing.T) {
	platform := layoutPlatform()
	platform.days = nil

	_, err := ImportLayout(context.Background(), newMemStore(), platform, gridConfig(), zap.NewNop(),
		"con-1", strings.NewReader(layoutCSV))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no days")
}
