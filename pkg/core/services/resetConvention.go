package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/roleinit/conscheduler/pkg/clients/tteclient"
	"github.com/roleinit/conscheduler/pkg/db"
)

// ConventionSweeper defines the client operations needed to tear a
// convention's schedule down.
type ConventionSweeper interface {
	Events(ctx context.Context, conventionID string) ([]tteclient.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	Shifts(ctx context.Context, conventionID string) ([]tteclient.Shift, error)
	DeleteShift(ctx context.Context, shiftID string) error
	Volunteers(ctx context.Context, conventionID string) ([]tteclient.Volunteer, error)
	DeleteVolunteer(ctx context.Context, volunteerID string) error
	DayParts(ctx context.Context, conventionID string) ([]tteclient.DayPart, error)
	DeleteDayPart(ctx context.Context, dayPartID string) error
	Spaces(ctx context.Context, conventionID string) ([]tteclient.Space, error)
	DeleteSpace(ctx context.Context, spaceID string) error
	Rooms(ctx context.Context, conventionID string) ([]tteclient.Room, error)
	DeleteRoom(ctx context.Context, roomID string) error
}

// ResetResult counts what a reset removed.
type ResetResult struct {
	Events     int
	Shifts     int
	Volunteers int
	DayParts   int
	Spaces     int
	Rooms      int
	Failures   int
}

// ResetConvention deletes every scheduled artifact from the platform
// (events, shifts, volunteers, dayparts, spaces, rooms) and drops the
// local cache
// entry, returning the convention to a clean pre-import state. Each
// deletion is independent: a failure is logged and counted, never
// fatal, so a re-run can pick up the leftovers.
func ResetConvention(ctx context.Context, database db.ConventionStore, client ConventionSweeper, logger *zap.Logger, conventionID string) (*ResetResult, error) {
	logger.Info("Resetting convention", zap.String("convention_id", conventionID))
	result := &ResetResult{}

	events, err := client.Events(ctx, conventionID)
	if err != nil {
		return nil, err
	}
	for _, event := range events {
		if err := client.DeleteEvent(ctx, event.ID); err != nil {
			logger.Warn("failed to delete event", zap.String("event_id", event.ID), zap.Error(err))
			result.Failures++
			continue
		}
		result.Events++
	}

	shifts, err := client.Shifts(ctx, conventionID)
	if err != nil {
		return nil, err
	}
	for _, shift := range shifts {
		if err := client.DeleteShift(ctx, shift.ID); err != nil {
			logger.Warn("failed to delete shift", zap.String("shift_id", shift.ID), zap.Error(err))
			result.Failures++
			continue
		}
		result.Shifts++
	}

	volunteers, err := client.Volunteers(ctx, conventionID)
	if err != nil {
		return nil, err
	}
	for _, volunteer := range volunteers {
		if err := client.DeleteVolunteer(ctx, volunteer.ID); err != nil {
			logger.Warn("failed to delete volunteer", zap.String("volunteer_id", volunteer.ID), zap.Error(err))
			result.Failures++
			continue
		}
		result.Volunteers++
	}

	dayParts, err := client.DayParts(ctx, conventionID)
	if err != nil {
		return nil, err
	}
	for _, dayPart := range dayParts {
		if err := client.DeleteDayPart(ctx, dayPart.ID); err != nil {
			logger.Warn("failed to delete daypart", zap.String("daypart_id", dayPart.ID), zap.Error(err))
			result.Failures++
			continue
		}
		result.DayParts++
	}

	spaces, err := client.Spaces(ctx, conventionID)
	if err != nil {
		return nil, err
	}
	for _, space := range spaces {
		if err := client.DeleteSpace(ctx, space.ID); err != nil {
			logger.Warn("failed to delete space", zap.String("space_id", space.ID), zap.Error(err))
			result.Failures++
			continue
		}
		result.Spaces++
	}

	rooms, err := client.Rooms(ctx, conventionID)
	if err != nil {
		return nil, err
	}
	for _, room := range rooms {
		if err := client.DeleteRoom(ctx, room.ID); err != nil {
			logger.Warn("failed to delete room", zap.String("room_id", room.ID), zap.Error(err))
			result.Failures++
			continue
		}
		result.Rooms++
	}

	if err := database.DeleteConvention(ctx, conventionID); err != nil {
		return nil, err
	}

	logger.Info("Convention reset",
		zap.Int("events", result.Events),
		zap.Int("shifts", result.Shifts),
		zap.Int("volunteers", result.Volunteers),
		zap.Int("dayparts", result.DayParts),
		zap.Int("spaces", result.Spaces),
		zap.Int("rooms", result.Rooms),
		zap.Int("failures", result.Failures))
	return result, nil
}
