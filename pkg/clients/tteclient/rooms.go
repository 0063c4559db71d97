package tteclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// Rooms lists the convention's room (table-type) catalog.
func (c *Client) Rooms(ctx context.Context, conventionID string) ([]Room, error) {
	return drain[Room](ctx, c, "/convention/"+conventionID+"/rooms", c.params())
}

// CreateRoom registers a new table-type.
func (c *Client) CreateRoom(ctx context.Context, conventionID, name string) (*Room, error) {
	params := c.params()
	params.Set("convention_id", conventionID)
	params.Set("name", name)

	var room Room
	if err := c.call(ctx, http.MethodPost, "/room", params, &room); err != nil {
		return nil, fmt.Errorf("failed to create room %q: %w", name, err)
	}
	return &room, nil
}

// DeleteRoom removes one room.
func (c *Client) DeleteRoom(ctx context.Context, roomID string) error {
	return c.call(ctx, http.MethodDelete, "/room/"+roomID, c.params(), nil)
}

// Spaces lists every table of the convention.
func (c *Client) Spaces(ctx context.Context, conventionID string) ([]Space, error) {
	return drain[Space](ctx, c, "/convention/"+conventionID+"/spaces", c.params())
}

// CreateSpace registers one physical table within a room.
func (c *Client) CreateSpace(ctx context.Context, conventionID, roomID, name string, maxTickets int) (*Space, error) {
	params := c.params()
	params.Set("convention_id", conventionID)
	params.Set("room_id", roomID)
	params.Set("name", name)
	params.Set("max_tickets", strconv.Itoa(maxTickets))

	var space Space
	if err := c.call(ctx, http.MethodPost, "/space", params, &space); err != nil {
		return nil, fmt.Errorf("failed to create space %q: %w", name, err)
	}
	return &space, nil
}

// DeleteSpace removes one table.
func (c *Client) DeleteSpace(ctx context.Context, spaceID string) error {
	return c.call(ctx, http.MethodDelete, "/space/"+spaceID, c.params(), nil)
}

// Slots lists every reservation cell of the convention.
func (c *Client) Slots(ctx context.Context, conventionID string) ([]Slot, error) {
	return drain[Slot](ctx, c, "/convention/"+conventionID+"/slots", c.params())
}

// ReserveSlot assigns one cell to an event through the slot-update call.
func (c *Client) ReserveSlot(ctx context.Context, slotID, eventID string) error {
	params := c.params()
	params.Set("event_id", eventID)

	var slot Slot
	if err := c.call(ctx, http.MethodPut, "/slot/"+slotID, params, &slot); err != nil {
		return fmt.Errorf("failed to reserve slot %s: %w", slotID, err)
	}
	return nil
}
