package tteclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// EventTypes lists the convention's event-type catalog.
func (c *Client) EventTypes(ctx context.Context, conventionID string) ([]EventType, error) {
	params := c.params()
	params.Set("_include", "custom_fields")
	return drain[EventType](ctx, c, "/convention/"+conventionID+"/eventtypes", params)
}

// CreateEventType registers a new event type. A non-empty tier adds the
// platform's tier custom field to the type.
func (c *Client) CreateEventType(ctx context.Context, conventionID, name, tier string) (*EventType, error) {
	params := c.params()
	params.Set("convention_id", conventionID)
	params.Set("name", name)
	params.Set("limit_volunteers", "0")
	params.Set("max_tickets", "6")
	params.Set("user_submittable", "0")
	params.Set("default_cost_per_slot", "0")
	params.Set("limit_ticket_availability", "0")
	if tier != "" {
		params.Set("custom_fields", "tier")
	}

	var eventType EventType
	if err := c.call(ctx, http.MethodPost, "/eventtype", params, &eventType); err != nil {
		return nil, fmt.Errorf("failed to create event type %q: %w", name, err)
	}
	return &eventType, nil
}

// BindEventTypeRoom allows an event type into a room.
func (c *Client) BindEventTypeRoom(ctx context.Context, conventionID, eventTypeID, roomID string) error {
	params := c.params()
	params.Set("convention_id", conventionID)
	params.Set("eventtype_id", eventTypeID)
	params.Set("room_id", roomID)

	var binding struct {
		ID string `json:"id"`
	}
	if err := c.call(ctx, http.MethodPost, "/eventtyperoom", params, &binding); err != nil {
		return fmt.Errorf("failed to bind event type %s to room %s: %w", eventTypeID, roomID, err)
	}
	return nil
}

// Events lists the convention's events.
func (c *Client) Events(ctx context.Context, conventionID string) ([]Event, error) {
	params := c.params()
	params.Set("_include_relationships", "1")
	params.Set("_include", "hosts")
	return drain[Event](ctx, c, "/convention/"+conventionID+"/events", params)
}

// CreateEventParams carries everything the event-creation endpoint needs.
type CreateEventParams struct {
	ConventionID   string
	Name           string
	TypeID         string
	DayID          string
	Duration       int // minutes
	StartDayPartID string
	Tier           string // empty when no tier requirement
}

// CreateEvent posts one event with the start daypart doubling as the
// alternate, matching how the original organizer tooling fills the form.
func (c *Client) CreateEvent(ctx context.Context, p CreateEventParams) (*Event, error) {
	params := c.params()
	params.Set("convention_id", p.ConventionID)
	params.Set("name", p.Name)
	params.Set("max_tickets", "6")
	params.Set("priority", "3")
	params.Set("age_range", "all")
	params.Set("type_id", p.TypeID)
	params.Set("conventionday_id", p.DayID)
	params.Set("duration", strconv.Itoa(p.Duration))
	params.Set("preferreddaypart_id", p.StartDayPartID)
	params.Set("alternatedaypart_id", p.StartDayPartID)
	if p.Tier != "" {
		params.Set("custom_fields.tier", p.Tier)
	}

	var event Event
	if err := c.call(ctx, http.MethodPost, "/event", params, &event); err != nil {
		return nil, fmt.Errorf("failed to create event %q: %w", p.Name, err)
	}
	return &event, nil
}

// EventDayParts lists the dayparts an event spans.
func (c *Client) EventDayParts(ctx context.Context, eventID string) ([]DayPart, error) {
	params := c.params()
	params.Set("_include_relationships", "1")
	return drain[DayPart](ctx, c, "/event/"+eventID+"/dayparts", params)
}

// EventSlots lists the slots reserved for an event.
func (c *Client) EventSlots(ctx context.Context, eventID string) ([]Slot, error) {
	return drain[Slot](ctx, c, "/event/"+eventID+"/slots", c.params())
}

// EventHosts lists the hosts bound to an event.
func (c *Client) EventHosts(ctx context.Context, eventID string) ([]Host, error) {
	return drain[Host](ctx, c, "/event/"+eventID+"/hosts", c.params())
}

// BindHost registers a user as host of an event. The platform treats a
// repeat binding of the same pair as a no-op.
func (c *Client) BindHost(ctx context.Context, eventID, userID string) error {
	var host Host
	if err := c.call(ctx, http.MethodPost, "/event/"+eventID+"/host/"+userID, c.params(), &host); err != nil {
		return fmt.Errorf("failed to bind host %s to event %s: %w", userID, eventID, err)
	}
	return nil
}

// DeleteEvent removes one event.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	return c.call(ctx, http.MethodDelete, "/event/"+eventID, c.params(), nil)
}
