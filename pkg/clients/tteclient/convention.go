package tteclient

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// GroupConventions lists every convention managed by the organizer group.
func (c *Client) GroupConventions(ctx context.Context, groupID string) ([]ConventionSummary, error) {
	return drain[ConventionSummary](ctx, c, "/group/"+groupID+"/conventions", c.params())
}

// GetConvention fetches a convention with its relationship map included.
func (c *Client) GetConvention(ctx context.Context, conventionID string) (*Convention, error) {
	params := c.params()
	params.Set("_include_relationships", "1")
	params.Set("_include", "description")

	var convention Convention
	if err := c.call(ctx, http.MethodGet, "/convention/"+conventionID, params, &convention); err != nil {
		return nil, fmt.Errorf("failed to fetch convention %s: %w", conventionID, err)
	}
	return &convention, nil
}

// ConventionTimezone resolves the convention's IANA timezone through its
// geolocation.
func (c *Client) ConventionTimezone(ctx context.Context, conventionID string) (*time.Location, error) {
	params := c.params()
	params.Set("_include_related_objects", "geolocation")

	result := struct {
		Geolocation Geolocation `json:"geolocation"`
	}{}
	if err := c.call(ctx, http.MethodGet, "/convention/"+conventionID, params, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch convention geolocation: %w", err)
	}

	loc, err := time.LoadLocation(result.Geolocation.Timezone)
	if err != nil {
		return nil, fmt.Errorf("convention has unknown timezone %q: %w", result.Geolocation.Timezone, err)
	}
	return loc, nil
}

// FindGeolocation queries the platform's location catalog, returning
// nil when nothing matches.
func (c *Client) FindGeolocation(ctx context.Context, query string) (*Geolocation, error) {
	params := c.params()
	params.Set("query", query)
	locations, err := drain[Geolocation](ctx, c, "/geolocation", params)
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, nil
	}
	return &locations[0], nil
}

// CreateGeolocation registers a new location by name.
func (c *Client) CreateGeolocation(ctx context.Context, name string) (*Geolocation, error) {
	params := c.params()
	params.Set("name", name)

	var location Geolocation
	if err := c.call(ctx, http.MethodPost, "/geolocation", params, &location); err != nil {
		return nil, fmt.Errorf("failed to create geolocation %q: %w", name, err)
	}
	return &location, nil
}

// CreateConventionParams carries the fields a new convention needs.
// SlotDuration is fixed at 30 minutes because every duration in the
// scheduler is a whole number of dayparts.
type CreateConventionParams struct {
	GroupID       string
	Name          string
	GeolocationID string
	Description   string
	EmailAddress  string
	PhoneNumber   string
}

// CreateConvention posts a new convention under the organizer group.
func (c *Client) CreateConvention(ctx context.Context, p CreateConventionParams) (*Convention, error) {
	params := c.params()
	params.Set("group_id", p.GroupID)
	params.Set("name", p.Name)
	params.Set("geolocation_id", p.GeolocationID)
	params.Set("slot_duration", "30")
	params.Set("generic_ticket_price", "0")
	if p.Description != "" {
		params.Set("description", p.Description)
	}
	if p.EmailAddress != "" {
		params.Set("email_address", p.EmailAddress)
	}
	if p.PhoneNumber != "" {
		params.Set("phone_number", p.PhoneNumber)
	}

	var convention Convention
	if err := c.call(ctx, http.MethodPost, "/convention", params, &convention); err != nil {
		return nil, fmt.Errorf("failed to create convention %q: %w", p.Name, err)
	}
	return &convention, nil
}

// Days lists the convention's days.
func (c *Client) Days(ctx context.Context, conventionID string) ([]Day, error) {
	return drain[Day](ctx, c, "/convention/"+conventionID+"/days", c.params())
}

// CreateDay posts one convention day. Start and end are UTC instants.
func (c *Client) CreateDay(ctx context.Context, conventionID, name string, start, end time.Time) (*Day, error) {
	params := c.params()
	params.Set("convention_id", conventionID)
	params.Set("name", name)
	params.Set("day_type", "events")
	params.Set("start_date", FormatWire(start))
	params.Set("end_date", FormatWire(end))
	params.Set("attendee_start_date", FormatWire(start))
	params.Set("attendee_end_date", FormatWire(end))

	var day Day
	if err := c.call(ctx, http.MethodPost, "/conventionday", params, &day); err != nil {
		return nil, fmt.Errorf("failed to create day %q: %w", name, err)
	}
	return &day, nil
}

// DayParts lists every daypart of the convention.
func (c *Client) DayParts(ctx context.Context, conventionID string) ([]DayPart, error) {
	return drain[DayPart](ctx, c, "/convention/"+conventionID+"/dayparts", c.params())
}

// CreateDayPart posts one 30-minute daypart against a day.
func (c *Client) CreateDayPart(ctx context.Context, conventionID, dayID, name string, start time.Time) (*DayPart, error) {
	params := c.params()
	params.Set("convention_id", conventionID)
	params.Set("conventionday_id", dayID)
	params.Set("name", name)
	params.Set("start_date", FormatWire(start))

	var dayPart DayPart
	if err := c.call(ctx, http.MethodPost, "/daypart", params, &dayPart); err != nil {
		return nil, fmt.Errorf("failed to create daypart %q: %w", name, err)
	}
	return &dayPart, nil
}

// DeleteDayPart removes one daypart.
func (c *Client) DeleteDayPart(ctx context.Context, dayPartID string) error {
	return c.call(ctx, http.MethodDelete, "/daypart/"+dayPartID, c.params(), nil)
}
