package tteclient

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Volunteers lists the convention's volunteer roster.
func (c *Client) Volunteers(ctx context.Context, conventionID string) ([]Volunteer, error) {
	params := c.params()
	params.Set("convention_id", conventionID)
	return drain[Volunteer](ctx, c, "/convention/"+conventionID+"/volunteers", params)
}

// VolunteerShifts lists one volunteer's shift applications.
func (c *Client) VolunteerShifts(ctx context.Context, conventionID, volunteerID string) ([]VolunteerShift, error) {
	params := c.params()
	params.Set("volunteer_id", volunteerID)
	return drain[VolunteerShift](ctx, c, "/convention/"+conventionID+"/volunteershifts", params)
}

// UserEvents lists the events a user is already hosting.
func (c *Client) UserEvents(ctx context.Context, conventionID, userID string) ([]Event, error) {
	params := c.params()
	params.Set("convention_id", conventionID)
	return drain[Event](ctx, c, "/user/"+userID+"/events", params)
}

// FindUser looks a platform account up by email. A miss returns nil, not
// an error.
func (c *Client) FindUser(ctx context.Context, email string) (*User, error) {
	params := c.params()
	params.Set("query", email)

	users, err := drain[User](ctx, c, "/user", params)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %s: %w", email, err)
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	if len(users) > 0 {
		return &users[0], nil
	}
	return nil, nil
}

// AddVolunteer registers a volunteer on the organizer's behalf.
func (c *Client) AddVolunteer(ctx context.Context, conventionID, email, firstName, lastName string) (*Volunteer, error) {
	params := c.params()
	params.Set("convention_id", conventionID)
	params.Set("email_address", email)
	params.Set("firstname", firstName)
	params.Set("lastname", lastName)

	var volunteer Volunteer
	if err := c.call(ctx, http.MethodPost, "/volunteer/by-organizer", params, &volunteer); err != nil {
		return nil, fmt.Errorf("failed to add volunteer %s: %w", email, err)
	}
	return &volunteer, nil
}

// DeleteVolunteer removes one volunteer from the convention.
func (c *Client) DeleteVolunteer(ctx context.Context, volunteerID string) error {
	return c.call(ctx, http.MethodDelete, "/volunteer/"+volunteerID, c.params(), nil)
}

// ShiftTypes lists the convention's shift types.
func (c *Client) ShiftTypes(ctx context.Context, conventionID string) ([]ShiftType, error) {
	return drain[ShiftType](ctx, c, "/convention/"+conventionID+"/shifttypes", c.params())
}

// CreateShiftType registers a shift type by name.
func (c *Client) CreateShiftType(ctx context.Context, conventionID, name string) (*ShiftType, error) {
	params := c.params()
	params.Set("convention_id", conventionID)
	params.Set("name", name)

	var shiftType ShiftType
	if err := c.call(ctx, http.MethodPost, "/shifttype", params, &shiftType); err != nil {
		return nil, fmt.Errorf("failed to create shift type %q: %w", name, err)
	}
	return &shiftType, nil
}

// Shifts lists the convention's volunteer shifts.
func (c *Client) Shifts(ctx context.Context, conventionID string) ([]Shift, error) {
	params := c.params()
	params.Set("_include_related_objects", "shifttype")
	return drain[Shift](ctx, c, "/convention/"+conventionID+"/shifts", params)
}

// CreateShift posts one volunteer shift against a convention day.
func (c *Client) CreateShift(ctx context.Context, conventionID, dayID, shiftTypeID, name string, start, end time.Time) (*Shift, error) {
	params := c.params()
	params.Set("convention_id", conventionID)
	params.Set("conventionday_id", dayID)
	params.Set("shifttype_id", shiftTypeID)
	params.Set("name", name)
	params.Set("quantity_of_volunteers", "255")
	params.Set("start_time", FormatWire(start))
	params.Set("end_time", FormatWire(end))

	var shift Shift
	if err := c.call(ctx, http.MethodPost, "/shift", params, &shift); err != nil {
		return nil, fmt.Errorf("failed to create shift %q: %w", name, err)
	}
	return &shift, nil
}

// DeleteShift removes one shift.
func (c *Client) DeleteShift(ctx context.Context, shiftID string) error {
	return c.call(ctx, http.MethodDelete, "/shift/"+shiftID, c.params(), nil)
}
