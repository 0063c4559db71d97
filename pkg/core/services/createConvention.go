package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/roleinit/conscheduler/internal/config"
	"github.com/roleinit/conscheduler/pkg/clients/tteclient"
	"github.com/roleinit/conscheduler/pkg/db"
	"github.com/roleinit/conscheduler/pkg/ingest"
	"github.com/roleinit/conscheduler/pkg/utils/timeutil"
)

// ConventionBootstrapper defines the client operations needed to stand
// a new convention up.
type ConventionBootstrapper interface {
	FindGeolocation(ctx context.Context, query string) (*tteclient.Geolocation, error)
	CreateGeolocation(ctx context.Context, name string) (*tteclient.Geolocation, error)
	CreateConvention(ctx context.Context, p tteclient.CreateConventionParams) (*tteclient.Convention, error)
	ConventionTimezone(ctx context.Context, conventionID string) (*time.Location, error)
	CreateDay(ctx context.Context, conventionID, name string, start, end time.Time) (*tteclient.Day, error)
}

// NewConvention is the organizer's input for a convention bootstrap.
type NewConvention struct {
	Name        string
	Location    string // "City, State" or "City, Country"
	Description string
	PhoneNumber string
	Email       string
}

// CreateConventionResult identifies what the bootstrap created.
type CreateConventionResult struct {
	ConventionID string
	Timezone     string
	Days         int
}

// CreateConvention stands up a new convention on the platform: resolve
// or register the location, create the convention under the organizer
// group with the 30-minute slot duration, and post its days from the
// day sheet. Day times are read in the convention's timezone, which
// follows from the location.
func CreateConvention(
	ctx context.Context,
	database db.ConventionStore,
	client ConventionBootstrapper,
	cfg *config.Config,
	logger *zap.Logger,
	input NewConvention,
	daysFile io.Reader,
) (*CreateConventionResult, error) {
	logger.Info("Creating convention", zap.String("name", input.Name))

	days, err := ingest.ParseDays(daysFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse day sheet: %w", err)
	}

	// Sanity-check the sheet before touching the platform. The real
	// timezone is only known once the convention exists, but format and
	// ordering problems show up regardless of zone.
	for _, day := range days {
		start, err := timeutil.ParseCSV(day.Start, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("day %q: %w", day.Name, err)
		}
		end, err := timeutil.ParseCSV(day.End, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("day %q: %w", day.Name, err)
		}
		if !end.After(start) {
			return nil, fmt.Errorf("day %q ends before it starts", day.Name)
		}
	}

	location, err := client.FindGeolocation(ctx, input.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to look up location: %w", err)
	}
	if location == nil {
		location, err = client.CreateGeolocation(ctx, input.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to register location: %w", err)
		}
		logger.Debug("Registered location", zap.String("name", input.Location))
	}

	convention, err := client.CreateConvention(ctx, tteclient.CreateConventionParams{
		GroupID:       cfg.GroupID,
		Name:          input.Name,
		GeolocationID: location.ID,
		Description:   input.Description,
		EmailAddress:  input.Email,
		PhoneNumber:   input.PhoneNumber,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Convention created", zap.String("convention_id", convention.ID))

	tz, err := client.ConventionTimezone(ctx, convention.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch convention timezone: %w", err)
	}

	for _, day := range days {
		start, err := timeutil.ParseCSV(day.Start, tz)
		if err != nil {
			return nil, fmt.Errorf("day %q: %w", day.Name, err)
		}
		end, err := timeutil.ParseCSV(day.End, tz)
		if err != nil {
			return nil, fmt.Errorf("day %q: %w", day.Name, err)
		}
		if _, err := client.CreateDay(ctx, convention.ID, day.Name, start, end); err != nil {
			return nil, err
		}
		logger.Debug("Created day", zap.String("name", day.Name))
	}

	if err := database.UpsertConvention(ctx, &db.Convention{
		ID:       convention.ID,
		Name:     convention.Name,
		Timezone: tz.String(),
		SyncedAt: time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	return &CreateConventionResult{
		ConventionID: convention.ID,
		Timezone:     tz.String(),
		Days:         len(days),
	}, nil
}
