package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roleinit/conscheduler/pkg/clients/tteclient"
	"github.com/roleinit/conscheduler/pkg/db"
	"github.com/roleinit/conscheduler/pkg/ingest"
)

// VolunteerRegistrar defines the client operations needed to register
// volunteers on the platform.
type VolunteerRegistrar interface {
	FindUser(ctx context.Context, email string) (*tteclient.User, error)
	AddVolunteer(ctx context.Context, conventionID, email, firstName, lastName string) (*tteclient.Volunteer, error)
}

// ImportVolunteersResult summarizes a roster import.
type ImportVolunteersResult struct {
	Imported   int
	Registered int // platform accounts created during the import
}

// ImportVolunteers parses the volunteer availability matrix, makes sure
// every volunteer has a platform account, and caches the roster with
// each volunteer's tier and slot preferences.
func ImportVolunteers(
	ctx context.Context,
	database db.VolunteerStore,
	client VolunteerRegistrar,
	logger *zap.Logger,
	conventionID string,
	r io.Reader,
) (*ImportVolunteersResult, error) {
	logger.Info("Importing volunteers", zap.String("convention_id", conventionID))

	rows, err := ingest.ParseVolunteers(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse volunteers: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("volunteer sheet has no rows")
	}

	result := &ImportVolunteersResult{}
	records := make([]db.Volunteer, 0, len(rows))

	for _, row := range rows {
		user, err := client.FindUser(ctx, row.Email)
		if err != nil {
			return nil, err
		}
		if user == nil {
			first, last := splitName(row.Name)
			if _, err := client.AddVolunteer(ctx, conventionID, row.Email, first, last); err != nil {
				return nil, err
			}
			result.Registered++
			logger.Debug("Registered volunteer on platform", zap.String("email", row.Email))
		}

		slotsJSON, err := json.Marshal(row.SlotNumbers)
		if err != nil {
			return nil, fmt.Errorf("failed to encode slots for %s: %w", row.Email, err)
		}
		records = append(records, db.Volunteer{
			ID:           uuid.New().String(),
			ConventionID: conventionID,
			Email:        row.Email,
			Name:         row.Name,
			Role:         row.Role,
			Hours:        row.Hours,
			Tiers:        fmt.Sprintf("%d", row.Tier),
			SlotNumbers:  string(slotsJSON),
		})
	}

	if err := database.UpsertVolunteers(ctx, records); err != nil {
		return nil, err
	}
	result.Imported = len(records)

	logger.Info("Volunteers imported",
		zap.Int("imported", result.Imported),
		zap.Int("registered", result.Registered))
	return result, nil
}

// splitName breaks a display name into the platform's first/last pair.
// Single-word names get the whole name as both parts rather than an
// empty field the platform rejects.
func splitName(name string) (string, string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], fields[0]
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}
