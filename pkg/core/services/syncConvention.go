package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roleinit/conscheduler/pkg/clients/tteclient"
	"github.com/roleinit/conscheduler/pkg/db"
)

// ConventionFetcher defines the client operations needed to sync a convention.
type ConventionFetcher interface {
	GetConvention(ctx context.Context, conventionID string) (*tteclient.Convention, error)
	ConventionTimezone(ctx context.Context, conventionID string) (*time.Location, error)
}

// SyncConvention refreshes the cached identity of one convention: its
// name and the IANA timezone from its geolocation. Layout and roster
// blobs already in the cache are preserved.
func SyncConvention(ctx context.Context, database db.ConventionStore, client ConventionFetcher, logger *zap.Logger, conventionID string) (*db.Convention, error) {
	logger.Info("Syncing convention", zap.String("convention_id", conventionID))

	convention, err := client.GetConvention(ctx, conventionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch convention: %w", err)
	}

	tz, err := client.ConventionTimezone(ctx, conventionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch convention timezone: %w", err)
	}

	record := &db.Convention{
		ID:       convention.ID,
		Name:     convention.Name,
		Timezone: tz.String(),
		SyncedAt: time.Now().UTC(),
	}

	existing, err := database.GetConvention(ctx, conventionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		record.SlotDayParts = existing.SlotDayParts
		record.TableConfig = existing.TableConfig
	}

	if err := database.UpsertConvention(ctx, record); err != nil {
		return nil, err
	}

	logger.Info("Convention synced",
		zap.String("name", record.Name),
		zap.String("timezone", record.Timezone))
	return record, nil
}
