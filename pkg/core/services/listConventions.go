// Package services wires the scheduling core to the platform client
// and the local cache. Each service is one CLI operation: it fetches
// what it needs, runs the pure core where there is one, and reports
// what happened.
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roleinit/conscheduler/internal/config"
	"github.com/roleinit/conscheduler/pkg/clients/tteclient"
)

// ConventionLister defines the client operations needed to list conventions.
type ConventionLister interface {
	GroupConventions(ctx context.Context, groupID string) ([]tteclient.ConventionSummary, error)
}

// ListConventions returns the organizer group's conventions.
func ListConventions(ctx context.Context, client ConventionLister, cfg *config.Config, logger *zap.Logger) ([]tteclient.ConventionSummary, error) {
	logger.Debug("Fetching group conventions", zap.String("group_id", cfg.GroupID))

	conventions, err := client.GroupConventions(ctx, cfg.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conventions: %w", err)
	}

	logger.Info("Fetched conventions", zap.Int("count", len(conventions)))
	return conventions, nil
}
