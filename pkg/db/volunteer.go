package db

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"
)

// GetVolunteers retrieves the cached roster for one convention, in a
// stable import order.
func (db *DB) GetVolunteers(ctx context.Context, conventionID string) ([]Volunteer, error) {
	var volunteers []Volunteer
	err := db.gorm.WithContext(ctx).
		Where("convention_id = ?", conventionID).
		Order("id").
		Find(&volunteers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteers for convention %s: %w", conventionID, err)
	}
	return volunteers, nil
}

// UpsertVolunteers inserts or replaces roster records, keyed on the
// convention+email unique index so a re-import refreshes in place.
func (db *DB) UpsertVolunteers(ctx context.Context, volunteers []Volunteer) error {
	if len(volunteers) == 0 {
		return nil
	}
	err := db.gorm.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "convention_id"}, {Name: "email"}},
			UpdateAll: true,
		}).
		Create(&volunteers).Error
	if err != nil {
		return fmt.Errorf("failed to upsert %d volunteers: %w", len(volunteers), err)
	}
	return nil
}
