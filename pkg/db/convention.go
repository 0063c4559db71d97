package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetConvention retrieves one cached convention record. A cache miss
// returns nil, not an error.
func (db *DB) GetConvention(ctx context.Context, conventionID string) (*Convention, error) {
	var convention Convention
	err := db.gorm.WithContext(ctx).First(&convention, "id = ?", conventionID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get convention %s: %w", conventionID, err)
	}
	return &convention, nil
}

// UpsertConvention inserts or fully replaces one convention record.
func (db *DB) UpsertConvention(ctx context.Context, convention *Convention) error {
	err := db.gorm.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(convention).Error
	if err != nil {
		return fmt.Errorf("failed to upsert convention %s: %w", convention.ID, err)
	}
	return nil
}

// DeleteConvention removes one convention record and its volunteers.
func (db *DB) DeleteConvention(ctx context.Context, conventionID string) error {
	tx := db.gorm.WithContext(ctx)
	if err := tx.Delete(&Volunteer{}, "convention_id = ?", conventionID).Error; err != nil {
		return fmt.Errorf("failed to delete volunteers for convention %s: %w", conventionID, err)
	}
	if err := tx.Delete(&Convention{}, "id = ?", conventionID).Error; err != nil {
		return fmt.Errorf("failed to delete convention %s: %w", conventionID, err)
	}
	return nil
}
