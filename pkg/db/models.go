package db

import "time"

// Convention caches the layout imported for one convention: which
// dayparts each slot-matrix column covers, and the table configuration
// used when the layout was pushed to the platform. Both are JSON blobs
// because the engine consumes them whole.
type Convention struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Timezone     string `gorm:"not null"`
	SlotDayParts string
	TableConfig  string
	SyncedAt     time.Time
}

// Volunteer caches one roster row imported from the volunteer CSV:
// identity, capability tiers, and the slot-matrix columns the
// volunteer marked themselves available for.
type Volunteer struct {
	ID           string `gorm:"primaryKey"`
	ConventionID string `gorm:"uniqueIndex:idx_convention_email;not null"`
	Email        string `gorm:"uniqueIndex:idx_convention_email;not null"`
	Name         string `gorm:"not null"`
	Role         string
	Hours        int
	Tiers        string
	SlotNumbers  string
}
