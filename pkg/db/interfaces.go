package db

import "context"

// ConventionStore defines the cache operations for convention records.
type ConventionStore interface {
	GetConvention(ctx context.Context, conventionID string) (*Convention, error)
	UpsertConvention(ctx context.Context, convention *Convention) error
	DeleteConvention(ctx context.Context, conventionID string) error
}

// VolunteerStore defines the cache operations for roster records.
type VolunteerStore interface {
	GetVolunteers(ctx context.Context, conventionID string) ([]Volunteer, error)
	UpsertVolunteers(ctx context.Context, volunteers []Volunteer) error
}

// Store is the full cache surface the services depend on.
type Store interface {
	ConventionStore
	VolunteerStore
}
