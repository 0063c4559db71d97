// Package db is the local cache between CSV imports and scheduling
// runs. Imports land here first; a scheduling run reads the cached
// layout and roster back out so a crashed run can restart without
// re-parsing anything.
package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB provides cache operations over a local sqlite file.
type DB struct {
	gorm *gorm.DB
}

// Open opens (creating if needed) the sqlite cache at path and
// migrates the schema.
func Open(path string) (*DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache at %s: %w", path, err)
	}

	if err := gdb.AutoMigrate(&Convention{}, &Volunteer{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cache schema: %w", err)
	}

	return &DB{gorm: gdb}, nil
}
