package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"flightops/aerodata/internal/logging"
	gormmodels "flightops/aerodata/internal/models/gorm"
)

var PgDB *gorm.DB

// InitORM opens the GORM connection backing the airport cache and migrates its
// schema. A non-empty sqlitePath selects the embedded profile instead of Postgres.
func InitORM(dsn, sqlitePath string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	if sqlitePath != "" {
		db, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite at %s: %w", sqlitePath, err)
		}
		logging.Info("Opened embedded sqlite store", "path", sqlitePath)
	} else {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		logging.Info("Connected to Postgres via GORM")
	}

	if err := db.AutoMigrate(&gormmodels.AirportCache{}); err != nil {
		return nil, fmt.Errorf("failed to migrate airport cache schema: %w", err)
	}

	PgDB = db
	return db, nil
}
