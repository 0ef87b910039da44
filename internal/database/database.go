package database

import (
	"log"

	"github.com/gdg-garage/kursverwaltung/internal/config"
	"github.com/gdg-garage/kursverwaltung/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

// Open connects to the sqlite file at path and migrates the audit tables.
// Tests pass ":memory:".
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Every connection to ":memory:" opens its own empty database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Change{}); err != nil {
		return nil, err
	}

	return db, nil
}
