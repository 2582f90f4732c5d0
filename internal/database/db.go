package database

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"fridgesearch/internal/models"
)

// Open opens the catalog database. Driver is "sqlite3" or "postgres"; the
// DSN is a file path for sqlite3 and a connection string for postgres.
func Open(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "sqlite3", "postgres":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	return db, nil
}

// Migrate creates or updates the catalog tables read by the matching engine.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.IngredientRecord{},
		&models.Recipe{},
		&models.InventoryItem{},
	).Error
}
