package database

import (
	"fmt"

	"github.com/yeremiapane/reservation-app/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the reservations and tables schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Reservation{}, &models.Table{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// older schemas were created before the composite index existed
	if !db.Migrator().HasIndex(&models.Reservation{}, "idx_reservations_date_time") {
		if err := db.Migrator().CreateIndex(&models.Reservation{}, "idx_reservations_date_time"); err != nil {
			return fmt.Errorf("create reservation date index: %w", err)
		}
	}
	return nil
}
