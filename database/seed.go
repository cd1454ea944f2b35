package database

import (
	"fmt"

	"github.com/yeremiapane/reservation-app/models"
	"gorm.io/gorm"
)

// DefaultTables is the floor plan loaded into an empty database.
var DefaultTables = []models.Table{
	{TableName: "Bar #1", Capacity: 1},
	{TableName: "Bar #2", Capacity: 1},
	{TableName: "#1", Capacity: 6},
	{TableName: "#2", Capacity: 6},
}

// SeedTables inserts DefaultTables unless some table already exists.
// It returns the number of rows created.
func SeedTables(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tables: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tables := make([]models.Table, len(DefaultTables))
	copy(tables, DefaultTables)
	if err := db.Create(&tables).Error; err != nil {
		return 0, fmt.Errorf("seed tables: %w", err)
	}
	return len(tables), nil
}
