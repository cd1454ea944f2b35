package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/reservation-app/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory sqlite database per test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Reservation{}, &models.Table{}))
	return db
}

func intPtr(n int) *int { return &n }

func reservationInput(first, mobile, date, clock string, people int) ReservationInput {
	return ReservationInput{
		FirstName:       first,
		LastName:        "Guest",
		MobileNumber:    mobile,
		ReservationDate: date,
		ReservationTime: clock,
		People:          intPtr(people),
	}
}

func mustCreateReservation(t *testing.T, svc *ReservationService, in ReservationInput) *models.Reservation {
	t.Helper()
	r, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	return r
}

func mustCreateTable(t *testing.T, svc *TableService, name string, capacity int) *models.Table {
	t.Helper()
	table, err := svc.Create(context.Background(), TableInput{TableName: name, Capacity: intPtr(capacity)})
	require.NoError(t, err)
	return table
}
