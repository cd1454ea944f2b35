package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/models"
	"gorm.io/gorm/logger"
)

func openMemory(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.FromEnv(func(key string) string {
		if key == "DB_DSN" {
			return ":memory:"
		}
		return ""
	})
	require.NoError(t, err)
	return cfg
}

func TestOpenMigrateAndSeed(t *testing.T) {
	db, err := Open(openMemory(t), logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	// running twice is harmless
	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasIndex(&models.Reservation{}, "idx_reservations_date_time"))

	created, err := SeedTables(db)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultTables), created)

	created, err = SeedTables(db)
	require.NoError(t, err)
	assert.Zero(t, created)

	var tables []models.Table
	require.NoError(t, db.Order("table_name").Find(&tables).Error)
	require.Len(t, tables, 4)
	assert.Equal(t, "#1", tables[0].TableName)
	assert.Nil(t, tables[0].ReservationID)
}

func TestDialectorForUnknownDriver(t *testing.T) {
	_, err := dialectorFor("oracle", "dsn")
	assert.Error(t, err)
}

func TestIsMemoryDSN(t *testing.T) {
	assert.True(t, isMemoryDSN(":memory:"))
	assert.True(t, isMemoryDSN("file:test?mode=memory&cache=shared"))
	assert.False(t, isMemoryDSN("reservations.db"))
}
