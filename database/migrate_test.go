package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestAutoMigrateCreatesReservations(t *testing.T) {
	utils.InitLogger("error")
	db := openTestDB(t)

	require.NoError(t, AutoMigrate(db))

	m := db.Migrator()
	assert.True(t, m.HasTable("reservations"))
	for _, col := range []string{"customer_name", "phone", "reservation_date", "reservation_time", "party_size", "special_requests", "created_at"} {
		assert.True(t, m.HasColumn(&models.Reservation{}, col), col)
	}

	// idempotent
	require.NoError(t, AutoMigrate(db))
}

func TestPing(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, Ping(context.Background(), db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	assert.Error(t, Ping(context.Background(), db))
}
