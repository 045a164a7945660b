package database

import (
	"context"
	"fmt"

	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the reservations table.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Reservation{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// Verifikasi tabel dan index
	migrator := db.Migrator()
	if !migrator.HasTable(&models.Reservation{}) {
		return fmt.Errorf("auto migrate: table %s missing after migration", models.Reservation{}.TableName())
	}
	if !migrator.HasIndex(&models.Reservation{}, "idx_reservation_schedule") {
		utils.InfoLogger.Warn("Index idx_reservation_schedule not found after migration")
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// Ping checks that a connection can be taken from the pool.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
