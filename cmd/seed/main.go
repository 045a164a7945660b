package main

import (
	"context"
	"time"

	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/database"
	"github.com/yeremiapane/reservation-app/repository"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	utils.InitLogger(cfg.LogLevel)

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	svc := services.NewReservationService(repository.NewReservationRepository(db))
	drafts := sampleReservations(time.Now())

	utils.InfoLogger.Printf("Inserting %d sample reservations...", len(drafts))
	n, err := svc.Seed(context.Background(), drafts)
	if err != nil {
		utils.ErrorLogger.Fatalf("Seeding stopped after %d rows: %v", n, err)
	}
	utils.InfoLogger.Printf("Added %d reservations to the database.", n)
}
