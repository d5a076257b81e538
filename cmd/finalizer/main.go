package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/database"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/modules/notification"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/modules/reservation"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/repository"
)

// One-shot finalizer sweep, for cron setups that prefer an external
// scheduler over the in-process one.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	reservationRepo := repository.NewReservationRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationService := notification.NewService(repository.NewNotificationRepository(db))

	f := reservation.NewFinalizer(reservationRepo, resourceRepo, historyRepo, notificationService, userRepo)

	n, err := f.Run(context.Background())
	if err != nil {
		log.Fatalf("finalizer sweep failed: %v", err)
	}
	log.Printf("finalizer sweep completed: finalizadas=%d", n)
}
