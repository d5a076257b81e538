package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/config"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/database"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/middleware"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/modules/auth"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/modules/catalog"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/modules/history"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/modules/notification"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/modules/reservation"
	jwtsvc "github.com/Alejandro-Trvn/reservas-universidad-api/internal/pkg/jwt"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	typeRepo := repository.NewResourceTypeRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(typeRepo, resourceRepo, reservationRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	reservationService := reservation.NewService(reservationRepo, resourceRepo, historyRepo, notificationService, userRepo)
	reservationHandler := reservation.NewHandler(reservationService)

	historyService := history.NewService(historyRepo, reservationRepo)
	historyHandler := history.NewHandler(historyService)

	finalizer := reservation.NewFinalizer(reservationRepo, resourceRepo, historyRepo, notificationService, userRepo)
	scheduler, err := startFinalizer(finalizer, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = scheduler.Shutdown() }()

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			reservationHandler.RegisterRoutes(protected)
			historyHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)

			admin := protected.Group("/")
			admin.Use(middleware.AdminOnly())
			catalogHandler.RegisterRoutes(protected, admin)
		}
	}

	log.Printf("listening on :%s env=%s finalizer_interval=%s", cfg.Port, cfg.AppEnv, cfg.FinalizerInterval)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func startFinalizer(f *reservation.Finalizer, cfg *config.RuntimeConfig) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(cfg.FinalizerInterval),
		gocron.NewTask(func() {
			n, err := f.Run(context.Background())
			if err != nil {
				log.Printf("finalizer sweep failed: %v", err)
				return
			}
			if n > 0 {
				log.Printf("finalizer sweep done finalizadas=%d", n)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	s.Start()
	return s, nil
}
