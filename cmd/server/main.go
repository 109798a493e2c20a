package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dailyhire/backend/internal/config"
	"github.com/dailyhire/backend/internal/db"
	httpHandlers "github.com/dailyhire/backend/internal/http/handlers"
	httpRouter "github.com/dailyhire/backend/internal/http/router"
	"github.com/dailyhire/backend/internal/logger"
	"github.com/dailyhire/backend/internal/repository"
	"github.com/dailyhire/backend/internal/service"
	"github.com/dailyhire/backend/internal/storage"
	"github.com/dailyhire/backend/internal/ws"
)

func main() {
	// Контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	fileStorage, err := storage.NewFileStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	workerRepo := repository.NewWorkerRepository(dbConn)
	bookingRepo := repository.NewBookingRepository(dbConn)
	availabilityRepo := repository.NewAvailabilityRepository(dbConn)
	messageRepo := repository.NewMessageRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	catalogRepo := repository.NewCatalogRepository(dbConn)
	mediaRepo := repository.NewMediaRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	notificationService := service.NewNotificationService(notificationRepo)
	reviewService := service.NewReviewService(reviewRepo, bookingRepo)
	workerService := service.NewWorkerService(workerRepo, userRepo, bookingRepo, reviewService)
	availabilityService := service.NewAvailabilityService(availabilityRepo, userRepo)
	bookingService := service.NewBookingService(bookingRepo, workerRepo, availabilityRepo, userRepo)
	messageService := service.NewMessageService(messageRepo, bookingRepo, userRepo, mediaRepo)

	// Вебсокеты.
	hub := ws.NewHub(ctx)
	hub.SetEventSaver(notificationService)
	go hub.Run()

	bookingService.SetHub(hub)
	messageService.SetHub(hub)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(authService)
	workerHandler := httpHandlers.NewWorkerHandler(workerService, reviewService)
	availabilityHandler := httpHandlers.NewAvailabilityHandler(availabilityService)
	bookingHandler := httpHandlers.NewBookingHandler(bookingService, messageService, reviewService)
	messageHandler := httpHandlers.NewMessageHandler(messageService)
	catalogHandler := httpHandlers.NewCatalogHandler(catalogRepo)
	mediaHandler := httpHandlers.NewMediaHandler(mediaRepo, fileStorage)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		profileHandler,
		workerHandler,
		availabilityHandler,
		bookingHandler,
		messageHandler,
		catalogHandler,
		mediaHandler,
		notificationHandler,
		wsHandler,
		healthHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
