package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/kyc-backend/internal/config"
	"github.com/ignatzorin/kyc-backend/internal/db"
	httpHandlers "github.com/ignatzorin/kyc-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/kyc-backend/internal/http/router"
	"github.com/ignatzorin/kyc-backend/internal/logger"
	"github.com/ignatzorin/kyc-backend/internal/repository"
	"github.com/ignatzorin/kyc-backend/internal/service"
	"github.com/ignatzorin/kyc-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к PostgreSQL и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Подключение к MongoDB. Документное хранилище обязательно:
	// без него регистрация и верификация не работают.
	mongoConn, err := db.NewMongo(ctx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("main: ошибка подключения к MongoDB: %v", err)
	}
	defer safeCloseMongo(mongoConn)

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	tokenRepo := repository.NewTokenRepository(dbConn)
	documentRepo := repository.NewDocumentRepository(mongoConn)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	registrationService := service.NewRegistrationService(userRepo, documentRepo, tokenManager, cfg.MaxPhotoSizeMB)
	verifyTokenService := service.NewVerifyTokenService(tokenRepo, userRepo, cfg.PublicBaseURL)
	kycService := service.NewKYCService(tokenRepo, userRepo, documentRepo)
	userService := service.NewUserService(userRepo, documentRepo)

	// Вебсокеты: доставка итогов верификации ожидающим устройствам.
	hub := ws.NewHub(ctx)
	go hub.Run()
	kycService.SetNotifier(ws.NewOutcomeBroadcaster(hub))

	// HTTP хэндлеры.
	kycHandler := httpHandlers.NewKYCHandler(registrationService, verifyTokenService, kycService, userService)
	authHandler := httpHandlers.NewAuthHandler(authService)
	wsHandler := httpHandlers.NewWSHandler(hub, verifyTokenService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn, mongoConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, kycHandler, authHandler, wsHandler, healthHandler, tokenManager)

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

// safeCloseMongo закрывает соединение с MongoDB.
func safeCloseMongo(m *db.Mongo) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.Close(ctx); err != nil {
		log.Printf("main: ошибка закрытия MongoDB: %v", err)
	}
}
