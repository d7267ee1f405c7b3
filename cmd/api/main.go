package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/octobees/fitness-studio/api/internal/auth"
	"github.com/octobees/fitness-studio/api/internal/cache"
	"github.com/octobees/fitness-studio/api/internal/config"
	"github.com/octobees/fitness-studio/api/internal/database"
	"github.com/octobees/fitness-studio/api/internal/handler"
	"github.com/octobees/fitness-studio/api/internal/logger"
	middlewarepkg "github.com/octobees/fitness-studio/api/internal/middleware"
	"github.com/octobees/fitness-studio/api/internal/notify"
	"github.com/octobees/fitness-studio/api/internal/repository"
	"github.com/octobees/fitness-studio/api/internal/router"
	"github.com/octobees/fitness-studio/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger settings come from the config, so fall back to a default one
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	log := logger.New(cfg.LogLevel, cfg.Env)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			log.Fatal("failed to migrate database", zap.Error(err))
		}
	}
	if cfg.SeedSampleData {
		seeded, err := database.Seed(ctx, pool, time.Now(), cfg.Location)
		if err != nil {
			log.Fatal("failed to seed sample data", zap.Error(err))
		}
		log.Info("sample data", zap.Bool("seeded", seeded))
	}

	var eventCache cache.EventListCache = cache.Noop{}
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("failed to connect redis", zap.Error(err))
		}
		defer client.Close()
		eventCache = cache.NewRedisEventListCache(client, cfg.EventCacheTTL, log)
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.NotifyWebhookURL != "" {
		webhook, err := notify.NewWebhookClient(nil, cfg.NotifyWebhookURL)
		if err != nil {
			log.Fatal("failed to configure enrollment webhook", zap.Error(err))
		}
		notifier = webhook
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	contacts := service.NewContactNormalizer(cfg.DefaultPhoneRegion)

	usersRepo := repository.NewPGXUsersRepository(pool)
	trainersRepo := repository.NewPGXTrainersRepository(pool)
	classesRepo := repository.NewPGXFitnessClassesRepository(pool)
	eventsRepo := repository.NewPGXGymEventsRepository(pool)

	authService := service.NewAuthService(usersRepo, jwtManager)
	userService := service.NewUserService(usersRepo, contacts, log)
	trainerService := service.NewTrainerService(trainersRepo, contacts, log)
	classService := service.NewFitnessClassService(classesRepo, log)
	userService.SetEventCache(eventCache)
	trainerService.SetEventCache(eventCache)
	classService.SetEventCache(eventCache)
	eventService := service.NewGymEventService(eventsRepo, classesRepo, userService,
		service.WithLogger(log),
		service.WithLocation(cfg.Location),
		service.WithEventCache(eventCache),
		service.WithNotifier(notifier),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(log))
	e.Use(middlewarepkg.Metrics())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Auth:           handler.NewAuthHandler(authService),
		Users:          handler.NewUserHandler(userService),
		Trainers:       handler.NewTrainerHandler(trainerService),
		FitnessClasses: handler.NewFitnessClassHandler(classService),
		GymEvents:      handler.NewGymEventHandler(eventService, cfg.Location),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := eventService.Drain(shutdownCtx); err != nil {
		log.Warn("enrollment notifications dropped", zap.Error(err))
	}
}
