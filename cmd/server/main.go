package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/koptay/client-portal/internal/api"
	"github.com/koptay/client-portal/internal/core/service"
	"github.com/koptay/client-portal/internal/infrastructure/config"
	mongodb "github.com/koptay/client-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/koptay/client-portal/internal/infrastructure/db/redis"
	"github.com/koptay/client-portal/internal/infrastructure/queue"
	"github.com/koptay/client-portal/internal/infrastructure/storage"
	"github.com/koptay/client-portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zlog := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			zlog.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	userRepo := mongodb.NewUserRepository(db)
	notificationRepo := mongodb.NewNotificationRepository(db)
	if err := ensureIndexes(ctx, db); err != nil {
		zlog.Fatal().Err(err).Msg("index creation failed")
	}

	fileStore, err := storage.NewLocalStore(cfg.UploadsDir)
	if err != nil {
		zlog.Fatal().Err(err).Msg("uploads dir unavailable")
	}

	notificationService := service.NewNotificationService(notificationRepo, zlog)
	dispatcher := queue.NewDispatcher(
		cfg.NotificationWorkers,
		notificationService,
		userRepo,
		redisdb.NewDedupChecker(redisClient),
		zlog,
	)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Mongo:     db,
		Redis:     redisClient,
		Notifier:  dispatcher,
		FileStore: fileStore,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Logger:    zlog,
	})

	go func() {
		zlog.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal().Err(err).Msg("server crashed")
		}
	}()

	<-ctx.Done()
	zlog.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("graceful shutdown error")
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexed := []interface {
		EnsureIndexes(context.Context) error
	}{
		mongodb.NewUserRepository(db),
		mongodb.NewCaseRepository(db),
		mongodb.NewDocumentRepository(db),
		mongodb.NewPaymentRepository(db),
		mongodb.NewNotificationRepository(db),
	}
	for _, repo := range indexed {
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}
