package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pulsefeed/trending/internal/adapters/cache"
	"github.com/pulsefeed/trending/internal/adapters/config"
	"github.com/pulsefeed/trending/internal/adapters/database"
	"github.com/pulsefeed/trending/internal/adapters/modelstore"
	redisAdapter "github.com/pulsefeed/trending/internal/adapters/redis"
	"github.com/pulsefeed/trending/internal/adapters/signals"
	"github.com/pulsefeed/trending/internal/features"
	"github.com/pulsefeed/trending/internal/forecast"
	"github.com/pulsefeed/trending/internal/health"
	"github.com/pulsefeed/trending/internal/predictor"
	"github.com/pulsefeed/trending/internal/trainer"
	"github.com/pulsefeed/trending/internal/trending"
	"github.com/pulsefeed/trending/internal/workers"
	"github.com/pulsefeed/trending/pkg/logger"
	"github.com/pulsefeed/trending/pkg/models"
	"github.com/pulsefeed/trending/pkg/worker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("trending score engine starting")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(db.Conn(), cfg.Database.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient, err := redisAdapter.New(&cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// Counter queries go to ClickHouse when available, Postgres otherwise
	analyticsDB := db
	if cfg.ClickHouse.Enabled {
		ch, err := initClickHouse(cfg)
		if err != nil {
			logger.Warn("ClickHouse not available, using Postgres for analytics counters", zap.Error(err))
		} else {
			analyticsDB = ch
			defer ch.Close()
		}
	}

	store := signals.NewStore(
		signals.NewRepository(db.DB()),
		signals.NewAnalyticsRepository(analyticsDB.DB()),
	)
	modelRepo := modelstore.NewRepository(db.DB())

	pred, err := initPredictor(ctx, modelRepo)
	if err != nil {
		return err
	}

	extractor := features.NewExtractor(store)
	engine := trending.NewEngine(store, cache.New(redisClient), extractor, pred, cfg.Trending)
	forecaster := forecast.New(store, cfg.Forecast)
	modelTrainer := trainer.New(store, modelRepo, pred, cfg.Trainer)

	// Background jobs: retraining (6h), cache warming (TTL-aligned),
	// keyword forecasting (daily)
	group := worker.NewGroup(ctx)
	group.Add(workers.NewTrainingWorker(modelTrainer, redisClient.NewTrainingLock(cfg.Trainer.LockTTL)), cfg.Trainer.Interval)
	group.Add(workers.NewRefreshWorker(engine), cfg.Trending.RefreshInterval)
	group.Add(workers.NewForecastWorker(forecaster, cfg.Forecast.HorizonDays), cfg.Forecast.Interval)
	group.Start()

	healthServer := health.NewServer(cfg.Health.Port, db, redisClient, pred)
	healthServer.Start()
	healthServer.SetReady(true)

	<-ctx.Done()

	logger.Info("shutting down...")
	group.Stop(30 * time.Second)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("health server shutdown failed", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}

// initClickHouse connects the optional analytics backend
func initClickHouse(cfg *config.Config) (*database.DB, error) {
	ch, err := database.NewClickHouse(cfg.ClickHouse.GetDSN())
	if err != nil {
		return nil, err
	}

	if err := ch.Ping(); err != nil {
		ch.Close()
		return nil, fmt.Errorf("ClickHouse ping failed: %w", err)
	}

	logger.Info("ClickHouse connection established",
		zap.String("host", cfg.ClickHouse.Host),
		zap.String("database", cfg.ClickHouse.Database),
	)

	return ch, nil
}

// initPredictor restores the persisted model, falling back to cold-start
// defaults when none exists
func initPredictor(ctx context.Context, repo *modelstore.Repository) (*predictor.Predictor, error) {
	live := models.DefaultModel()

	persisted, err := repo.Load(ctx)
	if err != nil {
		logger.Warn("failed to load persisted model, using defaults", zap.Error(err))
	} else if persisted != nil {
		live = persisted
		logger.Info("persisted model restored",
			zap.Float64("accuracy", live.Accuracy),
			zap.Time("trained_at", live.LastTrained),
		)
	} else {
		logger.Info("no persisted model, using cold-start defaults")
	}

	return predictor.New(live), nil
}
