package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/opticore/lenscard-backend/api/routes"
	"github.com/opticore/lenscard-backend/internal/prescriptions"
	"github.com/opticore/lenscard-backend/internal/session"
	"github.com/opticore/lenscard-backend/pkg/config"
	"github.com/opticore/lenscard-backend/pkg/db"
	"github.com/opticore/lenscard-backend/pkg/logger"
	"github.com/opticore/lenscard-backend/pkg/metrics"
	"github.com/opticore/lenscard-backend/pkg/migrate"
	"github.com/opticore/lenscard-backend/pkg/redis"
)

const janitorInterval = 5 * time.Minute

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// Redis only backs the save idempotency guard; the API runs without it.
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, save idempotency guard disabled")
	}

	registry := prometheus.NewRegistry()
	recalcs := metrics.NewRecalcMetrics(registry)

	prescriptionsSvc, err := prescriptions.NewService(
		prescriptions.NewRepository(dbClient.DB()),
		dbClient,
		logg,
		recalcs,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create prescriptions service", err)
		os.Exit(1)
	}

	sessions, err := session.NewService(prescriptionsSvc, logg, recalcs, cfg.Sessions.IdleTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create session service", err)
		os.Exit(1)
	}
	session.StartJanitor(context.Background(), sessions, janitorInterval)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, sessions, prescriptionsSvc),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
