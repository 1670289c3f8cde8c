package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/larsvdm/fieldtrack/internal/api"
	"github.com/larsvdm/fieldtrack/internal/api/handler"
	"github.com/larsvdm/fieldtrack/internal/config"
	"github.com/larsvdm/fieldtrack/internal/connector"
	"github.com/larsvdm/fieldtrack/internal/connector/pinion"
	"github.com/larsvdm/fieldtrack/internal/connector/roamler"
	"github.com/larsvdm/fieldtrack/internal/connector/wiser"
	"github.com/larsvdm/fieldtrack/internal/domain"
	"github.com/larsvdm/fieldtrack/internal/logger"
	"github.com/larsvdm/fieldtrack/internal/repository"
	"github.com/larsvdm/fieldtrack/internal/service"
	"github.com/larsvdm/fieldtrack/internal/storage"
	"github.com/larsvdm/fieldtrack/internal/targets"
)

func main() {
	// CONFIG_PATH supports production deployments with mounted config files
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(logger.LoadFromEnv())
	logger.SetDefault(appLogger)
	defer logger.Sync()

	db, err := repository.InitDB(&cfg.Database, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	snapshotRepo := repository.NewSnapshotRepository(db)

	var objectStorage storage.ObjectStorage
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3Storage(&cfg.Storage)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize object storage")
		}
		if err := s3.EnsureBucket(context.Background()); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
		}
		objectStorage = s3
	}

	targetStore, err := targets.Load(cfg.Tracker.TargetsPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load targets")
	}

	roamlerClient := roamler.NewClient(nil, appLogger)
	roamlerConn := roamler.NewConnector(roamlerClient, nil, &roamler.Config{
		Workers: cfg.Roamler.Workers,
	}, appLogger)

	connectors := []connector.Connector{
		roamlerConn,
		wiser.New(wiser.Config{
			BaseURL:    cfg.Wiser.BaseURL,
			APIKey:     cfg.Wiser.APIKey,
			ManualPath: cfg.Wiser.ManualPath,
		}, appLogger),
		pinion.New(pinion.Config{
			BaseURL:    cfg.Pinion.BaseURL,
			APIKey:     cfg.Pinion.APIKey,
			ManualPath: cfg.Pinion.ManualPath,
		}, appLogger),
	}

	tracker := service.NewTracker(connectors, service.TrackerOptions{
		Targets:   targetStore,
		Snapshots: snapshotRepo,
		CacheTTL:  cfg.Tracker.CacheTTL,
		DefaultWindow: domain.Window{
			From: cfg.Roamler.DateFrom,
			To:   cfg.Roamler.DateTo,
		},
	}, appLogger)

	router := api.SetupRouter(&cfg.Server, api.Dependencies{
		Tracker:   tracker,
		Jobs:      roamlerConn,
		Snapshots: snapshotRepo,
		Export:    handler.NewExportHandler(tracker, objectStorage, cfg.Tracker.ExportKey),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
