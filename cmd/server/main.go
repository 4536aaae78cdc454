package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/desiverse/api/internal/config"
	"github.com/stwalsh4118/desiverse/api/internal/database"
	"github.com/stwalsh4118/desiverse/api/internal/generator"
	"github.com/stwalsh4118/desiverse/api/internal/handlers"
	"github.com/stwalsh4118/desiverse/api/internal/logger"
	"github.com/stwalsh4118/desiverse/api/internal/metrics"
	"github.com/stwalsh4118/desiverse/api/internal/publisher"
	"github.com/stwalsh4118/desiverse/api/internal/repository"
	"github.com/stwalsh4118/desiverse/api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
	startupTimeout  = 2 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateDatabase()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithLevel(cfg.Server.Env, cfg.Server.LogLevel)
	log.Info("Starting heritage tourism API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	tables, genOpts, err := generator.FromConfig(cfg.Generator)
	if err != nil {
		log.Fatal("Failed to load reference tables", err, map[string]interface{}{
			"reference_file": cfg.Generator.ReferenceFile,
		})
	}

	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	m := metrics.New()

	pub := publisher.New(cfg.Kafka, log)
	defer func() {
		if err := pub.Close(); err != nil {
			log.Error("Failed to close publisher", err, nil)
		}
	}()

	tourismRepo := repository.NewTourismRepository(db)
	tourismService := services.NewTourismService(tourismRepo, tables, cfg.Cache.TTL, cfg.Cache.CleanupInterval, m, log)
	datasetService := services.NewDatasetService(
		func() *generator.Generator { return generator.New(tables, genOpts...) },
		tourismRepo, pub, tourismService, m, nil, log,
	)

	if cfg.Dataset.RefreshOnStart {
		refreshCtx, cancel := context.WithTimeout(ctx, startupTimeout)
		if _, err := datasetService.Refresh(refreshCtx); err != nil {
			log.Error("Initial dataset refresh failed", err, nil)
		}
		cancel()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(routerDeps{
		log:         log,
		metrics:     m,
		corsOrigins: cfg.CORS.Origins,
		health:      handlers.NewHealthHandler(db, tourismRepo, cfg.Server.Env),
		tourism:     handlers.NewTourismHandler(tourismService),
		dataset:     handlers.NewDatasetHandler(datasetService),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
