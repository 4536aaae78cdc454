package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stwalsh4118/desiverse/api/internal/handlers"
	"github.com/stwalsh4118/desiverse/api/internal/logger"
	"github.com/stwalsh4118/desiverse/api/internal/metrics"
	"github.com/stwalsh4118/desiverse/api/internal/middleware"
)

// routerDeps holds everything the HTTP layer is built from.
type routerDeps struct {
	log            *logger.Logger
	metrics        *metrics.Metrics
	metricsHandler http.Handler
	corsOrigins    []string
	health         *handlers.HealthHandler
	tourism        *handlers.TourismHandler
	dataset        *handlers.DatasetHandler
}

func setupRouter(d routerDeps) *gin.Engine {
	router := gin.New()

	// Middleware order: RequestID -> Logger -> Recovery -> CORS -> Metrics
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(d.log))
	router.Use(middleware.Recovery(d.log))
	router.Use(middleware.CORS(d.corsOrigins))
	router.Use(middleware.Metrics(d.metrics))

	router.GET("/health", d.health.Health)
	router.GET("/health/ready", d.health.Ready)

	metricsHandler := d.metricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	router.GET("/metrics", gin.WrapH(metricsHandler))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/info", d.health.Info)

		tourism := v1.Group("/tourism")
		{
			tourism.GET("/records", d.tourism.Records)
			tourism.GET("/summary/:dimension", d.tourism.Summary)
			tourism.GET("/stats/:dimension", d.tourism.Stats)
			tourism.GET("/states", d.tourism.States)
		}

		dataset := v1.Group("/dataset")
		{
			dataset.POST("/refresh", d.dataset.Refresh)
		}
	}

	return router
}
