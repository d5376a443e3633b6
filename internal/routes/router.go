package routes

import (
	"context"
	"net/http"
	"time"

	"lab-quality-monitor/internal/config"
	"lab-quality-monitor/internal/delivery/http/handler"
	"lab-quality-monitor/internal/infrastructure/database/postgres"
	"lab-quality-monitor/internal/ingestion"
	"lab-quality-monitor/internal/logger"
	"lab-quality-monitor/internal/middleware"
	"lab-quality-monitor/internal/usecase/device"
	"lab-quality-monitor/internal/usecase/mapping"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// Dependencies are the long-lived components built in main.
type Dependencies struct {
	Config    *config.Config
	DB        *postgres.DB
	Processor *ingestion.Processor
	Gatherer  prometheus.Gatherer
}

func SetupRoutes(deps *Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Warn("Invalid trusted proxy list, trusting none", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware("/health", "/metrics"))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := deps.DB.Health(ctx); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	deviceRepository := postgres.NewDeviceRepository(deps.DB)
	mappingRepository := postgres.NewMappingRepository(deps.DB)
	itemRepository := postgres.NewItemRepository(deps.DB)

	deviceHandler := handler.NewDeviceHandler(device.NewService(deviceRepository))
	mappingHandler := handler.NewMappingHandler(mapping.NewService(mappingRepository, deviceRepository, itemRepository))
	sensorHandler := handler.NewSensorHandler(deps.Processor, deps.Processor, cfg.Sensor.MaxPayloadBytes)

	// Every transmission must reach the raw log, so the firmware endpoint is
	// neither rate limited nor size-rejected here; the handler caps bodies.
	sensor := router.Group("/api")
	{
		sensorHandler.RegisterRoutes(sensor)
	}

	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.RateLimitMiddleware(limiter))
	admin.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	admin.Use(middleware.AdminOnly())
	{
		deviceHandler.RegisterAdminRoutes(admin)
		mappingHandler.RegisterAdminRoutes(admin)
		sensorHandler.RegisterAdminRoutes(admin)
	}

	logger.Info("All routes initialized")
	return router
}
