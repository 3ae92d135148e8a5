package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"expedition/cfg"
	"expedition/internal/trip"
	"expedition/pkg/cache"
	"expedition/pkg/idgen"
	"expedition/pkg/logger"
	"expedition/pkg/ratelimit"
	"expedition/pkg/telemetry"
	"expedition/pkg/tripapi"
)

// @title           Expedition Trip API
// @version         1.0
// @description     API service for searching and filtering expedition and cruise trips.
// @BasePath        /
// @schemes         http
func main() {
	// ============
	// config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLog(config.AppEnv)

	// ============
	// Otel
	// ============
	shutdownOtel, err := telemetry.Init(context.Background(), &config.Observability)
	if err != nil {
		zlogger.Warn("failed to initialize OpenTelemetry, continuing without tracing", logger.Err(err))
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOtel(ctx); err != nil {
				zlogger.Error("failed to shutdown OpenTelemetry", logger.Err(err))
			}
		}()
	}

	// ============
	// Cache
	// ============
	redisAddr := config.RedisConfig.Host + ":" + config.RedisConfig.Port
	redis := cache.NewRedisCache(redisAddr, config.RedisConfig.Password)

	// ============
	// ID generator
	// ============
	ids, err := idgen.NewSnowflakeGenerator(config.NodeID)
	if err != nil {
		log.Fatal(err)
	}

	// ============
	// External Service
	// ============
	bounds := trip.PriceBounds{Min: config.MinPrice, Max: config.MaxPrice}
	limiter := ratelimit.NewEndpointLimiter(ratelimit.Config{
		RequestsPerSecond: config.BookingAPIConfig.RequestsPerSecond,
		BurstSize:         config.BookingAPIConfig.Burst,
	})
	httpClient := &http.Client{
		Timeout: time.Duration(config.BookingAPIConfig.TimeoutSeconds) * time.Second,
	}
	expeditionClient := tripapi.NewClient(httpClient, config.BookingAPIConfig.BaseURL,
		trip.ExpeditionProfile(), bounds, limiter, zlogger)
	cruiseClient := tripapi.NewClient(httpClient, config.BookingAPIConfig.BaseURL,
		trip.CruiseProfile(), bounds, limiter, zlogger)

	// ============
	// Internal Service
	// ============
	expeditionSvc := trip.NewService(expeditionClient, redis, config.CacheTTLMinutes, ids, zlogger)
	cruiseSvc := trip.NewService(cruiseClient, redis, config.CacheTTLMinutes, ids, zlogger)

	codec := trip.Codec{Bounds: bounds}
	tripHandler := trip.NewTripHandler(map[string]trip.Listing{
		"expedition": {Service: expeditionSvc, Profile: expeditionClient.Profile()},
		"cruise":     {Service: cruiseSvc, Profile: cruiseClient.Profile()},
	}, codec, config.PageSize)

	// ============
	// HTTP
	// ============
	r := gin.Default()
	r.Use(otelgin.Middleware(config.Observability.ServiceName))
	r.Use(telemetry.TraceLoggerMiddleware(zlogger))

	tripHandler.RegisterRoutes(r)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	addr := fmt.Sprintf(":%s", config.AppPort)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
