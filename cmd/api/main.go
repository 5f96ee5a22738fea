package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gamassss/linkdash/internal/config"
	"github.com/gamassss/linkdash/internal/geo"
	"github.com/gamassss/linkdash/internal/handler"
	"github.com/gamassss/linkdash/internal/logger"
	"github.com/gamassss/linkdash/internal/metrics"
	"github.com/gamassss/linkdash/internal/middleware"
	"github.com/gamassss/linkdash/internal/repository/postgres"
	redisRepo "github.com/gamassss/linkdash/internal/repository/redis"
	"github.com/gamassss/linkdash/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const version = "1.0.0"

type handlers struct {
	links     *handler.LinkHandler
	redirect  *handler.RedirectHandler
	analytics *handler.AnalyticsHandler
	health    *handler.HealthHandler
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	loggerConfig := logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.OutputPath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}

	if err := logger.Initialize(loggerConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	log := logger.Get()
	log.Info("Starting link dashboard service",
		"port", cfg.Server.Port,
		"log_level", cfg.Log.Level,
	)

	dbPool, err := setupDatabase(cfg)
	if err != nil {
		log.Error("Failed to setup database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	redisClient, err := setupRedis(cfg)
	if err != nil {
		log.Error("Failed to setup redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	linkRepo := postgres.NewLinkRepository(dbPool)
	clickRepo := postgres.NewClickRepository(dbPool)
	linkCache := redisRepo.NewLinkCache(redisClient)
	geoResolver := geo.NewResolver(cfg.Geo.Endpoint, cfg.Geo.Timeout)
	metrics.ObserveBreaker("geo-lookup", geoResolver.State)

	linkService := service.NewLinkService(linkRepo, linkCache, linkCache, service.BulkOptions{
		BatchSize:  cfg.Bulk.BatchSize,
		BatchDelay: cfg.Bulk.BatchDelay,
	})
	redirectService := service.NewRedirectService(linkRepo, linkCache, clickRepo, linkCache, geoResolver)
	analyticsService := service.NewAnalyticsService(linkRepo, clickRepo, cfg.Analytics.ClickSample)

	h := handlers{
		links:     handler.NewLinkHandler(linkService, cfg.Server.BaseURL),
		redirect:  handler.NewRedirectHandler(redirectService),
		analytics: handler.NewAnalyticsHandler(analyticsService),
		health: handler.NewHealthHandler(version, map[string]handler.CheckFunc{
			"database": dbPool.Ping,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		}),
	}

	router := setupRouter(cfg, h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("Server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	gracefulShutdown(srv, cfg.Server.ShutdownTimeout, redirectService, dbPool, redisClient, log)
}

func setupDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	dbConfig := cfg.Database
	poolConfig, err := pgxpool.ParseConfig(dbConfig.URL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(dbConfig.MaxConns)
	poolConfig.MinConns = int32(dbConfig.MinConns)
	poolConfig.MaxConnLifetime = dbConfig.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = dbConfig.MaxConnIdleTime

	return pgxpool.NewWithConfig(context.Background(), poolConfig)
}

func setupRedis(cfg *config.Config) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return redisClient, nil
}

func setupRouter(cfg *config.Config, h handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	// health check
	router.GET("/healthz", h.health.Healthz)
	router.GET("/readyz", h.health.Readyz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api", middleware.Auth([]byte(cfg.Auth.JWTSecret)))
	{
		api.POST("/links", h.links.Create)
		api.POST("/links/bulk", h.links.BulkCreate)
		api.GET("/links", h.links.List)
		api.PATCH("/links/:id", h.links.Rename)
		api.DELETE("/links/:id", h.links.Delete)
		api.POST("/links/:id/toggle", h.links.Toggle)
		api.GET("/links/:id/clicks", h.analytics.LinkClicks)
		api.POST("/links/bulk/toggle", h.links.BulkToggle)
		api.POST("/links/bulk/delete", h.links.BulkDelete)

		api.GET("/analytics/overview", h.analytics.Overview)
	}

	router.GET("/:slug", h.redirect.Redirect)
	router.POST("/:slug/unlock", h.redirect.Unlock)

	return router
}

func gracefulShutdown(srv *http.Server, timeout time.Duration, redirects *service.RedirectService, dbPool *pgxpool.Pool, redisClient *redis.Client, log *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", "error", err)
	}

	redirects.Wait()
	log.Info("Pending click tracking flushed")

	dbPool.Close()
	log.Info("Database connection closed")

	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis", "error", err)
	}

	log.Info("Graceful shutdown completed")
}
