package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foodstory/analytics/internal/application/analytics"
	"github.com/foodstory/analytics/internal/infrastructure/config"
	"github.com/foodstory/analytics/internal/infrastructure/logger"
	"github.com/foodstory/analytics/internal/infrastructure/persistence"
	"github.com/foodstory/analytics/internal/interfaces/http/handler"
	"github.com/foodstory/analytics/internal/interfaces/http/middleware"
	"github.com/foodstory/analytics/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting dashboard API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Open the store
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing store", zap.Error(err))
		}
	}()
	log.Info("Store opened", zap.String("path", db.Path()))

	// Wire repositories, engine and query service
	billRepo := persistence.NewGormBillRepository(db.DB)
	detailRepo := persistence.NewGormDetailRepository(db.DB)
	engineCfg := analytics.Config{
		MaxGroupSize:  cfg.Analysis.MaxGroupSize,
		MaxDwellTime:  cfg.Analysis.MaxDwellTime,
		MinMenuOrders: int64(cfg.Analysis.MinMenuOrders),
		MinComboCount: int64(cfg.Analysis.MinComboCount),
	}
	queries := analytics.NewService(analytics.NewEngine(engineCfg), billRepo, detailRepo, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsCfg))

	systemHandler := handler.NewSystemHandler(db)
	engine.GET("/healthz", systemHandler.Health)

	r := router.NewRouter(engine)
	r.Register(handler.NewAnalyticsHandler(queries))
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
