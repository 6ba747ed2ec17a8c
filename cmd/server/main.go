package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/Sharruk/TravelGuard/internal/handler"
	"github.com/Sharruk/TravelGuard/internal/models"
	"github.com/Sharruk/TravelGuard/pkg/backup"
	"github.com/Sharruk/TravelGuard/pkg/config"
	"github.com/Sharruk/TravelGuard/pkg/logger"
	"github.com/Sharruk/TravelGuard/pkg/metrics"
	"github.com/Sharruk/TravelGuard/pkg/middleware"
	"github.com/Sharruk/TravelGuard/pkg/scheduler"
	"github.com/Sharruk/TravelGuard/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	cfg := config.GlobalConfig

	if err := logger.Init(cfg.Log, cfg.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := util.InitDatabase(cfg.DBDriver, cfg.DSN)
	if err != nil {
		logger.Error("database connection failed", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := util.CloseDatabase(db); err != nil {
			logger.Warn("close database failed", zap.Error(err))
		}
	}()

	if err := models.Migrate(db); err != nil {
		logger.Error("migrate failed", zap.Error(err))
		os.Exit(1)
	}
	if cfg.SeedDemo {
		if _, err := models.SeedDemoData(db); err != nil {
			logger.Warn("seed demo data failed", zap.Error(err))
		}
	}

	m := metrics.NewMetrics()
	store, err := middleware.NewLimiterStore(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Error("rate limiter store init failed", zap.Error(err))
		os.Exit(1)
	}
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:          cfg.RateLimit,
		PerRouteRates: cfg.RateLimitRoutes,
		Identifier:    cfg.RateLimitKey,
		AddHeaders:    true,
	}, store).WithObserver(middleware.NewPrometheusObserver(m.Registry()))

	gin.SetMode(ginMode(cfg.Mode))
	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.RequestLogger(cfg.APIPrefix),
		metrics.MonitorMiddleware(m),
	)
	handlers.NewHandlers(db,
		handlers.WithAPIPrefix(cfg.APIPrefix),
		handlers.WithMetrics(m),
		handlers.WithRateLimiter(limiter),
		handlers.WithIdempotencyTTL(cfg.IdempotencyTTL),
	).Register(engine)

	if cfg.BackupEnabled {
		cr := scheduler.NewCron(time.Local)
		b := backup.New(db, backup.Config{
			Driver:   cfg.DBDriver,
			DSN:      cfg.DSN,
			Dir:      cfg.BackupPath,
			Schedule: cfg.BackupSchedule,
		})
		if err := b.Start(cr); err != nil {
			logger.Warn("backup schedule rejected", zap.String("schedule", cfg.BackupSchedule), zap.Error(err))
		} else {
			cr.Start()
			defer cr.Stop()
		}
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "Idempotency-Key"},
			ExposedHeaders: []string{"Content-Disposition", "Retry-After"},
			MaxAge:         300,
		})(engine),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func ginMode(mode string) string {
	switch mode {
	case gin.ReleaseMode, gin.TestMode:
		return mode
	}
	return gin.DebugMode
}
