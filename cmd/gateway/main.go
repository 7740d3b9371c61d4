package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ShareIt-Rental/service-shareit/internal/config"
	"github.com/ShareIt-Rental/service-shareit/internal/gateway"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/logger"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/metrics"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/middleware"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/ratelimit"
)

const serviceName = "gateway-shareit"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	gw, err := gateway.New(cfg.Gateway.ServerURL, log)
	if err != nil {
		log.Fatal("failed to create gateway", zap.Error(err))
	}

	metrics.Register()
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("")
	if cfg.RateLimit.Enabled {
		limiter, closeLimiter := ratelimit.New(cfg.RedisConfig, cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Burst, log)
		defer func() { _ = closeLimiter() }()
		api.Use(middleware.RateLimitMiddleware(limiter, log))
	}
	gw.RegisterRoutes(api)

	srv := &http.Server{
		Addr:         cfg.Gateway.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("gateway starting",
			zap.String("addr", cfg.Gateway.Port),
			zap.String("server_url", cfg.Gateway.ServerURL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}
	log.Info(serviceName + " stopped")
}
