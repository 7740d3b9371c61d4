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

	"github.com/ShareIt-Rental/service-shareit/internal/application"
	"github.com/ShareIt-Rental/service-shareit/internal/config"
	"github.com/ShareIt-Rental/service-shareit/internal/events"
	"github.com/ShareIt-Rental/service-shareit/internal/handler"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/database"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/health"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/kafka"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/logger"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/metrics"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/middleware"
	"github.com/ShareIt-Rental/service-shareit/internal/repository"
)

const serviceName = "service-shareit"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.UserModel{},
			&repository.RequestModel{},
			&repository.ItemModel{},
			&repository.BookingModel{},
			&repository.CommentModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize event publisher
	var publisher application.EventPublisher
	if cfg.KafkaConfig.Enabled {
		producer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = producer.Close() }()
		publisher = events.NewKafkaPublisher(producer, cfg.KafkaConfig.Topic)
		log.Info("publishing booking events",
			zap.Strings("brokers", cfg.KafkaConfig.Brokers),
			zap.String("topic", cfg.KafkaConfig.Topic),
		)
	} else {
		publisher = events.NewNopPublisher(log)
	}

	// Initialize repositories
	userRepo := repository.NewGormUserRepository(db)
	itemRepo := repository.NewGormItemRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	commentRepo := repository.NewGormCommentRepository(db)
	requestRepo := repository.NewGormRequestRepository(db)

	// Initialize application services
	userService := application.NewUserService(userRepo, log)
	itemService := application.NewItemService(itemRepo, userRepo, bookingRepo, commentRepo, requestRepo, log)
	requestService := application.NewRequestService(requestRepo, itemRepo, userRepo, log)
	bookingService := application.NewBookingService(bookingRepo, itemRepo, userRepo, publisher, log)

	// Setup Gin router
	metrics.Register()
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check and metrics routes
	health.NewHandler(db, serviceName).RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register routes
	handler.NewUserHandler(userService).RegisterRoutes(&router.RouterGroup)
	handler.NewItemHandler(itemService).RegisterRoutes(&router.RouterGroup)
	handler.NewRequestHandler(requestService).RegisterRoutes(&router.RouterGroup)
	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup)
	handler.NewAdminBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info(serviceName + " stopped")
}
