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

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nekogravitycat/venue-booking-backend/internal/app"
	"github.com/nekogravitycat/venue-booking-backend/internal/config"
	"github.com/nekogravitycat/venue-booking-backend/internal/db"
	"github.com/nekogravitycat/venue-booking-backend/internal/logger"
	"github.com/nekogravitycat/venue-booking-backend/internal/notify"
	"github.com/nekogravitycat/venue-booking-backend/internal/payment"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.IsProduction, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		zlog.Fatal("failed to connect to db", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, zlog.Named("db")); err != nil {
		zlog.Fatal("failed to apply schema", zap.Error(err))
	}

	appCfg := app.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		DBPool:             pool,
		JWTSecret:          cfg.JWTSecret,
		JWTTTL:             cfg.JWTAccessTokenTTL,
		BcryptCost:         cfg.BcryptCost,
		Logger:             zlog,
		SlotLockTTL:        cfg.SlotLockTTL,
		SlotLockWait:       cfg.SlotLockWait,
		KafkaBookingTopic:  cfg.KafkaBookingTopic,
		MockPaymentBaseURL: cfg.MockPaymentBaseURL,
	}

	// Optional Redis for the cross-instance slot lock
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			zlog.Fatal("failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		appCfg.RedisClient = rdb
	}

	// Optional Kafka for owner notifications
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := notify.NewKafkaClient(cfg.KafkaBrokers, "venue-booking-backend")
		if err != nil {
			zlog.Fatal("failed to create kafka client", zap.Error(err))
		}
		defer kafka.Close()
		appCfg.KafkaClient = kafka
	}

	if cfg.StripeSecretKey != "" {
		appCfg.Stripe = &payment.StripeConfig{
			SecretKey:  cfg.StripeSecretKey,
			Currency:   cfg.PaymentCurrency,
			SuccessURL: cfg.PaymentSuccessURL,
			CancelURL:  cfg.PaymentCancelURL,
		}
	}

	container, err := app.NewContainer(appCfg)
	if err != nil {
		zlog.Fatal("failed to init app", zap.Error(err))
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		zlog.Info("server running", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	zlog.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server exited gracefully")
}
