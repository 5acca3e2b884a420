package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/nekogravitycat/venue-booking-backend/internal/api"
	"github.com/nekogravitycat/venue-booking-backend/internal/auth"
	"github.com/nekogravitycat/venue-booking-backend/internal/booking"
	"github.com/nekogravitycat/venue-booking-backend/internal/notify"
	"github.com/nekogravitycat/venue-booking-backend/internal/payment"
	"github.com/nekogravitycat/venue-booking-backend/internal/slotlock"
	"github.com/nekogravitycat/venue-booking-backend/internal/user"
	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	Logger       *zap.Logger

	// RedisClient backs the slot lock. Nil selects the in-process lock.
	RedisClient  redis.UniversalClient
	SlotLockTTL  time.Duration
	SlotLockWait time.Duration

	// KafkaClient publishes owner notifications. Nil logs them instead.
	KafkaClient       *kgo.Client
	KafkaBookingTopic string

	// Stripe issues deposit invoices. Nil selects the mock invoicer.
	Stripe             *payment.StripeConfig
	MockPaymentBaseURL string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, logger.Named("user"))

	// Venue Module
	venueRepo := venue.NewPgxRepository(cfg.DBPool)
	venueService := venue.NewService(venueRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	checker := booking.NewAvailabilityChecker(bookingRepo)
	bookingService := booking.NewService(bookingRepo, checker, venueService)

	invoicer, err := newInvoicer(cfg, logger)
	if err != nil {
		return nil, err
	}
	admission := booking.NewAdmission(
		checker,
		bookingRepo,
		newLocker(cfg, logger),
		newNotifier(cfg, logger),
		invoicer,
		logger.Named("admission"),
	)

	readiness := map[string]api.Pinger{}
	if cfg.DBPool != nil {
		readiness["postgres"] = cfg.DBPool
	}
	if cfg.RedisClient != nil {
		readiness["redis"] = api.PingFunc(func(ctx context.Context) error {
			return cfg.RedisClient.Ping(ctx).Err()
		})
	}
	if cfg.KafkaClient != nil {
		readiness["kafka"] = cfg.KafkaClient
	}

	// API Router Config
	routerParams := api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		Logger:          logger.Named("http"),
		UserService:     userService,
		VenueService:    venueService,
		BookingService:  bookingService,
		Admission:       admission,
		JWTManager:      jwtManager,
		ReadinessChecks: readiness,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}

func newLocker(cfg Config, logger *zap.Logger) slotlock.Locker {
	if cfg.RedisClient == nil {
		logger.Info("slot lock: in-process")
		return slotlock.NewMemoryLocker(cfg.SlotLockWait)
	}

	lockCfg := slotlock.DefaultRedisConfig()
	if cfg.SlotLockTTL > 0 {
		lockCfg.TTL = cfg.SlotLockTTL
	}
	if cfg.SlotLockWait > 0 {
		lockCfg.Wait = cfg.SlotLockWait
	}
	logger.Info("slot lock: redis", zap.Duration("ttl", lockCfg.TTL), zap.Duration("wait", lockCfg.Wait))
	return slotlock.NewRedisLocker(cfg.RedisClient, lockCfg, logger.Named("slotlock"))
}

func newNotifier(cfg Config, logger *zap.Logger) notify.Notifier {
	if cfg.KafkaClient == nil {
		return notify.NewLogNotifier(logger.Named("notify"))
	}
	topic := cfg.KafkaBookingTopic
	if topic == "" {
		topic = notify.DefaultBookingTopic
	}
	return notify.NewKafkaNotifier(cfg.KafkaClient, topic)
}

func newInvoicer(cfg Config, logger *zap.Logger) (payment.Invoicer, error) {
	if cfg.Stripe == nil {
		return payment.NewMockInvoicer(cfg.MockPaymentBaseURL, logger.Named("payment")), nil
	}
	invoicer, err := payment.NewStripeInvoicer(*cfg.Stripe)
	if err != nil {
		return nil, fmt.Errorf("init stripe invoicer: %w", err)
	}
	return invoicer, nil
}
