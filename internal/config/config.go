package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	LogLevel          string
	HTTPAddr          string
	DBDSN             string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int

	// Slot lock. An empty RedisAddr selects the in-process lock, which only
	// serializes submissions within one server instance.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SlotLockTTL   time.Duration
	SlotLockWait  time.Duration

	// Owner notifications. No brokers selects the logging notifier.
	KafkaBrokers      []string
	KafkaBookingTopic string

	// Deposit invoices. No Stripe key selects the mock invoicer.
	StripeSecretKey    string
	PaymentCurrency    string
	PaymentSuccessURL  string
	PaymentCancelURL   string
	MockPaymentBaseURL string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}
	var err error

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	cfg.IsProduction = getEnv("APP_ENV", "dev") == PROD_STRING

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return nil, err
	}

	// Bcrypt cost for password hashing (default: 12)
	if cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12); err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.SlotLockTTL, err = getEnvAsDuration("SLOT_LOCK_TTL", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SlotLockWait, err = getEnvAsDuration("SLOT_LOCK_WAIT", 3*time.Second); err != nil {
		return nil, err
	}

	cfg.KafkaBrokers = getEnvAsList("KAFKA_BROKERS")
	cfg.KafkaBookingTopic = getEnv("KAFKA_BOOKING_TOPIC", "booking.created")

	cfg.StripeSecretKey = getEnv("STRIPE_SECRET_KEY", "")
	cfg.PaymentCurrency = getEnv("PAYMENT_CURRENCY", "usd")
	cfg.PaymentSuccessURL = getEnv("PAYMENT_SUCCESS_URL", "http://localhost:3000/bookings/success")
	cfg.PaymentCancelURL = getEnv("PAYMENT_CANCEL_URL", "http://localhost:3000/bookings/cancel")
	cfg.MockPaymentBaseURL = getEnv("MOCK_PAYMENT_BASE_URL", "http://localhost:8080/mock-pay")

	// An empty allow-list would disable every origin.
	if cfg.IsProduction && len(getEnvAsList("PROD_ORIGINS")) == 0 {
		return nil, fmt.Errorf("PROD_ORIGINS is required in production")
	}

	if cfg.IsProduction && cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required in production")
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration parses values such as "15m" or "3s".
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}

	return val, nil
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
