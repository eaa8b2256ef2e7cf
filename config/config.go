package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string
	LogLevel    string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string
	PubNubUserID       string

	// Storage backend for tickets and payment cards: pocketbase, redis or memory
	StorageBackend string

	// Ordering rules
	MaxSeatsPerOrder        int
	DefaultMaxTickets       int
	DefaultAvailableTickets int
	ServiceFee              decimal.Decimal
	TaxRate                 decimal.Decimal

	// Seat holds
	SeatHoldTTL time.Duration

	// Seeded sold-seat overlay for demo layouts
	DemoAvailability bool

	// Card fingerprints
	BcryptCost int

	// Circuit breaker around persistence
	BreakerMaxRequests  int
	BreakerInterval     time.Duration
	BreakerTimeout      time.Duration
	BreakerFailureRatio float64

	// Rate limiting
	PurchaseRateLimit int

	// Monitoring
	EnableMetrics bool
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),
		PubNubUserID:       getEnv("PUBNUB_USER_ID", "ticket-storefront"),

		StorageBackend: getEnv("STORAGE_BACKEND", "pocketbase"),

		// Ordering
		MaxSeatsPerOrder:        getEnvAsInt("MAX_SEATS_PER_ORDER", 10),
		DefaultMaxTickets:       getEnvAsInt("DEFAULT_MAX_TICKETS", 10),
		DefaultAvailableTickets: getEnvAsInt("DEFAULT_AVAILABLE_TICKETS", 100),
		ServiceFee:              getEnvAsDecimal("SERVICE_FEE", "2.50"),
		TaxRate:                 getEnvAsDecimal("TAX_RATE", "0.08"),

		SeatHoldTTL:      getEnvAsDuration("SEAT_HOLD_TTL", "5m"),
		DemoAvailability: getEnvAsBool("DEMO_AVAILABILITY", false),
		BcryptCost:       getEnvAsInt("BCRYPT_COST", 10),

		// Circuit breaker
		BreakerMaxRequests:  getEnvAsInt("BREAKER_MAX_REQUESTS", 100),
		BreakerInterval:     getEnvAsDuration("BREAKER_INTERVAL", "60s"),
		BreakerTimeout:      getEnvAsDuration("BREAKER_TIMEOUT", "60s"),
		BreakerFailureRatio: getEnvAsFloat("BREAKER_FAILURE_RATIO", 0.6),

		PurchaseRateLimit: getEnvAsInt("PURCHASE_RATE_LIMIT", 30),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

// Money values are parsed as decimals so fees and rates stay exact.
func getEnvAsDecimal(key string, defaultValue string) decimal.Decimal {
	valueStr := getEnv(key, defaultValue)
	if value, err := decimal.NewFromString(valueStr); err == nil {
		return value
	}
	return decimal.RequireFromString(defaultValue)
}
