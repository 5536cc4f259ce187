package config

import (
	"os"
	"strconv"
	"time"

	"bullpen/internal/cache"
	"bullpen/internal/database"
	"bullpen/internal/entity"
	"bullpen/internal/external"
	"bullpen/internal/messaging"
	"bullpen/internal/search"
)

// Config holds the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// Platform commission rate applied when the backend rollup is missing,
	// expressed as a percentage (e.g. "10" = 10%).
	CommissionRatePct string

	// Refund settlement job
	SettlementInterval time.Duration

	Database database.Config
	NATS     messaging.Config
	Valkey   cache.Config
	Search   search.Config
	Entity   entity.Config
	Gateway  external.GatewayConfig
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8082"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		CommissionRatePct: getEnv("COMMISSION_RATE_PCT", "10"),

		SettlementInterval: time.Duration(getEnvInt("SETTLEMENT_INTERVAL_SEC", 30)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "bullpen"),
			Password:           getEnv("DB_PASSWORD", "bullpen123"),
			DBName:             getEnv("DB_NAME", "bullpen"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "bullpen"),
			ClientID:  getEnv("NATS_CLIENT_ID", "bullpen-api"),
		},

		Valkey: cache.Config{
			Addr:     getEnv("VALKEY_ADDR", "localhost:6379"),
			Password: getEnv("VALKEY_PASSWORD", ""),
		},

		Search: search.Config{
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:      getEnv("ELASTICSEARCH_INDEX", "bullpen-events"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},

		Entity: entity.Config{
			BaseURL: getEnv("ENTITY_API_URL", "https://api.bullpen.app/entities"),
			APIKey:  getEnv("ENTITY_API_KEY", ""),
			Timeout: time.Duration(getEnvInt("ENTITY_TIMEOUT_SEC", 30)) * time.Second,
		},

		Gateway: external.GatewayConfig{
			BaseURL:      getEnv("PAYMENT_GATEWAY_URL", "https://gateway.bullpen.app/common"),
			MerchantSlug: getEnv("GATEWAY_MERCHANT_SLUG", ""),
			Password:     getEnv("GATEWAY_PASSWORD", ""),
			Timeout:      time.Duration(getEnvInt("GATEWAY_TIMEOUT_SEC", 30)) * time.Second,
		},
	}
}

// getEnv reads an environment variable or returns the default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
