package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	NATS    NATSConfig
	Logger  LoggerConfig
	Auth    AuthConfig
	Payment PaymentConfig
	Seed    SeedConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// NATSConfig holds the key-value backend configuration. When disabled the
// service falls back to an in-process store, which is only suitable for
// local development.
type NATSConfig struct {
	Enabled bool
	URL     string
	Bucket  string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration for admin-only routes.
type AuthConfig struct {
	AdminAPIKey string
}

// PaymentConfig holds the payment gateway configuration.
type PaymentConfig struct {
	Enabled            bool
	BaseURL            string
	APIKey             string
	MerchantID         string
	CancelURL          string
	SuccessURL         string
	ErrorURL           string
	NotifyURL          string
	BeneficiaryAccount string
	BeneficiaryBank    string
	WebhookSecret      string
}

// SeedConfig holds menu seed data sourcing configuration. With no file
// configured the built-in defaults are used; with S3 enabled the file is
// fetched from the bucket first, falling back to the local path.
type SeedConfig struct {
	FilePath  string
	S3Enabled bool
	S3Bucket  string
	S3Region  string
	S3Prefix  string
}

// Load loads configuration from the environment, reading a local .env file
// first when present.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be fully populated already.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		NATS: NATSConfig{
			Enabled: getEnvAsBool("NATS_ENABLED", false),
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Bucket:  getEnv("NATS_BUCKET", "bistro"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
		},
		Payment: PaymentConfig{
			Enabled:            getEnvAsBool("PAYMENT_ENABLED", false),
			BaseURL:            getEnv("ARIFPAY_BASE_URL", ""),
			APIKey:             getEnv("ARIFPAY_API_KEY", ""),
			MerchantID:         getEnv("ARIFPAY_MERCHANT_ID", ""),
			CancelURL:          getEnv("PAYMENT_CANCEL_URL", ""),
			SuccessURL:         getEnv("PAYMENT_SUCCESS_URL", ""),
			ErrorURL:           getEnv("PAYMENT_ERROR_URL", ""),
			NotifyURL:          getEnv("PAYMENT_NOTIFY_URL", ""),
			BeneficiaryAccount: getEnv("BENEFICIARY_ACCOUNT", ""),
			BeneficiaryBank:    getEnv("BENEFICIARY_BANK", ""),
			WebhookSecret:      getEnv("ARIFPAY_WEBHOOK_SECRET", ""),
		},
		Seed: SeedConfig{
			FilePath:  getEnv("SEED_FILE", ""),
			S3Enabled: getEnvAsBool("SEED_S3_ENABLED", false),
			S3Bucket:  getEnv("SEED_S3_BUCKET", ""),
			S3Region:  getEnv("SEED_S3_REGION", "us-east-1"),
			S3Prefix:  getEnv("SEED_S3_PREFIX", "seed/"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.NATS.Enabled {
		if c.NATS.URL == "" {
			return fmt.Errorf("NATS URL is required when NATS is enabled")
		}
		if c.NATS.Bucket == "" {
			return fmt.Errorf("NATS bucket is required when NATS is enabled")
		}
	}

	if c.Auth.AdminAPIKey == "" {
		return fmt.Errorf("admin API key is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Payment.Enabled {
		if c.Payment.BaseURL == "" {
			return fmt.Errorf("payment base URL is required when payments are enabled")
		}
		if c.Payment.APIKey == "" {
			return fmt.Errorf("payment API key is required when payments are enabled")
		}
		if c.Payment.MerchantID == "" {
			return fmt.Errorf("payment merchant ID is required when payments are enabled")
		}
	}

	if c.Seed.S3Enabled {
		if c.Seed.S3Bucket == "" {
			return fmt.Errorf("seed S3 bucket is required when seed S3 is enabled")
		}
		if c.Seed.S3Region == "" {
			return fmt.Errorf("seed S3 region is required when seed S3 is enabled")
		}
	}

	return nil
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
