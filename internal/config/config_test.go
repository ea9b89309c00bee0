package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		errorMsg    string
	}{
		{
			name: "Success with minimal required config",
			envVars: map[string]string{
				"ADMIN_API_KEY": "test-admin-key",
			},
			expectError: false,
		},
		{
			name: "Success with all config specified",
			envVars: map[string]string{
				"SERVER_HOST":         "localhost",
				"SERVER_PORT":         "9090",
				"NATS_ENABLED":        "true",
				"NATS_URL":            "nats://nats.example.com:4222",
				"NATS_BUCKET":         "bistro-test",
				"LOG_LEVEL":           "debug",
				"LOG_FORMAT":          "console",
				"ADMIN_API_KEY":       "test-key-123",
				"PAYMENT_ENABLED":     "true",
				"ARIFPAY_BASE_URL":    "https://gateway.example.com/api",
				"ARIFPAY_API_KEY":     "pk-test",
				"ARIFPAY_MERCHANT_ID": "merchant-1",
				"SEED_FILE":           "data/seed/menu_items.json",
			},
			expectError: false,
		},
		{
			name: "Error - missing admin API key",
			envVars: map[string]string{
				"ADMIN_API_KEY": "",
			},
			expectError: true,
			errorMsg:    "admin API key is required",
		},
		{
			name: "Error - invalid server port",
			envVars: map[string]string{
				"SERVER_PORT":   "99999",
				"ADMIN_API_KEY": "test-key",
			},
			expectError: true,
			errorMsg:    "invalid server port",
		},
		{
			name: "Error - invalid log level",
			envVars: map[string]string{
				"LOG_LEVEL":     "invalid",
				"ADMIN_API_KEY": "test-key",
			},
			expectError: true,
			errorMsg:    "invalid log level",
		},
		{
			name: "Error - invalid log format",
			envVars: map[string]string{
				"LOG_FORMAT":    "xml",
				"ADMIN_API_KEY": "test-key",
			},
			expectError: true,
			errorMsg:    "invalid log format",
		},
		{
			name: "Error - payment enabled without base URL",
			envVars: map[string]string{
				"ADMIN_API_KEY":       "test-key",
				"PAYMENT_ENABLED":     "true",
				"ARIFPAY_API_KEY":     "pk-test",
				"ARIFPAY_MERCHANT_ID": "merchant-1",
			},
			expectError: true,
			errorMsg:    "payment base URL is required",
		},
		{
			name: "Error - seed S3 enabled without bucket",
			envVars: map[string]string{
				"ADMIN_API_KEY":   "test-key",
				"SEED_S3_ENABLED": "true",
			},
			expectError: true,
			errorMsg:    "seed S3 bucket is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			cfg, err := Load()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
			}

			// Clean up
			os.Clearenv()
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{
				Host: "localhost",
				Port: 8080,
			},
			NATS: NATSConfig{
				Enabled: true,
				URL:     "nats://localhost:4222",
				Bucket:  "bistro",
			},
			Logger: LoggerConfig{
				Level:  "info",
				Format: "json",
			},
			Auth: AuthConfig{
				AdminAPIKey: "test-key",
			},
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "Valid configuration",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "Invalid - server port too high",
			mutate:      func(c *Config) { c.Server.Port = 99999 },
			expectError: true,
			errorMsg:    "invalid server port",
		},
		{
			name:        "Invalid - NATS enabled without URL",
			mutate:      func(c *Config) { c.NATS.URL = "" },
			expectError: true,
			errorMsg:    "NATS URL is required",
		},
		{
			name:        "Invalid - NATS enabled without bucket",
			mutate:      func(c *Config) { c.NATS.Bucket = "" },
			expectError: true,
			errorMsg:    "NATS bucket is required",
		},
		{
			name:        "Valid - NATS disabled without URL",
			mutate:      func(c *Config) { c.NATS = NATSConfig{Enabled: false} },
			expectError: false,
		},
		{
			name:        "Invalid - empty admin API key",
			mutate:      func(c *Config) { c.Auth.AdminAPIKey = "" },
			expectError: true,
			errorMsg:    "admin API key is required",
		},
		{
			name: "Invalid - payment enabled without merchant ID",
			mutate: func(c *Config) {
				c.Payment = PaymentConfig{
					Enabled: true,
					BaseURL: "https://gateway.example.com",
					APIKey:  "pk-test",
				}
			},
			expectError: true,
			errorMsg:    "payment merchant ID is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	tests := []struct {
		name     string
		config   ServerConfig
		expected string
	}{
		{
			name: "Standard configuration",
			config: ServerConfig{
				Host: "localhost",
				Port: 8080,
			},
			expected: "localhost:8080",
		},
		{
			name: "All interfaces",
			config: ServerConfig{
				Host: "0.0.0.0",
				Port: 9090,
			},
			expected: "0.0.0.0:9090",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.Address())
		})
	}
}

func TestGetEnv(t *testing.T) {
	os.Clearenv()

	// Test with environment variable set
	os.Setenv("TEST_VAR", "test_value")
	assert.Equal(t, "test_value", getEnv("TEST_VAR", "default"))

	// Test with environment variable not set
	assert.Equal(t, "default", getEnv("NON_EXISTENT_VAR", "default"))

	os.Clearenv()
}

func TestGetEnvAsInt(t *testing.T) {
	os.Clearenv()

	// Test with valid integer
	os.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, getEnvAsInt("TEST_INT", 10))

	// Test with invalid integer (should return default)
	os.Setenv("TEST_INVALID", "not_a_number")
	assert.Equal(t, 10, getEnvAsInt("TEST_INVALID", 10))

	// Test with non-existent variable
	assert.Equal(t, 10, getEnvAsInt("NON_EXISTENT_INT", 10))

	os.Clearenv()
}

func TestGetEnvAsBool(t *testing.T) {
	os.Clearenv()

	os.Setenv("TEST_BOOL", "true")
	assert.True(t, getEnvAsBool("TEST_BOOL", false))

	os.Setenv("TEST_INVALID", "maybe")
	assert.False(t, getEnvAsBool("TEST_INVALID", false))

	assert.True(t, getEnvAsBool("NON_EXISTENT_BOOL", true))

	os.Clearenv()
}
