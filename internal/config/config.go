// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database (optional, uses in-memory stores if not set)
	DatabaseURL string

	// Risk scoring service
	RiskServiceURL string        // base URL of the external scorer; empty = built-in rule engine
	RiskTimeout    time.Duration // budget for one scoring call

	// Demo auth
	DemoEmail string // owner identity resolved by the demo token
	DemoToken string

	// HTTP hardening
	AllowedOrigins []string
	RateLimitRPM   int

	// Observability
	OTLPEndpoint string
}

const (
	DefaultPort        = "8080"
	DefaultEnv         = "development"
	DefaultLogLevel    = "info"
	DefaultDemoEmail   = "demo@digitalbanking.dev"
	DefaultDemoToken   = "demo-token"
	DefaultRateLimit   = 120
	DefaultRiskTimeout = 2 * time.Second
	DefaultOrigins     = "http://localhost:5173"
)

// Load reads configuration from environment variables.
// It loads a .env file if present (for local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", DefaultPort),
		Env:            getEnv("ENV", DefaultEnv),
		LogLevel:       getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RiskServiceURL: os.Getenv("RISK_SERVICE_URL"),
		RiskTimeout:    time.Duration(getEnvInt64("RISK_TIMEOUT_MS", DefaultRiskTimeout.Milliseconds())) * time.Millisecond,
		DemoEmail:      getEnv("DEMO_EMAIL", DefaultDemoEmail),
		DemoToken:      getEnv("DEMO_TOKEN", DefaultDemoToken),
		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", DefaultOrigins)),
		RateLimitRPM:   int(getEnvInt64("RATE_LIMIT_RPM", DefaultRateLimit)),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is coherent
func (c *Config) Validate() error {
	if c.DemoToken == "" {
		return fmt.Errorf("DEMO_TOKEN must not be empty")
	}
	if c.RiskTimeout <= 0 {
		return fmt.Errorf("RISK_TIMEOUT_MS must be positive")
	}
	if c.RiskServiceURL != "" && !strings.HasPrefix(c.RiskServiceURL, "http") {
		return fmt.Errorf("RISK_SERVICE_URL must be an http(s) URL")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
