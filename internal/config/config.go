package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the SafeHaven service.
// Environment variables are parsed with the SAFEHAVEN_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string      `envconfig:"LOG_LEVEL" default:"info"`

	// HTTP Configuration
	HTTPPort           int      `envconfig:"HTTP_PORT" default:"3000"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// Storage: sqlite (local file) or postgres
	DBDriver                string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath              string `envconfig:"SQLITE_PATH" default:""`
	PostgresDSN             string `envconfig:"POSTGRES_DSN" default:""`
	BootstrapTimeoutSeconds int    `envconfig:"BOOTSTRAP_TIMEOUT_SECONDS" default:"5"`

	// Auth
	JWTSecret  string        `envconfig:"JWT_SECRET" default:""`
	TokenTTL   time.Duration `envconfig:"TOKEN_TTL" default:"5h"`
	BcryptCost int           `envconfig:"BCRYPT_COST" default:"10"`

	// Completion API (OpenAI-compatible, Groq by default)
	CompletionBaseURL     string        `envconfig:"COMPLETION_BASE_URL" default:"https://api.groq.com/openai/v1"`
	CompletionAPIKey      string        `envconfig:"COMPLETION_API_KEY" default:""`
	CompletionModel       string        `envconfig:"COMPLETION_MODEL" default:"llama-3.3-70b-versatile"`
	CompletionTemperature float64       `envconfig:"COMPLETION_TEMPERATURE" default:"0.7"`
	CompletionTimeout     time.Duration `envconfig:"COMPLETION_TIMEOUT" default:"60s"`

	// Chat sessions
	SessionMaxMessages int           `envconfig:"SESSION_MAX_MESSAGES" default:"30"`
	SessionCapacity    int           `envconfig:"SESSION_CAPACITY" default:"10000"`
	SessionTTL         time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	// Persona override file (YAML); empty uses the embedded default.
	PersonaPath string `envconfig:"PERSONA_PATH" default:""`

	// Allow the unauthenticated mood routes (body/path userId) kept for older clients.
	LegacyOpenMoods bool `envconfig:"LEGACY_OPEN_MOODS" default:"true"`

	// Per-user token bucket on chat and referral routes
	ChatRatePerSecond float64 `envconfig:"CHAT_RATE_PER_SECOND" default:"1"`
	ChatRateBurst     int     `envconfig:"CHAT_RATE_BURST" default:"5"`

	// Health
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults validates driver selection and required secrets, and derives local paths.
func (c *Config) ResolveDefaults() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case "", "sqlite":
		c.DBDriver = "sqlite"
		if c.SQLitePath == "" {
			c.SQLitePath = "data/safehaven.db"
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("SAFEHAVEN_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("SAFEHAVEN_JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if c.SessionMaxMessages < 2 {
		return fmt.Errorf("SESSION_MAX_MESSAGES must be at least 2")
	}
	if c.SessionCapacity <= 0 {
		return fmt.Errorf("SESSION_CAPACITY must be positive")
	}
	if c.HealthIntervalSeconds <= 0 {
		c.HealthIntervalSeconds = 30
	}
	return nil
}

// New creates a new Config by parsing environment variables
// Environment variables should be prefixed with SAFEHAVEN_
// Example: SAFEHAVEN_JWT_SECRET, SAFEHAVEN_HTTP_PORT
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("SAFEHAVEN", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Str("completion_base_url", cfg.CompletionBaseURL).
		Str("completion_model", cfg.CompletionModel).
		Bool("completion_key_present", cfg.CompletionAPIKey != "").
		Int("session_max_messages", cfg.SessionMaxMessages).
		Bool("legacy_open_moods", cfg.LegacyOpenMoods).
		Str("persona_path", cfg.PersonaPath).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		Environment:               EnvTesting,
		LogLevel:                  "debug",
		HTTPPort:                  3000,
		CORSAllowedOrigins:        []string{"*"},
		DBDriver:                  "sqlite",
		BootstrapTimeoutSeconds:   5,
		JWTSecret:                 "test-secret",
		TokenTTL:                  5 * time.Hour,
		BcryptCost:                4,
		CompletionBaseURL:         "http://localhost:0",
		CompletionModel:           "llama-3.3-70b-versatile",
		CompletionTemperature:     0.7,
		CompletionTimeout:         5 * time.Second,
		SessionMaxMessages:        30,
		SessionCapacity:           100,
		SessionTTL:                time.Hour,
		LegacyOpenMoods:           true,
		ChatRatePerSecond:         100,
		ChatRateBurst:             100,
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
