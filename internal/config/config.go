package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// defaultDevSecret marks a secret that has not been explicitly configured.
// Allowed in development only.
const defaultDevSecret = "change-this-to-a-secure-secret"

// Config holds all configuration for the backend service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8000"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"backend"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"backend_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"backend_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINS" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINS" envDefault:"30"`
	SlowQueryThresholdMs  int   `env:"SLOW_QUERY_THRESHOLD_MS" envDefault:"200"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Redis (login rate limiting)
	RedisHost        string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort        int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword    string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	AuthRateLimit    int           `env:"AUTH_RATE_LIMIT" envDefault:"10"`
	AuthRateWindow   time.Duration `env:"AUTH_RATE_WINDOW" envDefault:"1m"`
	RateLimitEnabled bool          `env:"AUTH_RATE_LIMIT_ENABLED" envDefault:"true"`

	// Tokens. Access and refresh tokens are signed with distinct secrets so
	// compromise of one kind cannot forge the other.
	AccessTokenSecret  string `env:"ACCESS_TOKEN_SECRET" envDefault:"change-this-to-a-secure-secret"`
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET" envDefault:"change-this-to-a-secure-secret"`
	AccessTokenExpiry  string `env:"ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
	RefreshTokenExpiry string `env:"REFRESH_TOKEN_EXPIRY" envDefault:"240h"`

	// Cookies
	CookieDomain string `env:"COOKIE_DOMAIN" envDefault:""`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"true"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Blob storage: "memory" or "media-service".
	StorageBackend     string `env:"STORAGE_BACKEND" envDefault:"memory"`
	MediaServiceURL    string `env:"MEDIA_SERVICE_URL" envDefault:"http://localhost:8006"`
	MediaPublicBaseURL string `env:"MEDIA_PUBLIC_BASE_URL" envDefault:"http://localhost:8000"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	accessExpiry, err := time.ParseDuration(cfg.AccessTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("parse access token expiry %q: %w", cfg.AccessTokenExpiry, err)
	}
	refreshExpiry, err := time.ParseDuration(cfg.RefreshTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("parse refresh token expiry %q: %w", cfg.RefreshTokenExpiry, err)
	}
	if refreshExpiry <= accessExpiry {
		return nil, fmt.Errorf("refresh token expiry (%s) must be longer than access token expiry (%s)",
			refreshExpiry, accessExpiry)
	}

	switch cfg.StorageBackend {
	case "memory", "media-service":
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	// In non-development environments, require explicitly set, strong,
	// distinct token secrets.
	if cfg.Environment != "development" {
		for name, secret := range map[string]string{
			"ACCESS_TOKEN_SECRET":  cfg.AccessTokenSecret,
			"REFRESH_TOKEN_SECRET": cfg.RefreshTokenSecret,
		} {
			if secret == defaultDevSecret {
				return nil, fmt.Errorf("%s must be explicitly set via environment variable in %q mode", name, cfg.Environment)
			}
			if len(secret) < 32 {
				return nil, fmt.Errorf("%s must be at least 32 characters long, got %d", name, len(secret))
			}
		}
		if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
			return nil, fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
		}
	}

	return cfg, nil
}

// AccessExpiry returns the parsed access token lifetime. Load validates the
// value, so parsing here cannot fail.
func (c *Config) AccessExpiry() time.Duration {
	d, _ := time.ParseDuration(c.AccessTokenExpiry)
	return d
}

// RefreshExpiry returns the parsed refresh token lifetime.
func (c *Config) RefreshExpiry() time.Duration {
	d, _ := time.ParseDuration(c.RefreshTokenExpiry)
	return d
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}

// RedisAddr returns the Redis address string.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
