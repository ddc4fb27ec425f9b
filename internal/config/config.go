package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultJWTSecret is rejected outside development.
const DefaultJWTSecret = "dev-secret-change-me"

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Store        StoreConfig
	Postgres     PostgresConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	RateLimit    RateLimitConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"APP_NAME" envDefault:"staff-portal"`
	Env                   string `env:"APP_ENV" envDefault:"development"`
	Host                  string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"APP_PORT" envDefault:"8080"`
	Version               string `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
	// ProxyHeader names the header carrying the client address, e.g. X-Forwarded-For.
	// It is honored only for requests arriving from TrustedProxies.
	ProxyHeader    string   `env:"HTTP_PROXY_HEADER"`
	TrustedProxies []string `env:"HTTP_TRUSTED_PROXIES" envSeparator:","`
}

// StoreConfig selects the persistence backend. An empty driver is inferred
// from whichever connection string is set.
type StoreConfig struct {
	Driver         string `env:"STORE_DRIVER"`
	MemoryLogLimit int    `env:"LOGIN_LOG_MEMORY_LIMIT" envDefault:"1000"`
	SeedDemoStaff  bool   `env:"STORE_SEED_DEMO_STAFF" envDefault:"true"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `env:"POSTGRES_DSN"`
	MaxConns       int32  `env:"POSTGRES_MAX_CONNS" envDefault:"4"`
	MinConns       int32  `env:"POSTGRES_MIN_CONNS" envDefault:"1"`
	RunMigrations  bool   `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	MigrationsDir  string `env:"POSTGRES_MIGRATIONS_DIR" envDefault:"migrations"`
	ConnMaxIdleSec int32  `env:"POSTGRES_CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"POSTGRES_CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// MongoConfig holds document store connection values.
type MongoConfig struct {
	URI            string        `env:"MONGODB_URI"`
	Database       string        `env:"MONGODB_DATABASE" envDefault:"staff_portal"`
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
}

// RedisConfig holds Redis connection values. Empty Addr disables the login limiter.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret         string        `env:"AUTH_JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL          time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`
	BcryptCost        int           `env:"AUTH_BCRYPT_COST" envDefault:"10"`
	MinPasswordLength int           `env:"AUTH_MIN_PASSWORD_LENGTH" envDefault:"6"`
	MaxFailedAttempts int           `env:"AUTH_MAX_FAILED_ATTEMPTS" envDefault:"5"`
	FailedAttemptsTTL time.Duration `env:"AUTH_FAILED_ATTEMPTS_WINDOW" envDefault:"15m"`
}

// RateLimitConfig bounds per-IP request rates on the auth routes.
type RateLimitConfig struct {
	PerSecond int `env:"RATE_LIMIT_PER_SECOND" envDefault:"5"`
	Burst     int `env:"RATE_LIMIT_BURST" envDefault:"20"`
}

// NotificationConfig holds stub notification endpoints. With Async off, handlers
// run on the publishing request's goroutine.
type NotificationConfig struct {
	EmailFrom  string `env:"NOTIFY_EMAIL_FROM" envDefault:"noreply@example.com"`
	WebhookURL string `env:"NOTIFY_WEBHOOK_URL"`
	Async      bool   `env:"NOTIFY_ASYNC" envDefault:"true"`
}

// Load reads configuration from .env and environment variables, applying defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	switch c.Store.ResolvedDriver(c) {
	case StoreMemory:
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return errors.New("STORE_DRIVER=postgres requires POSTGRES_DSN")
		}
	case StoreMongo:
		if c.Mongo.URI == "" {
			return errors.New("STORE_DRIVER=mongo requires MONGODB_URI")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.App.Env == "production" && c.Auth.JWTSecret == DefaultJWTSecret {
		return errors.New("AUTH_JWT_SECRET is set to the insecure default")
	}
	if c.App.ProxyHeader != "" && len(c.App.TrustedProxies) == 0 {
		return errors.New("HTTP_PROXY_HEADER requires HTTP_TRUSTED_PROXIES")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("AUTH_TOKEN_TTL must be positive")
	}
	return nil
}

// ResolvedDriver returns the explicit driver, or infers one from the configured URIs.
func (s StoreConfig) ResolvedDriver(c *Config) string {
	if d := strings.ToLower(strings.TrimSpace(s.Driver)); d != "" {
		return d
	}
	switch {
	case c.Mongo.URI != "":
		return StoreMongo
	case c.Postgres.DSN != "":
		return StorePostgres
	default:
		return StoreMemory
	}
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}
