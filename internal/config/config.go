package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingJWTSecret is returned when no signing secret is configured outside development.
var ErrMissingJWTSecret = errors.New("AUTH_JWT_SECRET is required")

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	Revocation RevocationConfig
	Activity   ActivityConfig
	Mail       MailConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	ClientURL             string
	CORSOrigins           string
	BodyLimitMB           int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string
	AccessTokenTTLMinutes   int
	PasswordResetTTLMinutes int
	BcryptCost              int
}

// RevocationBackend selects where revoked credentials are recorded.
type RevocationBackend string

const (
	RevocationBackendPostgres RevocationBackend = "postgres"
	RevocationBackendRedis    RevocationBackend = "redis"
	RevocationBackendMemory   RevocationBackend = "memory"
)

// RevocationConfig controls the logout blacklist.
// PruneIntervalMinutes of zero keeps every record forever.
type RevocationConfig struct {
	Backend              RevocationBackend
	PruneIntervalMinutes int
}

// ActivityConfig controls retention of the activity feed.
type ActivityConfig struct {
	RetentionHours       int
	PruneIntervalMinutes int
}

// MailConfig holds SMTP settings. An empty Addr disables delivery.
type MailConfig struct {
	Addr       string
	User       string
	Password   string
	From       string
	UseTLS     bool
	TimeoutSec int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	env := getEnv("APP_ENV", "development")
	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" && env == "development" {
		secret = "dev-secret"
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "course-service"),
			Env:                   env,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", getEnv("PORT", "5000")),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			ClientURL:             getEnv("CLIENT_URL", "http://localhost:5173"),
			CORSOrigins:           getEnv("CORS_ALLOW_ORIGINS", "*"),
			BodyLimitMB:           getEnvAsInt("HTTP_BODY_LIMIT_MB", 50),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:               secret,
			AccessTokenTTLMinutes:   getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 24*60),
			PasswordResetTTLMinutes: getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 60),
			BcryptCost:              getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Revocation: RevocationConfig{
			Backend:              RevocationBackend(strings.ToLower(getEnv("REVOCATION_BACKEND", string(RevocationBackendPostgres)))),
			PruneIntervalMinutes: getEnvAsInt("REVOCATION_PRUNE_INTERVAL_MINUTES", 0),
		},
		Activity: ActivityConfig{
			RetentionHours:       getEnvAsInt("ACTIVITY_RETENTION_HOURS", 72),
			PruneIntervalMinutes: getEnvAsInt("ACTIVITY_PRUNE_INTERVAL_MINUTES", 60),
		},
		Mail: MailConfig{
			Addr:       os.Getenv("SMTP_ADDR"),
			User:       os.Getenv("SMTP_USER"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			From:       getEnv("MAIL_FROM", "WEB4JOBS <noreply@example.com>"),
			UseTLS:     getEnvAsBool("SMTP_USE_TLS", false),
			TimeoutSec: getEnvAsInt("SMTP_TIMEOUT_SECONDS", 10),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	switch cfg.Revocation.Backend {
	case RevocationBackendPostgres, RevocationBackendRedis, RevocationBackendMemory:
	default:
		return nil, fmt.Errorf("invalid REVOCATION_BACKEND %q", cfg.Revocation.Backend)
	}

	return cfg, nil
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

// AccessTokenTTL returns the credential validity window.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// PasswordResetTTL returns how long a reset token stays usable.
func (a AuthConfig) PasswordResetTTL() time.Duration {
	return time.Duration(a.PasswordResetTTLMinutes) * time.Minute
}

// PruneInterval returns zero when pruning is disabled.
func (r RevocationConfig) PruneInterval() time.Duration {
	if r.PruneIntervalMinutes <= 0 {
		return 0
	}
	return time.Duration(r.PruneIntervalMinutes) * time.Minute
}

// Retention returns how long activities are kept.
func (a ActivityConfig) Retention() time.Duration {
	return time.Duration(a.RetentionHours) * time.Hour
}

// PruneInterval returns zero when pruning is disabled.
func (a ActivityConfig) PruneInterval() time.Duration {
	if a.PruneIntervalMinutes <= 0 {
		return 0
	}
	return time.Duration(a.PruneIntervalMinutes) * time.Minute
}

// Timeout returns the SMTP dial timeout.
func (m MailConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSec) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
