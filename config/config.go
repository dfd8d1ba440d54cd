package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"

	"github.com/thyagolima23/cozinha-backend/database"
	"github.com/thyagolima23/cozinha-backend/utils"
)

const (
	DefaultPort   = "8083"
	DefaultDSN    = "host=localhost user=postgres password=postgres dbname=cozinha port=5432 sslmode=disable"
	DefaultOrigin = "http://localhost:3000"

	devJWTSecret = "cozinha-dev-secret"
)

type Config struct {
	Port           string
	DatabaseDSN    string
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
	TrustedProxies []string
	GinMode        string
	LogLevel       string
	DBLogLevel     logger.LogLevel
	Location       *time.Location

	// DevSecret is set when JWTSecret fell back to the built-in development value.
	DevSecret bool
}

// LoadEnvFile loads key=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getenv("PORT", DefaultPort),
		DatabaseDSN:    getenv("DATABASE_DSN", DefaultDSN),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		GinMode:        getenv("GIN_MODE", gin.DebugMode),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS", DefaultOrigin)),
		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
	}

	var errs []error

	ttl, err := time.ParseDuration(getenv("TOKEN_TTL", utils.DefaultTokenTTL.String()))
	if err != nil {
		errs = append(errs, fmt.Errorf("TOKEN_TTL: %w", err))
	}
	cfg.TokenTTL = ttl

	cfg.DBLogLevel, err = database.ParseLogLevel(os.Getenv("DB_LOG_LEVEL"))
	if err != nil {
		errs = append(errs, fmt.Errorf("DB_LOG_LEVEL: %w", err))
	}

	cfg.Location, err = time.LoadLocation(getenv("TIMEZONE", "Local"))
	if err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}

	if cfg.JWTSecret == "" && cfg.GinMode != gin.ReleaseMode {
		cfg.JWTSecret = devJWTSecret
		cfg.DevSecret = true
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT: invalid port %q", c.Port))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN: required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET: required in release mode"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL: must be positive, got %s", c.TokenTTL))
	}
	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		errs = append(errs, fmt.Errorf("GIN_MODE: unknown mode %q", c.GinMode))
	}
	if len(c.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("ALLOWED_ORIGINS: at least one origin is required"))
	}

	return errors.Join(errs...)
}

// LogValue keeps the secret and DSN out of logs.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("port", c.Port),
		slog.String("gin_mode", c.GinMode),
		slog.String("log_level", c.LogLevel),
		slog.Duration("token_ttl", c.TokenTTL),
		slog.Any("allowed_origins", c.AllowedOrigins),
		slog.Any("trusted_proxies", c.TrustedProxies),
		slog.String("timezone", c.Location.String()),
	)
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
