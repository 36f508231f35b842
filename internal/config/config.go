package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session store backends
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds all configuration for closet-profile
type Config struct {
	Server   ServerConfig
	Session  SessionConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Catalog  CatalogConfig
	Export   ExportConfig
	Share    ShareConfig
	Cleanup  CleanupConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AssetsDir      string
	RequestTimeout time.Duration
}

// SessionConfig holds session lifecycle configuration
type SessionConfig struct {
	Store         string
	TTL           time.Duration
	ExportLockTTL time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	DSN           string
	MigrationsDir string
}

// CatalogConfig points at an optional flow file; empty uses the built-in flow
type CatalogConfig struct {
	Path string
}

// ExportConfig holds PDF summary configuration
type ExportConfig struct {
	FontDir   string
	LogoPath  string
	Signature string
}

// ShareConfig holds the e-mail share surface configuration
type ShareConfig struct {
	Enabled  bool
	Region   string
	From     string
	StudioTo string
	CcClient bool
}

// CleanupConfig holds cleanup worker configuration
type CleanupConfig struct {
	Interval time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load reads .env (when present) and then environment variables
func Load() (*Config, error) {
	loadEnvFile(getEnv("ENV_FILE", ".env"))

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AssetsDir:      getEnv("ASSETS_DIR", "./assets"),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 60*time.Second),
		},
		Session: SessionConfig{
			Store:         strings.ToLower(getEnv("SESSION_STORE", StoreMemory)),
			TTL:           getEnvAsDuration("SESSION_TTL", 2*time.Hour),
			ExportLockTTL: getEnvAsDuration("EXPORT_LOCK_TTL", 30*time.Second),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			DSN:           getEnv("DATABASE_DSN", ""),
			MigrationsDir: getEnv("MIGRATIONS_DIR", ""),
		},
		Catalog: CatalogConfig{
			Path: getEnv("CATALOG_PATH", ""),
		},
		Export: ExportConfig{
			FontDir:   getEnv("EXPORT_FONT_DIR", ""),
			LogoPath:  getEnv("EXPORT_LOGO_PATH", "./assets/images/icons/Logo.png"),
			Signature: getEnv("EXPORT_SIGNATURE", ""),
		},
		Share: ShareConfig{
			Enabled:  getEnvAsBool("SHARE_ENABLED", false),
			Region:   getEnv("SHARE_AWS_REGION", "us-east-1"),
			From:     getEnv("SHARE_FROM", ""),
			StudioTo: getEnv("SHARE_STUDIO_TO", ""),
			CcClient: getEnvAsBool("SHARE_CC_CLIENT", true),
		},
		Cleanup: CleanupConfig{
			Interval: getEnvAsDuration("CLEANUP_INTERVAL", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	switch c.Session.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("redis address is required for the redis store")
		}
	case StorePostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}

	if c.Share.Enabled && (c.Share.From == "" || c.Share.StudioTo == "") {
		return fmt.Errorf("share requires SHARE_FROM and SHARE_STUDIO_TO")
	}

	return nil
}

// SlogLevel maps the configured level name onto slog
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Helper functions

func loadEnvFile(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	// Existing environment variables win over the file
	if err := godotenv.Load(path); err != nil {
		slog.Warn("failed to load env file", "path", path, "error", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
