package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a literal fallback so the service starts against a local
// MySQL with no environment at all.
type Config struct {
	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database
	DBHost      string
	DBPort      string
	DBUser      string
	DBPass      string
	DBName      string
	DBMaxConns  int
	DBCollation string

	// Migrations are off by default: the schema is owned by the main application.
	RunMigrations  bool
	MigrationsPath string

	// Opt-in admission control for /api/stats. RateLimitRPS == 0 (the default)
	// disables the limiter and leaves the pool queue as the only backpressure.
	RateLimitRPS   int
	RateLimitBurst int

	// ExposeDBErrors echoes raw driver errors in response bodies instead of a
	// generic message. Only for clients that depend on the old payloads.
	ExposeDBErrors bool

	LogLevel zapcore.Level
}

// Load reads the optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development; a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "3306"),
		DBUser:      getEnv("DB_USER", "root"),
		DBPass:      getEnv("DB_PASS", "collado"),
		DBName:      getEnv("DB_NAME", "instasorteo"),
		DBMaxConns:  getInt("DB_MAX_CONNS", 10),
		DBCollation: getEnv("DB_COLLATION", "utf8mb4_general_ci"),

		RunMigrations:  getBool("RUN_MIGRATIONS", false),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),

		RateLimitRPS:   getInt("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 100),

		ExposeDBErrors: getBool("EXPOSE_DB_ERRORS", false),
	}

	level, err := zapcore.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if cfg.DBMaxConns <= 0 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be positive, got %d", cfg.DBMaxConns)
	}
	if cfg.RateLimitRPS < 0 || cfg.RateLimitBurst < 0 {
		return nil, fmt.Errorf("rate limit settings must not be negative")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
