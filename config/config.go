package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=breadthpulse
//	REDIS_ENABLED=true
//	REDIS_ADDR=localhost:6379
//	BREADTH_FETCH_TIMEOUT=2s
//	BREADTH_GRANULARITIES=daily,weekly
//	BREADTH_UNIVERSE_FILE=universes.yaml
//	RATE_LIMIT_RPS=20
type Config struct {
	Server    ServerConfig    // HTTP server configuration
	Postgres  PostgresConfig  // PostgreSQL connection settings
	Redis     RedisConfig     // Universe cache
	Breadth   BreadthConfig   // Engine tuning
	RateLimit RateLimitConfig // Per-IP request limits
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        // The TCP port the HTTP server will listen on (e.g., "8080")
	RequestTimeout time.Duration // Per-request deadline
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// RedisConfig configures the Redis tier of the universe cache.
// When Enabled is false only the in-process memo is used.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// BreadthConfig tunes the aggregation engine.
//
// Fields:
//   - FetchTimeout: deadline of the price window fetch.
//   - MaxLookback: cap on bars requested per symbol.
//   - Parallelism: calculators run concurrently; 0 picks min(8, NumCPU).
//   - Granularities: accepted bar sizes.
//   - UniverseFile: optional YAML file with static universes, consulted before Postgres.
type BreadthConfig struct {
	FetchTimeout  time.Duration
	MaxLookback   int
	Parallelism   int
	Granularities []string
	UniverseFile  string
}

// RateLimitConfig sets the per-IP token bucket. RPS 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or out of range, validateConfig() will
//     terminate the app with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_REQUEST_TIMEOUT", "10s")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "breadthpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_TTL", "5m")

	viper.SetDefault("BREADTH_FETCH_TIMEOUT", "2s")
	viper.SetDefault("BREADTH_MAX_LOOKBACK", 260)
	viper.SetDefault("BREADTH_PARALLELISM", 0)
	viper.SetDefault("BREADTH_GRANULARITIES", "daily")
	viper.SetDefault("BREADTH_UNIVERSE_FILE", "")

	viper.SetDefault("RATE_LIMIT_RPS", 20)
	viper.SetDefault("RATE_LIMIT_BURST", 40)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			RequestTimeout: viper.GetDuration("SERVER_REQUEST_TIMEOUT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Redis: RedisConfig{
			Enabled:  viper.GetBool("REDIS_ENABLED"),
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			TTL:      viper.GetDuration("REDIS_TTL"),
		},
		Breadth: BreadthConfig{
			FetchTimeout:  viper.GetDuration("BREADTH_FETCH_TIMEOUT"),
			MaxLookback:   viper.GetInt("BREADTH_MAX_LOOKBACK"),
			Parallelism:   viper.GetInt("BREADTH_PARALLELISM"),
			Granularities: splitList(viper.GetString("BREADTH_GRANULARITIES")),
			UniverseFile:  viper.GetString("BREADTH_UNIVERSE_FILE"),
		},
		RateLimit: RateLimitConfig{
			RPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst: viper.GetInt("RATE_LIMIT_BURST"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	// Validate critical fields
	validateConfig()
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// problems lists missing or invalid settings of AppConfig.
func problems() []string {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if AppConfig.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if AppConfig.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if AppConfig.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if AppConfig.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if AppConfig.Redis.Enabled && AppConfig.Redis.Addr == "" {
		missing = append(missing, "REDIS_ADDR")
	}
	if AppConfig.Breadth.FetchTimeout <= 0 {
		missing = append(missing, "BREADTH_FETCH_TIMEOUT")
	}
	if AppConfig.Breadth.MaxLookback <= 0 {
		missing = append(missing, "BREADTH_MAX_LOOKBACK")
	}
	if AppConfig.Breadth.Parallelism < 0 {
		missing = append(missing, "BREADTH_PARALLELISM")
	}
	if len(AppConfig.Breadth.Granularities) == 0 {
		missing = append(missing, "BREADTH_GRANULARITIES")
	}
	if AppConfig.RateLimit.RPS < 0 {
		missing = append(missing, "RATE_LIMIT_RPS")
	}
	return missing
}

// validateConfig terminates the application when required settings are
// missing or invalid.
func validateConfig() {
	if missing := problems(); len(missing) > 0 {
		log.Fatalf("missing or invalid configuration: %v\n", missing)
	}
}
