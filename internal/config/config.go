package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config contains application configuration.
type Config struct {
	AppEnv   string
	HTTPAddr string

	DBDriver   string
	PGHost     string
	PGPort     string
	PGUser     string
	PGPassword string
	PGDatabase string
	SQLitePath string

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	RedisHost     string
	RedisPort     string
	RedisPassword string

	CORSAllowedOrigins []string
	LoginRateLimit     float64
	LoginRateBurst     int
	StatsCacheTTL      time.Duration
}

// Load reads configuration from environment variables and .env.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		PGHost:        getEnv("PG_HOST", "localhost"),
		PGPort:        getEnv("PG_PORT", "5432"),
		PGUser:        os.Getenv("PG_USER"),
		PGPassword:    os.Getenv("PG_PASSWORD"),
		PGDatabase:    os.Getenv("PG_DB"),
		SQLitePath:    getEnv("SQLITE_PATH", "astra.db"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.PGUser == "" || cfg.PGDatabase == "" {
			return Config{}, fmt.Errorf("PG_USER and PG_DB are required for the postgres driver")
		}
	case DriverSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	var err error
	if cfg.AccessTTL, err = getDuration("JWT_ACCESS_TTL", 60*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTTL, err = getDuration("JWT_REFRESH_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.StatsCacheTTL, err = getDuration("STATS_CACHE_TTL", 15*time.Second); err != nil {
		return Config{}, err
	}

	if cfg.LoginRateLimit, err = strconv.ParseFloat(getEnv("LOGIN_RATE_LIMIT", "1"), 64); err != nil {
		return Config{}, fmt.Errorf("LOGIN_RATE_LIMIT: %w", err)
	}
	if cfg.LoginRateBurst, err = strconv.Atoi(getEnv("LOGIN_RATE_BURST", "5")); err != nil {
		return Config{}, fmt.Errorf("LOGIN_RATE_BURST: %w", err)
	}

	origins := getEnv("CORS_ALLOWED_ORIGINS", "https://*,http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	return cfg, nil
}

// PostgresDSN builds the connection string from the PG_* settings.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

// RedisEnabled reports whether a redis host was configured.
func (c Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
