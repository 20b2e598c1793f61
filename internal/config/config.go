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

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Env             string         // development, production
	HTTPPort        string         // default 3000
	StoreDriver     string         // mongo or postgres
	MongoURI        string         // mongodb connection string
	DBName          string         // explicit database name, empty means derive from MongoURI
	PostgresDSN     string         // required when StoreDriver is postgres
	FrontendURL     string         // the one browser origin allowed by CORS
	Location        *time.Location // clinic time zone used to resolve "today"
	LogLevel        string         // zerolog level name
	MaxBodyBytes    int64          // request payload cap
	ConnectTimeout  time.Duration  // store connect + ping at startup
	ShutdownTimeout time.Duration  // graceful shutdown timeout
}

// IsProduction reports whether error details must be hidden from clients.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPPort:        getEnv("PORT", "3000"),
		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017/dental-clinic"),
		DBName:          os.Getenv("DB_NAME"),
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ConnectTimeout:  getDuration("CONNECT_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	switch cfg.StoreDriver {
	case DriverMongo:
	case DriverPostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, errors.New("POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	maxBody, err := getInt64("MAX_BODY_BYTES", 10<<20)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxBodyBytes = maxBody

	cfg.Location = time.Local
	if tz := os.Getenv("CLINIC_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CLINIC_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		fmt.Fprintf(os.Stderr, "invalid duration for %s=%q, using default %s\n", key, v, def)
	}
	return def
}

func getInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s=%q: must be a positive integer", key, v)
	}
	return n, nil
}
