package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config carries every runtime setting for the tracking service. Values come
// from the environment with an optional .env overlay for local runs.
type Config struct {
	ServiceName string
	HTTPPort    int

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitHost     string
	RabbitPort     int
	RabbitUser     string
	RabbitPassword string

	JWTSecret    string
	JWTAccessTTL time.Duration

	LocationCacheTTL time.Duration
}

// Load reads configuration from the environment (with .env overlay) and
// validates required fields.
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "tracking-service"))
	cfg.HTTPPort = cast.ToInt(getOrReturnDefault("HTTP_PORT", 3003))

	cfg.PostgresHost = cast.ToString(getOrReturnDefault("POSTGRES_HOST", "localhost"))
	cfg.PostgresPort = cast.ToInt(getOrReturnDefault("POSTGRES_PORT", 5432))
	cfg.PostgresUser = cast.ToString(getOrReturnDefault("POSTGRES_USER", "postgres"))
	cfg.PostgresPassword = cast.ToString(getOrReturnDefault("POSTGRES_PASSWORD", ""))
	cfg.PostgresDB = cast.ToString(getOrReturnDefault("POSTGRES_DB", "foodtrack"))

	cfg.RedisAddr = cast.ToString(getOrReturnDefault("REDIS_ADDR", "localhost:6379"))
	cfg.RedisPassword = cast.ToString(getOrReturnDefault("REDIS_PASSWORD", ""))
	cfg.RedisDB = cast.ToInt(getOrReturnDefault("REDIS_DB", 0))

	cfg.RabbitHost = cast.ToString(getOrReturnDefault("RABBITMQ_HOST", "localhost"))
	cfg.RabbitPort = cast.ToInt(getOrReturnDefault("RABBITMQ_PORT", 5672))
	cfg.RabbitUser = cast.ToString(getOrReturnDefault("RABBITMQ_USER", "guest"))
	cfg.RabbitPassword = cast.ToString(getOrReturnDefault("RABBITMQ_PASSWORD", "guest"))

	cfg.JWTSecret = cast.ToString(getOrReturnDefault("JWT_SECRET", ""))
	cfg.JWTAccessTTL = cast.ToDuration(getOrReturnDefault("JWT_ACCESS_TTL", "2h"))

	cfg.LocationCacheTTL = cast.ToDuration(getOrReturnDefault("LOCATION_CACHE_TTL", "5m"))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// validate checks required fields and basic ranges.
func (c Config) validate() error {
	var problems []string

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		problems = append(problems, "HTTP_PORT must be in 1..65535")
	}
	if c.PostgresUser == "" {
		problems = append(problems, "POSTGRES_USER is required")
	}
	if c.PostgresDB == "" {
		problems = append(problems, "POSTGRES_DB is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.LocationCacheTTL <= 0 {
		problems = append(problems, "LOCATION_CACHE_TTL must be positive")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
