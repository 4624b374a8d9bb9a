package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Port string `yaml:"port"`
	Env  string `yaml:"env"`

	DBDriver    string `yaml:"db_driver"`
	DatabaseDSN string `yaml:"database_dsn"`

	SearchBackend string `yaml:"search_backend"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`

	CacheBackend   string        `yaml:"cache_backend"`
	MemcachedHost  string        `yaml:"memcached_host"`
	RedisAddr      string        `yaml:"redis_addr"`
	RedisPassword  string        `yaml:"redis_password"`
	SearchCacheTTL time.Duration `yaml:"search_cache_ttl"`

	RabbitMQURL     string `yaml:"rabbitmq_url"`
	PropertiesQueue string `yaml:"properties_queue"`

	JWTSecret string        `yaml:"jwt_secret"`
	JWTExpiry time.Duration `yaml:"jwt_expiry"`

	CompletionSchedule string `yaml:"completion_schedule"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Port:               "8080",
		Env:                "development",
		DBDriver:           "sqlite",
		DatabaseDSN:        "file:rentals.db?_foreign_keys=on",
		SearchBackend:      "sql",
		MongoDatabase:      "rentals",
		CacheBackend:       "none",
		MemcachedHost:      "localhost:11211",
		RedisAddr:          "localhost:6379",
		SearchCacheTTL:     5 * time.Minute,
		PropertiesQueue:    "properties_queue",
		JWTSecret:          "dev-secret-change-me",
		JWTExpiry:          24 * time.Hour,
		CompletionSchedule: "@hourly",
		LogLevel:           "info",
		LogFormat:          "json",
	}
}

// LoadConfig builds the configuration in layers: defaults, then the optional
// YAML file at path, then a .env file, then the process environment.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.SearchBackend = getEnv("SEARCH_BACKEND", cfg.SearchBackend)
	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDatabase = getEnv("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.CacheBackend = getEnv("CACHE_BACKEND", cfg.CacheBackend)
	cfg.MemcachedHost = getEnv("MEMCACHED_HOST", cfg.MemcachedHost)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RabbitMQURL = getEnv("RABBITMQ_URL", cfg.RabbitMQURL)
	cfg.PropertiesQueue = getEnv("PROPERTIES_QUEUE", cfg.PropertiesQueue)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.CompletionSchedule = getEnv("COMPLETION_SCHEDULE", cfg.CompletionSchedule)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	var err error
	if cfg.SearchCacheTTL, err = getDuration("SEARCH_CACHE_TTL", cfg.SearchCacheTTL); err != nil {
		return nil, err
	}
	if cfg.JWTExpiry, err = getDuration("JWT_EXPIRY", cfg.JWTExpiry); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be mysql, postgres or sqlite, got %q", c.DBDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN is required"))
	}
	switch c.SearchBackend {
	case "sql", "memory":
	case "mongo":
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required when SEARCH_BACKEND=mongo"))
		}
	default:
		errs = append(errs, fmt.Errorf("SEARCH_BACKEND must be sql, mongo or memory, got %q", c.SearchBackend))
	}
	switch c.CacheBackend {
	case "none", "memcached", "redis":
	default:
		errs = append(errs, fmt.Errorf("CACHE_BACKEND must be memcached, redis or none, got %q", c.CacheBackend))
	}
	if c.SearchCacheTTL <= 0 {
		errs = append(errs, errors.New("SEARCH_CACHE_TTL must be positive"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTExpiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY must be positive"))
	}
	if c.IsProduction() && c.JWTSecret == Default().JWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be changed in production"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// getEnv returns an environment variable or a fallback value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
