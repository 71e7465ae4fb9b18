package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	ExchangeAPI ExchangeAPIConfig `yaml:"exchange_api"`
	Cache       CacheConfig       `yaml:"cache"`
	History     HistoryConfig     `yaml:"history"`
	Refresh     RefreshConfig     `yaml:"refresh"`
	Display     DisplayConfig     `yaml:"display"`
	Log         LogConfig         `yaml:"log"`
	Favorites   []string          `yaml:"favorites"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type ExchangeAPIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	RefreshRate  time.Duration `yaml:"refresh_rate"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// CacheConfig controls the per-base snapshot cache in front of the upstream.
// A zero TTL disables it.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type HistoryConfig struct {
	Backend       string `yaml:"backend"`
	MaxPoints     int    `yaml:"max_points"`
	DBPath        string `yaml:"db_path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type RefreshConfig struct {
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

type DisplayConfig struct {
	Timezone  string `yaml:"timezone"`
	Precision int    `yaml:"precision"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// LoadConfig builds the configuration from defaults, then the YAML file named
// by CONFIG_FILE (if any), then environment variables.
func LoadConfig() (*Config, error) {
	config := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, err
		}
	}

	applyEnv(config)

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		ExchangeAPI: ExchangeAPIConfig{
			BaseURL:      "https://open.er-api.com",
			Timeout:      10 * time.Second,
			RefreshRate:  1 * time.Hour,
			MaxRetries:   2,
			RetryBackoff: 500 * time.Millisecond,
		},
		Cache: CacheConfig{
			TTL: 0,
		},
		History: HistoryConfig{
			Backend:   BackendSQLite,
			MaxPoints: 20,
			DBPath:    "history.db",
			RedisAddr: "localhost:6379",
		},
		Refresh: RefreshConfig{
			Concurrency: 8,
			Timeout:     20 * time.Second,
		},
		Display: DisplayConfig{
			Timezone:  "UTC",
			Precision: 4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func applyEnv(config *Config) {
	config.Server.Port = getEnvInt("SERVER_PORT", config.Server.Port)
	config.Server.ReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", config.Server.ReadTimeout)
	config.Server.WriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", config.Server.WriteTimeout)
	config.Server.IdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", config.Server.IdleTimeout)

	config.ExchangeAPI.BaseURL = getEnvString("EXCHANGE_API_BASE_URL", config.ExchangeAPI.BaseURL)
	config.ExchangeAPI.Timeout = getEnvDuration("EXCHANGE_API_TIMEOUT", config.ExchangeAPI.Timeout)
	config.ExchangeAPI.RefreshRate = getEnvDuration("EXCHANGE_API_REFRESH_RATE", config.ExchangeAPI.RefreshRate)
	config.ExchangeAPI.MaxRetries = getEnvInt("EXCHANGE_API_MAX_RETRIES", config.ExchangeAPI.MaxRetries)
	config.ExchangeAPI.RetryBackoff = getEnvDuration("EXCHANGE_API_RETRY_BACKOFF", config.ExchangeAPI.RetryBackoff)

	config.Cache.TTL = getEnvDuration("CACHE_TTL", config.Cache.TTL)

	config.History.Backend = strings.ToLower(getEnvString("HISTORY_BACKEND", config.History.Backend))
	config.History.MaxPoints = getEnvInt("HISTORY_MAX_POINTS", config.History.MaxPoints)
	config.History.DBPath = getEnvString("HISTORY_DB_PATH", config.History.DBPath)
	config.History.RedisAddr = getEnvString("REDIS_ADDR", config.History.RedisAddr)
	config.History.RedisPassword = getEnvString("REDIS_PASSWORD", config.History.RedisPassword)
	config.History.RedisDB = getEnvInt("REDIS_DB", config.History.RedisDB)

	config.Refresh.Concurrency = getEnvInt("REFRESH_CONCURRENCY", config.Refresh.Concurrency)
	config.Refresh.Timeout = getEnvDuration("REFRESH_TIMEOUT", config.Refresh.Timeout)

	config.Display.Timezone = getEnvString("DISPLAY_TIMEZONE", config.Display.Timezone)
	config.Display.Precision = getEnvInt("DISPLAY_PRECISION", config.Display.Precision)

	config.Log.Level = getEnvString("LOG_LEVEL", config.Log.Level)
	config.Log.Format = getEnvString("LOG_FORMAT", config.Log.Format)

	if favorites := os.Getenv("FAVORITES"); favorites != "" {
		config.Favorites = splitList(favorites)
	}
}

func (c *Config) validate() error {
	switch c.History.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown history backend %q", c.History.Backend)
	}

	if c.History.MaxPoints <= 0 {
		return fmt.Errorf("history max points must be positive, got %d", c.History.MaxPoints)
	}

	if c.ExchangeAPI.RefreshRate <= 0 {
		return fmt.Errorf("refresh rate must be positive, got %s", c.ExchangeAPI.RefreshRate)
	}

	if c.Refresh.Timeout <= 0 {
		return fmt.Errorf("refresh timeout must be positive, got %s", c.Refresh.Timeout)
	}

	if _, err := time.LoadLocation(c.Display.Timezone); err != nil {
		return fmt.Errorf("invalid display timezone %q: %w", c.Display.Timezone, err)
	}

	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s, using default: %d\n", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		fmt.Printf("Warning: Invalid duration for %s, using default: %s\n", key, defaultValue)
		return defaultValue
	}

	return value
}
