package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/kitbuilder587/ticket-bot/internal/discovery"
)

var (
	ErrMissingToken    = errors.New("TELEGRAM_BOT_TOKEN is required")
	ErrMissingDB       = errors.New("DATABASE_URL is required")
	ErrMissingAPIKey   = errors.New("TICKETMASTER_API_KEY is required")
	ErrInvalidPageSize = errors.New("DEFAULT_PAGE_SIZE must be between 1 and 50")
)

const maxPageSize = 50

type Config struct {
	Telegram     TelegramConfig
	Database     DatabaseConfig
	Ticketmaster TicketmasterConfig
	Log          LogConfig
	RateLimit    RateLimitConfig
	Metrics      MetricsConfig
	Bot          BotConfig
	Cache        CacheConfig
}

type TelegramConfig struct {
	Token string
}

type DatabaseConfig struct {
	URL string
}

type TicketmasterConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type LogConfig struct {
	Level string
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type MetricsConfig struct {
	Addr string
}

type CacheConfig struct {
	// EventTTL is how long events fetched by ID are reused; 0 disables the cache.
	EventTTL time.Duration
	// RedisURL switches the cache from process memory to Redis when set.
	RedisURL string
}

type BotConfig struct {
	// PageSize is how many results one reply lists.
	PageSize int
}

// Load reads the configuration from the environment. A .env file in the
// working directory, if any, is loaded first and never overrides variables
// that are already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Ticketmaster: TicketmasterConfig{
			APIKey:  os.Getenv("TICKETMASTER_API_KEY"),
			BaseURL: getEnvOrDefault("TICKETMASTER_BASE_URL", discovery.DefaultBaseURL),
			Timeout: time.Duration(getEnvIntOrDefault("TICKETMASTER_TIMEOUT_SEC", 30)) * time.Second,
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 10),
		},
		Metrics: MetricsConfig{
			Addr: getEnvOrDefault("METRICS_ADDR", ":9090"),
		},
		Bot: BotConfig{
			PageSize: getEnvIntOrDefault("DEFAULT_PAGE_SIZE", 5),
		},
		Cache: CacheConfig{
			EventTTL: time.Duration(getEnvIntOrDefault("EVENT_CACHE_TTL_SEC", 300)) * time.Second,
			RedisURL: os.Getenv("REDIS_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return ErrMissingToken
	}
	if c.Database.URL == "" {
		return ErrMissingDB
	}
	if c.Ticketmaster.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Bot.PageSize < 1 || c.Bot.PageSize > maxPageSize {
		return ErrInvalidPageSize
	}
	return nil
}

// DiscoveryConfig converts the Ticketmaster section for discovery.New.
func (c *Config) DiscoveryConfig() discovery.Config {
	return discovery.Config{
		APIKey:  c.Ticketmaster.APIKey,
		BaseURL: c.Ticketmaster.BaseURL,
		Timeout: c.Ticketmaster.Timeout,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
