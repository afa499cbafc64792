package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/susu3304/pokerpal/internal/settlement"
)

type Config struct {
	// Database
	DatabaseURL string

	// Redis cache for shared games (optional)
	RedisURL string
	CacheTTL time.Duration

	// Web Server
	WebBind       string
	PublicBaseURL string

	// Session
	JWTSecret string
	TokenTTL  time.Duration

	// Games
	DefaultCurrency settlement.CurrencyUnit
	SaveTimeout     time.Duration

	// Discord Bot (optional)
	DiscordToken string

	// Discord OAuth2 (optional)
	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURI  string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is honoured when present.
func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisURL:            os.Getenv("REDIS_URL"),
		WebBind:             getEnvDefault("WEB_BIND", "0.0.0.0:3000"),
		JWTSecret:           getEnvDefault("JWT_SECRET", "dev-only-change-me"),
		DiscordToken:        os.Getenv("DISCORD_TOKEN"),
		DiscordClientID:     os.Getenv("DISCORD_CLIENT_ID"),
		DiscordClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
		DiscordRedirectURI:  getEnvDefault("DISCORD_REDIRECT_URI", "http://localhost:3000/api/auth/discord/callback"),
		LogLevel:            getEnvDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvDefault("LOG_FORMAT", "console"),
	}

	baseURL, err := normalizeBaseURL(getEnvDefault("PUBLIC_BASE_URL", "http://localhost:3000"))
	if err != nil {
		return nil, err
	}
	cfg.PublicBaseURL = baseURL

	if cfg.TokenTTL, err = getDurationDefault("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SaveTimeout, err = getDurationDefault("SAVE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDurationDefault("CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}

	code := getEnvDefault("DEFAULT_CURRENCY", settlement.DefaultCurrency.Code)
	currency, ok := settlement.LookupCurrency(code)
	if !ok {
		return nil, fmt.Errorf("DEFAULT_CURRENCY %q is not supported", code)
	}
	cfg.DefaultCurrency = currency

	switch cfg.LogFormat {
	case "console", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be console or json, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

// RequireDatabase fails when no database is configured. Only commands that
// touch storage need one.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

func (c *Config) DiscordBotEnabled() bool {
	return c.DiscordToken != ""
}

func (c *Config) DiscordOAuthEnabled() bool {
	return c.DiscordClientID != "" && c.DiscordClientSecret != ""
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

// normalizeBaseURL keeps scheme and host only, e.g.
// "https://pokerpal.example/app/" -> "https://pokerpal.example".
func normalizeBaseURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("PUBLIC_BASE_URL %q is not an absolute URL", raw)
	}
	return fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host), nil
}
