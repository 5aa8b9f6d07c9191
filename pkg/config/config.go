package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/wonny/rsystem/internal/contracts"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Upstream high/low API
	HighLow HighLowConfig

	// Cache
	Cache CacheConfig

	// Redis (only used when Cache.Backend == "redis")
	Redis RedisConfig

	// Screener
	Screener ScreenerConfig

	// Dashboard
	Dashboard DashboardConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// HighLowConfig holds the upstream breakout API configuration
type HighLowConfig struct {
	BaseURL       string
	SingleTimeout time.Duration // per-stock quote and candle calls
	BulkTimeout   time.Duration // snapshot and batch calls
	RateLimit     float64       // per-stock lookups per second, 0 = unlimited
}

// CacheConfig holds read-through cache configuration
type CacheConfig struct {
	TTL             time.Duration
	Backend         string // memory, redis
	JanitorSchedule string // cron expression with seconds field
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// ScreenerConfig holds ranking pipeline settings
type ScreenerConfig struct {
	RankingSources      []string
	RankingMetric       string
	CandleCloseFallback bool
}

// DashboardConfig holds presentation settings
type DashboardConfig struct {
	ExcludeCodes []string
	Passwords    []string
	SessionTTL   time.Duration
	Links        LinkConfig
}

// LinkConfig holds outbound link templates; "%s" is replaced by the stock code
type LinkConfig struct {
	Detail  string `toml:"detail"`
	Finance string `toml:"finance"`
	News    string `toml:"news"`
}

// fileOverlay mirrors the optional TOML settings file
type fileOverlay struct {
	RankingSources []string    `toml:"ranking_sources"`
	RankingMetric  string      `toml:"ranking_metric"`
	ExcludeCodes   []string    `toml:"exclude_codes"`
	Passwords      []string    `toml:"passwords"`
	Links          *LinkConfig `toml:"links"`
}

// Load reads configuration from environment variables
// ⭐ SSOT: only this function calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cacheBackend := strings.ToLower(getEnv("CACHE_BACKEND", "memory"))

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		HighLow: HighLowConfig{
			BaseURL:       strings.TrimRight(getEnv("HIGHLOW_BASE_URL", "https://app.kumagai-stock.com"), "/"),
			SingleTimeout: getEnvAsDuration("HIGHLOW_SINGLE_TIMEOUT", "10s"),
			BulkTimeout:   getEnvAsDuration("HIGHLOW_BULK_TIMEOUT", "30s"),
			RateLimit:     getEnvAsFloat("HIGHLOW_RATE_LIMIT", 5),
		},

		Cache: CacheConfig{
			TTL:             getEnvAsDuration("CACHE_TTL", "30m"),
			Backend:         cacheBackend,
			JanitorSchedule: getEnv("CACHE_JANITOR_SCHEDULE", "0 */5 * * * *"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  cacheBackend == "redis",
		},

		Screener: ScreenerConfig{
			RankingSources:      getEnvAsList("RANKING_SOURCES", "today,yesterday,target2day,target3day"),
			RankingMetric:       strings.ToLower(getEnv("RANKING_METRIC", "range")),
			CandleCloseFallback: getEnvAsBool("CANDLE_CLOSE_FALLBACK", false),
		},

		Dashboard: DashboardConfig{
			ExcludeCodes: getEnvAsList("EXCLUDE_CODES", "9501,9432,7203"),
			Passwords:    getEnvAsList("DASHBOARD_PASSWORDS", ""),
			SessionTTL:   getEnvAsDuration("SESSION_TTL", "12h"),
			Links:        DefaultLinks(),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadWithFile loads the environment configuration and applies a TOML overlay on top
func LoadWithFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := cfg.ApplyTOML(data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyTOML overrides screener and dashboard settings from a TOML document
func (c *Config) ApplyTOML(data []byte) error {
	var overlay fileOverlay
	if err := toml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if len(overlay.RankingSources) > 0 {
		c.Screener.RankingSources = overlay.RankingSources
	}
	if overlay.RankingMetric != "" {
		c.Screener.RankingMetric = strings.ToLower(overlay.RankingMetric)
	}
	if overlay.ExcludeCodes != nil {
		c.Dashboard.ExcludeCodes = overlay.ExcludeCodes
	}
	if overlay.Passwords != nil {
		c.Dashboard.Passwords = overlay.Passwords
	}
	if overlay.Links != nil {
		if overlay.Links.Detail != "" {
			c.Dashboard.Links.Detail = overlay.Links.Detail
		}
		if overlay.Links.Finance != "" {
			c.Dashboard.Links.Finance = overlay.Links.Finance
		}
		if overlay.Links.News != "" {
			c.Dashboard.Links.News = overlay.Links.News
		}
	}

	return c.validate()
}

// DefaultLinks returns the research site link templates
func DefaultLinks() LinkConfig {
	return LinkConfig{
		Detail:  "https://kabuka-check-app.onrender.com/?code=%s",
		Finance: "https://kabutan.jp/stock/finance?code=%s",
		News:    "https://kabutan.jp/stock/news?code=%s",
	}
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.HighLow.BaseURL == "" {
		return fmt.Errorf("HIGHLOW_BASE_URL is required")
	}

	if c.HighLow.SingleTimeout <= 0 || c.HighLow.BulkTimeout <= 0 {
		return fmt.Errorf("upstream timeouts must be positive")
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, redis")
	}

	if c.Screener.RankingMetric != "range" && c.Screener.RankingMetric != "high" {
		return fmt.Errorf("RANKING_METRIC must be one of: range, high")
	}

	if len(c.Screener.RankingSources) == 0 {
		return fmt.Errorf("RANKING_SOURCES must name at least one source")
	}

	if _, err := contracts.ParseSources(c.Screener.RankingSources); err != nil {
		return fmt.Errorf("RANKING_SOURCES: %w", err)
	}

	for name, tmpl := range map[string]string{
		"detail":  c.Dashboard.Links.Detail,
		"finance": c.Dashboard.Links.Finance,
		"news":    c.Dashboard.Links.News,
	} {
		if tmpl == "" {
			continue
		}
		// the code is the only substitution; any other % would garble the URL
		if strings.Count(tmpl, "%s") != 1 || strings.Count(tmpl, "%") != 1 {
			return fmt.Errorf("links.%s must contain exactly one %%s and no other %%: %q", name, tmpl)
		}
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string, defaultValue string) []string {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		valueStr = defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
