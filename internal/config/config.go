// Package config loads process settings from the environment. A .env file in
// the working directory is read first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type MockStoreKind string

const (
	MockStoreMemory MockStoreKind = "memory"
	MockStoreBadger MockStoreKind = "badger"
)

type AirtableConfig struct {
	BaseURI   string
	BaseID    string
	TableID   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64
}

// Config is read once at startup and treated as immutable.
type Config struct {
	Env      string
	LogLevel string

	ServerPort string
	APIBaseURL string

	UseMockAPI bool
	Airtable   AirtableConfig

	MockStore     MockStoreKind
	MockStorePath string

	RedisAddr string
	CacheTTL  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:        getEnvString("APP_ENV", "development"),
		LogLevel:   getEnvString("LOG_LEVEL", "info"),
		ServerPort: getEnvString("SERVER_PORT", "5173"),
		APIBaseURL: getEnvString("API_BASE_URL", "http://localhost:5173"),
		UseMockAPI: getEnvBool("USE_MOCK_API", true),
		Airtable: AirtableConfig{
			BaseURI:   getEnvString("AIRTABLE_BASE_URI", "https://api.airtable.com/v0"),
			BaseID:    os.Getenv("AIRTABLE_BASE_ID"),
			TableID:   os.Getenv("AIRTABLE_TABLE_ID"),
			APIKey:    os.Getenv("AIRTABLE_API_KEY"),
			Timeout:   getEnvDuration("AIRTABLE_TIMEOUT", 30*time.Second),
			RateLimit: getEnvFloat("AIRTABLE_RATE_LIMIT", 5),
		},
		MockStore:     MockStoreKind(getEnvString("MOCK_STORE", string(MockStoreMemory))),
		MockStorePath: os.Getenv("MOCK_STORE_PATH"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		CacheTTL:      getEnvDuration("CACHE_TTL", 2*time.Minute),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MockMode reports whether the mock backend will be used. An empty API key
// forces it regardless of USE_MOCK_API.
func (c *Config) MockMode() bool {
	return c.UseMockAPI || c.Airtable.APIKey == ""
}

func (c *Config) validate() error {
	switch c.MockStore {
	case MockStoreMemory, MockStoreBadger:
	default:
		return fmt.Errorf("MOCK_STORE must be %q or %q, got %q", MockStoreMemory, MockStoreBadger, c.MockStore)
	}

	if c.MockMode() {
		return nil
	}

	var missing []string
	if c.Airtable.BaseID == "" {
		missing = append(missing, "AIRTABLE_BASE_ID")
	}
	if c.Airtable.TableID == "" {
		missing = append(missing, "AIRTABLE_TABLE_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables are not set: %v", missing)
	}
	return nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
