package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/kurosakiaduma/weather-app-pawa/internal/common"
)

// AppConfig holds everything the service reads from the environment.
type AppConfig struct {
	OpenWeatherAPIKey string

	Port        string
	HTTPTimeout time.Duration

	// Cache tiers. GeoCacheTTL must stay far longer than WeatherCacheTTL:
	// coordinates are near-static, weather is volatile.
	GeoCacheTTL     time.Duration
	WeatherCacheTTL time.Duration

	// Retry policy for outbound provider calls.
	RetryAttempts int
	RetryDelay    time.Duration

	// Optional redis cache store; memory store is used when empty.
	RedisAddr string

	// Cities kept warm by the scheduler; empty disables warming.
	WarmCities   []string
	WarmInterval time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	// Best effort; a missing .env file is normal outside local dev.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY is not set")
	}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.GeoCacheTTL, err = getenvDuration("GEO_CACHE_TTL", "168h"); err != nil {
		return nil, err
	}
	if cfg.WeatherCacheTTL, err = getenvDuration("WEATHER_CACHE_TTL", "30m"); err != nil {
		return nil, err
	}
	if cfg.RetryDelay, err = getenvDuration("RETRY_DELAY", "1s"); err != nil {
		return nil, err
	}
	if cfg.WarmInterval, err = getenvDuration("WARM_INTERVAL", "25m"); err != nil {
		return nil, err
	}

	cfg.RetryAttempts = getenvInt("RETRY_ATTEMPTS", 3)
	cfg.WarmCities = common.SplitAndTrim(os.Getenv("WARM_CITIES"))

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
