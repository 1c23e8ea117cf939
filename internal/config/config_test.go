package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.OpenWeatherAPIKey)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 168*time.Hour, cfg.GeoCacheTTL)
	assert.Equal(t, 30*time.Minute, cfg.WeatherCacheTTL)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Empty(t, cfg.WarmCities)

	// Geocoding entries must far outlive weather entries.
	assert.Greater(t, cfg.GeoCacheTTL, cfg.WeatherCacheTTL)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
	t.Setenv("WEATHER_CACHE_TTL", "5m")
	t.Setenv("RETRY_ATTEMPTS", "5")
	t.Setenv("WARM_CITIES", "Nairobi, Lagos")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.WeatherCacheTTL)
	assert.Equal(t, 5, cfg.RetryAttempts)
	assert.Equal(t, []string{"Nairobi", "Lagos"}, cfg.WarmCities)
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
	t.Setenv("WEATHER_CACHE_TTL", "half an hour")

	_, err := Load()
	require.Error(t, err)
}
