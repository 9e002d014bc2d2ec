package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/atmoslens/weather-dashboard/internal/cache"
	"github.com/atmoslens/weather-dashboard/internal/logger"
	"github.com/atmoslens/weather-dashboard/internal/search"
	"github.com/atmoslens/weather-dashboard/internal/upstream"
	"github.com/atmoslens/weather-dashboard/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey string
	GoogleGeocoderKey string

	// UpstreamMode selects the OpenWeatherMap call path (onecall or split).
	UpstreamMode upstream.Mode

	// CacheTTL is the forecast cache freshness window.
	CacheTTL time.Duration

	// MaxRecent bounds the recent-searches list.
	MaxRecent int

	// FallbackMode selects strict errors or sample-data substitution when
	// the upstream is unreachable.
	FallbackMode weather.FallbackMode

	// RefreshInterval controls the cache-warming refresh job. Zero disables it.
	RefreshInterval time.Duration

	// History retention.
	HistoryMaxPoints int
	HistoryMaxAge    time.Duration

	// HTTPTimeout applies to outbound upstream calls.
	HTTPTimeout time.Duration

	Port        string
	MetricsPort string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Get().Infow("no .env file loaded", "reason", err)
	}

	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.GoogleGeocoderKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	switch mode := upstream.Mode(getenvDefault("UPSTREAM_MODE", string(upstream.ModeOneCall))); mode {
	case upstream.ModeOneCall, upstream.ModeSplit:
		cfg.UpstreamMode = mode
	default:
		return nil, fmt.Errorf("invalid UPSTREAM_MODE: %q", mode)
	}

	ttl, err := getenvDuration("CACHE_TTL", cache.DefaultTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	cfg.MaxRecent = getenvInt("MAX_RECENT", search.DefaultMaxRecent)

	switch mode := weather.FallbackMode(getenvDefault("FALLBACK_MODE", string(weather.FallbackStrict))); mode {
	case weather.FallbackStrict, weather.FallbackSample:
		cfg.FallbackMode = mode
	default:
		return nil, fmt.Errorf("invalid FALLBACK_MODE: %q", mode)
	}

	refresh, err := getenvDuration("REFRESH_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = refresh

	cfg.HistoryMaxPoints = getenvInt("HISTORY_MAX_POINTS", 96)

	maxAge, err := getenvDuration("HISTORY_MAX_AGE", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid HISTORY_MAX_AGE: %w", err)
	}
	cfg.HistoryMaxAge = maxAge

	timeout, err := getenvDuration("HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.MetricsPort = getenvDefault("METRICS_PORT", "9091")

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

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return time.ParseDuration(v)
}
