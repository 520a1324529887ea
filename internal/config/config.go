package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the tunables for the app core. The staleness window, retry
// delay, and redirect debounce are empirically chosen values carried over
// from the shipped app; they are environment-overridable rather than
// hard-coded because they encode assumptions about backend write latency.
type Config struct {
	BackendURL string // DEUCE_BACKEND_URL (required)
	AuthToken  string // DEUCE_AUTH_TOKEN (optional bearer token for backend calls)
	NATSURL    string // DEUCE_NATS_URL (optional, empty = no events)

	StatusStaleAfter time.Duration // DEUCE_STATUS_STALE_AFTER (default 10s)
	StatusRetryDelay time.Duration // DEUCE_STATUS_RETRY_DELAY (default 1s)
	RedirectDebounce time.Duration // DEUCE_REDIRECT_DEBOUNCE (default 100ms)
	PollInterval     time.Duration // DEUCE_PAYMENT_POLL_INTERVAL (default 10s)
	HistorySize      int           // DEUCE_HISTORY_SIZE (default 5)
}

// Default returns the built-in tunables without consulting the environment.
// BackendURL is left empty; callers supply it themselves.
func Default() *Config {
	return &Config{
		StatusStaleAfter: 10 * time.Second,
		StatusRetryDelay: time.Second,
		RedirectDebounce: 100 * time.Millisecond,
		PollInterval:     10 * time.Second,
		HistorySize:      5,
	}
}

func Load() (*Config, error) {
	c := &Config{
		BackendURL: os.Getenv("DEUCE_BACKEND_URL"),
		AuthToken:  os.Getenv("DEUCE_AUTH_TOKEN"),
		NATSURL:    os.Getenv("DEUCE_NATS_URL"),
	}
	if c.BackendURL == "" {
		return nil, fmt.Errorf("DEUCE_BACKEND_URL is required")
	}

	var err error
	if c.StatusStaleAfter, err = durationEnv("DEUCE_STATUS_STALE_AFTER", 10*time.Second); err != nil {
		return nil, err
	}
	if c.StatusRetryDelay, err = durationEnv("DEUCE_STATUS_RETRY_DELAY", time.Second); err != nil {
		return nil, err
	}
	if c.RedirectDebounce, err = durationEnv("DEUCE_REDIRECT_DEBOUNCE", 100*time.Millisecond); err != nil {
		return nil, err
	}
	if c.PollInterval, err = durationEnv("DEUCE_PAYMENT_POLL_INTERVAL", 10*time.Second); err != nil {
		return nil, err
	}

	sizeStr := envOrDefault("DEUCE_HISTORY_SIZE", "5")
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size <= 0 {
		return nil, fmt.Errorf("DEUCE_HISTORY_SIZE: must be a positive integer, got %q", sizeStr)
	}
	c.HistorySize = size

	return c, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
