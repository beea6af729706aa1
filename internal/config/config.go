// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"OLP_DB_PATH" envDefault:"./data/olp.db"`
	SessionSecret string `env:"OLP_SESSION_SECRET,required"`
	ServerHost    string `env:"OLP_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"OLP_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"OLP_ENV" envDefault:"development"`
	LogLevel      string `env:"OLP_LOG_LEVEL" envDefault:"info"`

	// Remote content store (MySQL DSN). Empty disables remote sync.
	RemoteDSN string `env:"OLP_REMOTE_DB_DSN"`

	// SyncDebounceMS is the quiet period after the last content change
	// before the deferred remote upsert fires.
	SyncDebounceMS int `env:"OLP_SYNC_DEBOUNCE" envDefault:"2000"`

	// Page cache configuration
	RedisURL     string `env:"OLP_REDIS_URL"`                      // Optional Redis URL for the rendered-page cache
	CachePrefix  string `env:"OLP_CACHE_PREFIX" envDefault:"olp:"` // Redis key prefix
	CacheTTL     int    `env:"OLP_CACHE_TTL" envDefault:"300"`     // Page cache TTL in seconds
	CacheMaxSize int    `env:"OLP_CACHE_MAX_SIZE" envDefault:"256"`

	// AnalyticsRetentionDays bounds the dailyStats breakdown. 0 disables pruning.
	AnalyticsRetentionDays int `env:"OLP_ANALYTICS_RETENTION_DAYS" envDefault:"365"`

	// Content API rate limit (requests per second per client, with burst).
	APIRateLimit float64 `env:"OLP_API_RATE_LIMIT" envDefault:"10"`
	APIRateBurst int     `env:"OLP_API_RATE_BURST" envDefault:"20"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// RemoteEnabled returns true if a remote content store is configured.
func (c Config) RemoteEnabled() bool {
	return c.RemoteDSN != ""
}

// SyncDebounce returns the remote write quiet period as a duration.
func (c Config) SyncDebounce() time.Duration {
	return time.Duration(c.SyncDebounceMS) * time.Millisecond
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("OLP_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("OLP_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("OLP_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.SyncDebounceMS < 0 {
		return nil, fmt.Errorf("OLP_SYNC_DEBOUNCE must not be negative")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
