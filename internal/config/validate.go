package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// At least one provider credential is required
	if len(c.TTS.APIKeys) == 0 {
		errs = append(errs, "TTS_API_KEYS must contain at least one key")
	}
	for i, key := range c.TTS.APIKeys {
		if len(key) < 16 {
			errs = append(errs, fmt.Sprintf("TTS_API_KEYS entry %d is suspiciously short", i))
		}
	}

	// Quota ceilings must stay positive; zero would deny every request
	if c.Quota.DailyLimit < 1 {
		errs = append(errs, fmt.Sprintf("QUOTA_DAILY_LIMIT must be positive, got %d", c.Quota.DailyLimit))
	}
	if c.Quota.MinuteLimit < 1 {
		errs = append(errs, fmt.Sprintf("QUOTA_MINUTE_LIMIT must be positive, got %d", c.Quota.MinuteLimit))
	}

	// DB password
	if c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1-65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1-65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1-65535, got %d", c.Redis.Port))
	}

	// Admin token: warn only
	if c.Admin.Token == "" {
		slog.Warn("ADMIN_TOKEN is empty, credential rotation endpoint has no authentication")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
