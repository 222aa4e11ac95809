package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks the configuration required by the given command mode.
// Modes: "classify" (classify, parse, profile, files), "serve", "store".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "classify":
		errs = append(errs, c.validateClassify()...)
	case "serve":
		errs = append(errs, c.validateClassify()...)
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server.port must be between 1 and 65535, got %d", c.Server.Port))
		}
		if c.Server.RateLimit < 0 {
			errs = append(errs, "server.rate_limit must be >= 0")
		}
		if c.Server.RateLimit > 0 && c.Server.Burst <= 0 {
			errs = append(errs, "server.burst must be > 0 when rate limiting is enabled")
		}
	case "store":
		switch c.Store.Driver {
		case "none", "":
		case "sqlite", "postgres":
			if c.Store.DatabaseURL == "" {
				errs = append(errs, "store.database_url is required for driver "+c.Store.Driver)
			}
		default:
			errs = append(errs, fmt.Sprintf("store.driver must be one of none, sqlite, postgres, got %q", c.Store.Driver))
		}
	default:
		return eris.Errorf("config: unknown validation mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateClassify() []string {
	var errs []string
	if c.Classify.MaxConcurrency < 1 {
		errs = append(errs, "classify.max_concurrency must be >= 1")
	}
	for code, country := range c.Classify.DialCodes {
		if code == "" || len(code) > 3 || strings.Trim(code, "0123456789") != "" {
			errs = append(errs, fmt.Sprintf("classify.dial_codes key %q must be 1-3 digits", code))
		}
		if strings.TrimSpace(country) == "" {
			errs = append(errs, fmt.Sprintf("classify.dial_codes[%s] must not be empty", code))
		}
	}
	return errs
}
