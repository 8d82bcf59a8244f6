package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// CORS environment variables.
const (
	EnvCORSAllowedOrigins   = "GHG_CORS_ALLOWED_ORIGINS"
	EnvCORSAllowCredentials = "GHG_CORS_ALLOW_CREDENTIALS"
	EnvCORSMaxAge           = "GHG_CORS_MAX_AGE"
)

// DefaultCORSMaxAge is the preflight cache lifetime in seconds.
const DefaultCORSMaxAge = 86400

// ErrWildcardCredentials is returned when credentials are enabled for a
// wildcard origin.
var ErrWildcardCredentials = errors.New("cannot enable credentials with wildcard origin (*)")

// CORSConfig configures cross-origin access to the HTTP API.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowAll         bool
	AllowCredentials bool
	MaxAge           int
}

// Enabled reports whether any origin is allowed.
func (c CORSConfig) Enabled() bool {
	return c.AllowAll || len(c.AllowedOrigins) > 0
}

// ParseCORS reads the CORS environment variables. A wildcard origin is
// allowed with a warning; combining it with credentials is an error.
func ParseCORS(logger zerolog.Logger) (CORSConfig, error) {
	cfg := CORSConfig{MaxAge: DefaultCORSMaxAge}

	if origins := os.Getenv(EnvCORSAllowedOrigins); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			trimmed := strings.TrimSpace(o)
			if trimmed == "*" {
				cfg.AllowAll = true
				continue
			}
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
		if cfg.AllowAll {
			logger.Warn().Msg("CORS wildcard origin (*) is insecure; use specific origins in production")
		}
	}

	if strings.EqualFold(os.Getenv(EnvCORSAllowCredentials), "true") {
		cfg.AllowCredentials = true
	}

	if cfg.AllowAll && cfg.AllowCredentials {
		return CORSConfig{}, ErrWildcardCredentials
	}

	if maxAgeStr := os.Getenv(EnvCORSMaxAge); maxAgeStr != "" {
		if parsed, err := strconv.Atoi(maxAgeStr); err == nil && parsed >= 0 {
			cfg.MaxAge = parsed
		} else {
			logger.Warn().Str("value", maxAgeStr).Msg("invalid " + EnvCORSMaxAge + ", using default")
		}
	}

	logger.Debug().
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("allow_all", cfg.AllowAll).
		Int("max_age", cfg.MaxAge).
		Msg("CORS configuration applied")

	return cfg, nil
}
