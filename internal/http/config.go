package http

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type HTTPServerConfig struct {
	Host      string
	PprofHost string
	Timeouts  struct {
		Read         time.Duration
		ReadHeader   time.Duration
		Write        time.Duration
		Idle         time.Duration
		ShutdownWait time.Duration
	}
	Upload struct {
		RateLimit float64
		RateBurst int
	}
	SessionTTL     time.Duration
	AllowedOrigins []string
	TrustProxy     bool
}

// NewHTTPServerConfig reads the server settings from the environment. The env
// file, if any, has already been loaded by the application config.
func NewHTTPServerConfig() (*HTTPServerConfig, error) {
	var errors []string
	cfg := &HTTPServerConfig{}

	cfg.Host = envOr("HTTP_SERVER_HOST", ":8080")
	cfg.PprofHost = envOr("HTTP_APP_PPROF_HOST", ":6060")

	parseDuration := func(envVar string, fallback time.Duration) time.Duration {
		value := os.Getenv(envVar)
		if value == "" {
			return fallback
		}
		duration, err := time.ParseDuration(value)
		if err != nil {
			errors = append(errors, fmt.Sprintf("%s: invalid duration format: %v", envVar, err))
			return fallback
		}
		if duration < 0 {
			errors = append(errors, fmt.Sprintf("%s: must not be negative", envVar))
			return fallback
		}
		return duration
	}

	cfg.Timeouts.Read = parseDuration("HTTP_APP_READ_TIMEOUT_DURATION", 30*time.Second)
	cfg.Timeouts.ReadHeader = parseDuration("HTTP_APP_READ_HEADER_TIMEOUT_DURATION", 5*time.Second)
	// the upload is synchronous with the request, so writes wait for the analysis service
	cfg.Timeouts.Write = parseDuration("HTTP_APP_WRITE_TIMEOUT_DURATION", 2*time.Minute)
	cfg.Timeouts.Idle = parseDuration("HTTP_APP_IDLE_TIMEOUT_DURATION", 60*time.Second)
	cfg.Timeouts.ShutdownWait = parseDuration("HTTP_APP_SHUTDOWN_TIMEOUT_DURATION", 10*time.Second)
	cfg.SessionTTL = parseDuration("HTTP_APP_SESSION_TTL", time.Hour)

	cfg.Upload.RateLimit = 1
	if v := os.Getenv("HTTP_APP_UPLOAD_RATE_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil || limit <= 0 {
			errors = append(errors, fmt.Sprintf("HTTP_APP_UPLOAD_RATE_LIMIT: %q is not a positive number", v))
		} else {
			cfg.Upload.RateLimit = limit
		}
	}

	cfg.Upload.RateBurst = 5
	if v := os.Getenv("HTTP_APP_UPLOAD_RATE_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst <= 0 {
			errors = append(errors, fmt.Sprintf("HTTP_APP_UPLOAD_RATE_BURST: %q is not a positive integer", v))
		} else {
			cfg.Upload.RateBurst = burst
		}
	}

	if v := os.Getenv("HTTP_APP_TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			errors = append(errors, fmt.Sprintf("HTTP_APP_TRUST_PROXY: %q is not a boolean", v))
		}
		cfg.TrustProxy = trust
	}

	cfg.AllowedOrigins = []string{"*"}
	if v := os.Getenv("HTTP_APP_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
