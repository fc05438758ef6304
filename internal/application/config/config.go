package config

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"strings"
	"time"

	"json_script_analyzer/internal/domain/adaptors"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
)

const (
	DefaultEnvFile     = `config.env`
	DefaultEndpointURL = `http://localhost:8000/json/upload-json-file`
	DefaultMaxFileSize = `10MB`
)

type AppConfig struct {
	LogLevel    string
	DebugMode   bool
	MetricsHost string

	Analysis AnalysisConfig
}

type AnalysisConfig struct {
	EndpointURL   string
	ClientTimeout time.Duration
	MaxFileSize   int64
	Links         struct {
		AboutJSON      string
		GoodPractices  string
		CommonMistakes string
	}
}

// LoadEnvFile loads path into the process environment. A missing file is not
// an error; variables already set in the environment win.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func NewAppConfig(envFile string) (*AppConfig, error) {
	if err := LoadEnvFile(envFile); err != nil {
		return nil, err
	}

	var errMsg []string
	cfg := AppConfig{}
	cfg.LogLevel = os.Getenv("APP_LOG_LEVEL")
	cfg.DebugMode = os.Getenv("APP_ENABLE_DEBUG") == "true"
	cfg.MetricsHost = os.Getenv("HTTP_APP_METRICS_HOST")

	cfg.Analysis.EndpointURL = envOr("ANALYSIS_ENDPOINT_URL", DefaultEndpointURL)

	if v := os.Getenv("ANALYSIS_CLIENT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errMsg = append(errMsg, fmt.Sprintf(`ANALYSIS_CLIENT_TIMEOUT: invalid duration format: %v`, err))
		}
		cfg.Analysis.ClientTimeout = d
	}

	size, err := humanize.ParseBytes(envOr("ANALYSIS_MAX_FILE_SIZE", DefaultMaxFileSize))
	switch {
	case err != nil:
		errMsg = append(errMsg, fmt.Sprintf(`ANALYSIS_MAX_FILE_SIZE: %v`, err))
	case size > math.MaxInt64:
		errMsg = append(errMsg, fmt.Sprintf(`ANALYSIS_MAX_FILE_SIZE: %s exceeds the largest supported size`, humanize.Bytes(size)))
	default:
		cfg.Analysis.MaxFileSize = int64(size)
	}

	cfg.Analysis.Links.AboutJSON = os.Getenv("ANALYSIS_LINK_ABOUT_JSON")
	cfg.Analysis.Links.GoodPractices = os.Getenv("ANALYSIS_LINK_GOOD_PRACTICES")
	cfg.Analysis.Links.CommonMistakes = os.Getenv("ANALYSIS_LINK_COMMON_MISTAKES")

	errMsg = append(errMsg, validate(&cfg)...)
	if len(errMsg) != 0 {
		return nil, fmt.Errorf(`validation failed: %s`, strings.Join(errMsg, "\n"))
	}

	return &cfg, nil
}

func validate(cfg *AppConfig) []string {
	var errMsg []string
	if cfg.LogLevel == "" {
		errMsg = append(errMsg, `log level is empty`)
	} else if _, ok := adaptors.ParseLogLevel(cfg.LogLevel); !ok {
		errMsg = append(errMsg, fmt.Sprintf(`log level %q is not one of %v`, cfg.LogLevel, adaptors.LogLevels()))
	}

	endpoint, err := url.Parse(cfg.Analysis.EndpointURL)
	if err != nil || (endpoint.Scheme != "http" && endpoint.Scheme != "https") || endpoint.Host == "" {
		errMsg = append(errMsg, fmt.Sprintf(`analysis endpoint %q is not an http(s) url`, cfg.Analysis.EndpointURL))
	}

	if cfg.Analysis.ClientTimeout < 0 {
		errMsg = append(errMsg, `analysis client timeout is negative`)
	}
	return errMsg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
