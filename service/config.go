package service

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nethesis/media-image-popup/logger"
)

const (
	defaultPort             = "8080"
	defaultLogLevel         = "INFO"
	defaultEntityDBPath     = "/tmp/media_image_popup.db"
	defaultPublicFilesPath  = "sites/default/files"
	defaultPrivateFilesPath = "system/files"
	defaultStyleCacheTTLS   = 300
)

// Config holds all configuration loaded from environment variables
type Config struct {
	// Server configuration
	ListenPort string
	LogLevel   string

	// BaseURL is the absolute site URL. When empty it is derived from each
	// request's scheme and host.
	BaseURL string

	// Entity store
	EntityDBPath string

	// File URL generation
	PublicFilesPath  string
	PrivateFilesPath string

	// ImageTokenKey signs image style derivative URLs (itok). Empty
	// suppresses the token.
	ImageTokenKey string

	// Image style lookups are cached for this long.
	StyleCacheTTLSeconds int
	StyleCacheTTL        time.Duration

	// AdminToken guards the internal seeding API. Empty disables it.
	AdminToken string
}

// NewConfig loads all configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{}

	logger.Debug().Msg("starting configuration loading from environment variables")

	cfg.LogLevel = envOrDefault("LOGLEVEL", defaultLogLevel)
	cfg.ListenPort = envOrDefault("LISTEN_PORT", defaultPort)

	cfg.BaseURL = strings.TrimRight(os.Getenv("BASE_URL"), "/")
	if cfg.BaseURL == "" {
		logger.Info().Msg("BASE_URL not configured, base URL will be derived from requests")
	} else {
		logger.Debug().Str("BASE_URL", cfg.BaseURL).Msg("base URL loaded from environment")
	}

	cfg.EntityDBPath = envOrDefault("ENTITY_DB_PATH", defaultEntityDBPath)
	cfg.PublicFilesPath = strings.Trim(envOrDefault("PUBLIC_FILES_PATH", defaultPublicFilesPath), "/")
	cfg.PrivateFilesPath = strings.Trim(envOrDefault("PRIVATE_FILES_PATH", defaultPrivateFilesPath), "/")

	cfg.ImageTokenKey = os.Getenv("IMAGE_TOKEN_KEY")
	if cfg.ImageTokenKey == "" {
		logger.Warn().Msg("IMAGE_TOKEN_KEY not set - image style URLs will be generated without itok")
	} else {
		logger.Debug().Msg("IMAGE_TOKEN_KEY loaded from environment")
	}

	cfg.StyleCacheTTLSeconds = defaultStyleCacheTTLS
	if v := os.Getenv("STYLE_CACHE_TTL_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			cfg.StyleCacheTTLSeconds = parsed
			logger.Debug().Int("STYLE_CACHE_TTL_SECONDS", cfg.StyleCacheTTLSeconds).Msg("style cache TTL loaded from environment")
		} else {
			logger.Warn().Str("STYLE_CACHE_TTL_SECONDS", v).Err(err).Int("default", defaultStyleCacheTTLS).Msg("invalid style cache TTL value, using default")
		}
	} else {
		logger.Debug().Int("STYLE_CACHE_TTL_SECONDS", cfg.StyleCacheTTLSeconds).Msg("using default style cache TTL")
	}
	cfg.StyleCacheTTL = time.Duration(cfg.StyleCacheTTLSeconds) * time.Second

	cfg.AdminToken = os.Getenv("ADMIN_TOKEN")
	if cfg.AdminToken == "" {
		logger.Warn().Msg("ADMIN_TOKEN not set - internal entity API is disabled")
	}

	logger.Debug().Msg("configuration loading completed successfully")

	return cfg, nil
}

func envOrDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		logger.Debug().Str(key, def).Msg("using default value")
		return def
	}
	logger.Debug().Str(key, v).Msg("value loaded from environment")
	return v
}

// NewTestConfig creates a minimal Config for testing purposes
func NewTestConfig() *Config {
	return &Config{
		ListenPort:           defaultPort,
		LogLevel:             defaultLogLevel,
		BaseURL:              "https://example.com",
		EntityDBPath:         defaultEntityDBPath,
		PublicFilesPath:      defaultPublicFilesPath,
		PrivateFilesPath:     defaultPrivateFilesPath,
		ImageTokenKey:        "test-image-key",
		StyleCacheTTLSeconds: defaultStyleCacheTTLS,
		StyleCacheTTL:        time.Duration(defaultStyleCacheTTLS) * time.Second,
		AdminToken:           "test-admin-token",
	}
}
