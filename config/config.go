package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	DataSourceName  string
	CacheTTL        time.Duration
	RateLimitMax    uint64
	RateLimitWindow time.Duration
	TemplateReload  bool
	TemplateDir     string
	WarmSchedule    string
	LogLevel        slog.Level
}

// Load reads the configuration from the environment, falling back to
// defaults for unset variables.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:           "8080",
		DataSourceName: getenv("DATA_SOURCE_NAME"),
		TemplateDir:    "templates",
		WarmSchedule:   "@daily",
	}
	var err error

	if v := getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := getenv("TEMPLATE_DIR"); v != "" {
		cfg.TemplateDir = v
	}
	if v := getenv("WARM_SCHEDULE"); v != "" {
		cfg.WarmSchedule = v
	}
	if cfg.CacheTTL, err = duration(getenv, "CACHE_TTL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.RateLimitWindow, err = duration(getenv, "RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return cfg, err
	}

	cfg.RateLimitMax = 30
	if v := getenv("RATE_LIMIT_MAX"); v != "" {
		cfg.RateLimitMax, err = strconv.ParseUint(v, 10, 64)
		if err != nil || cfg.RateLimitMax == 0 {
			return cfg, fmt.Errorf("parse RATE_LIMIT_MAX %q: must be a positive integer", v)
		}
	}

	if v := getenv("TEMPLATE_RELOAD"); v != "" {
		cfg.TemplateReload, err = strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("parse TEMPLATE_RELOAD: %w", err)
		}
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		err = cfg.LogLevel.UnmarshalText([]byte(strings.ToUpper(v)))
		if err != nil {
			return cfg, fmt.Errorf("parse LOG_LEVEL: %w", err)
		}
	}

	return cfg, nil
}

func duration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse %s: must be positive, got %s", key, v)
	}
	return d, nil
}
