package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(env(nil))
	require.NoError(t, err)
	assert.Equal(t, Config{
		Port:            "8080",
		CacheTTL:        24 * time.Hour,
		RateLimitMax:    30,
		RateLimitWindow: time.Minute,
		TemplateDir:     "templates",
		WarmSchedule:    "@daily",
		LogLevel:        slog.LevelInfo,
	}, cfg)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(env(map[string]string{
		"PORT":              "9000",
		"DATA_SOURCE_NAME":  "holi.sqlite3",
		"CACHE_TTL":         "1h",
		"RATE_LIMIT_MAX":    "5",
		"RATE_LIMIT_WINDOW": "10s",
		"TEMPLATE_RELOAD":   "true",
		"TEMPLATE_DIR":      "/srv/templates",
		"WARM_SCHEDULE":     "0 3 * * *",
		"LOG_LEVEL":         "debug",
	}))
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "holi.sqlite3", cfg.DataSourceName)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, uint64(5), cfg.RateLimitMax)
	assert.Equal(t, 10*time.Second, cfg.RateLimitWindow)
	assert.True(t, cfg.TemplateReload)
	assert.Equal(t, "/srv/templates", cfg.TemplateDir)
	assert.Equal(t, "0 3 * * *", cfg.WarmSchedule)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	for key, val := range map[string]string{
		"CACHE_TTL":         "forever",
		"RATE_LIMIT_WINDOW": "-1s",
		"RATE_LIMIT_MAX":    "0",
		"TEMPLATE_RELOAD":   "sometimes",
		"LOG_LEVEL":         "loud",
	} {
		t.Run(key, func(t *testing.T) {
			_, err := load(env(map[string]string{key: val}))
			assert.ErrorContains(t, err, key)
		})
	}
}
