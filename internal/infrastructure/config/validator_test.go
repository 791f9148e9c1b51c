package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_DefaultConfigIsValid(t *testing.T) {
	err := NewValidator().Validate(GetDefaultConfig())
	assert.NoError(t, err)
}

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*Config)
		errorContains string
	}{
		{
			name:          "Inválido - puerto fuera de rango",
			mutate:        func(c *Config) { c.Server.Port = 70000 },
			errorContains: "server config validation failed",
		},
		{
			name:          "Inválido - backend desconocido",
			mutate:        func(c *Config) { c.Store.Backend = "leveldb" },
			errorContains: "invalid store backend",
		},
		{
			name:          "Inválido - sqlite sin path",
			mutate:        func(c *Config) { c.Store.SQLite.Path = " " },
			errorContains: "sqlite path cannot be empty",
		},
		{
			name: "Inválido - redis sin puerto",
			mutate: func(c *Config) {
				c.Store.Backend = "redis"
				c.Store.Redis.Addr = "localhost"
			},
			errorContains: "expected host:port",
		},
		{
			name:          "Inválido - prefs bolt sin path",
			mutate:        func(c *Config) { c.Prefs.Path = "" },
			errorContains: "prefs path cannot be empty",
		},
		{
			name:          "Inválido - base_url sin esquema http",
			mutate:        func(c *Config) { c.CoinGecko.BaseURL = "ftp://api.coingecko.com" },
			errorContains: "must be http or https",
		},
		{
			name:          "Inválido - demasiados intentos",
			mutate:        func(c *Config) { c.CoinGecko.MaxAttempts = 9 },
			errorContains: "max_attempts",
		},
		{
			name:          "Inválido - umbral de aviso mayor al limite",
			mutate:        func(c *Config) { c.RateLimit.WarnThreshold = 31 },
			errorContains: "warn_threshold",
		},
		{
			name:          "Inválido - ventana de detalle cero",
			mutate:        func(c *Config) { c.Freshness.DetailWindow = 0 },
			errorContains: "detail_window must be positive",
		},
		{
			name:          "Inválido - probe sin host",
			mutate:        func(c *Config) { c.Connectivity.ProbeURL = "https://" },
			errorContains: "must have a host",
		},
		{
			name:          "Inválido - fetch_timeout cero",
			mutate:        func(c *Config) { c.Sync.FetchTimeout = 0 },
			errorContains: "fetch_timeout",
		},
		{
			name: "Inválido - janitor demasiado frecuente",
			mutate: func(c *Config) {
				c.Janitor.Enabled = true
				c.Janitor.Interval = time.Second
			},
			errorContains: "janitor interval too short",
		},
		{
			name:          "Inválido - nivel de log",
			mutate:        func(c *Config) { c.Logging.Level = "trace" },
			errorContains: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)

			err := NewValidator().Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestValidator_SkipsDisabledSections(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.CoinGecko.MockMode = true
	cfg.CoinGecko.BaseURL = ""
	cfg.Connectivity.AssumeOnline = true
	cfg.Connectivity.ProbeURL = ""
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.Capacity = 0

	assert.NoError(t, NewValidator().Validate(cfg))
}

func TestLoader_LoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("COINGECKO_API_KEY", "secret-key")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("MOCK_MODE", "true")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.CoinGecko.APIKey)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.True(t, cfg.CoinGecko.MockMode)
	assert.Equal(t, 15*time.Minute, cfg.Freshness.ListWindow)
	assert.Equal(t, "x-cg-pro-api-key", cfg.CoinGecko.APIKeyHeader)
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("ENVIRONMENT", "Production")
	assert.Equal(t, "production", GetEnvironment())
}
