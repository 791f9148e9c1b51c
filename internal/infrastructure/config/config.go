package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Prefs        PrefsConfig        `yaml:"prefs" mapstructure:"prefs"`
	CoinGecko    CoinGeckoConfig    `yaml:"coingecko" mapstructure:"coingecko"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit" mapstructure:"rate_limit"`
	Freshness    FreshnessConfig    `yaml:"freshness" mapstructure:"freshness"`
	Connectivity ConnectivityConfig `yaml:"connectivity" mapstructure:"connectivity"`
	Sync         SyncConfig         `yaml:"sync" mapstructure:"sync"`
	Janitor      JanitorConfig      `yaml:"janitor" mapstructure:"janitor"`
	APIRateLimit APIRateLimitConfig `yaml:"api_rate_limit" mapstructure:"api_rate_limit"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" mapstructure:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	// WriteTimeout no aplica a /api/v1/stream; el upgrade a websocket lo libera
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// StoreConfig selecciona el backend del cache local
type StoreConfig struct {
	Backend string       `yaml:"backend" mapstructure:"backend"` // sqlite | memory | redis
	SQLite  SQLiteConfig `yaml:"sqlite" mapstructure:"sqlite"`
	Redis   RedisConfig  `yaml:"redis" mapstructure:"redis"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// RedisConfig contains Redis-specific configuration
type RedisConfig struct {
	Addr      string `yaml:"addr" mapstructure:"addr"`
	Password  string `yaml:"password" mapstructure:"password"`
	DB        int    `yaml:"db" mapstructure:"db"`
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// PrefsConfig guarda metadatos como el ultimo fetch del listado
type PrefsConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"` // bolt | memory | redis
	Path    string `yaml:"path" mapstructure:"path"`
}

// CoinGeckoConfig contains remote API configuration
type CoinGeckoConfig struct {
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey       string        `yaml:"api_key" mapstructure:"api_key"`
	APIKeyHeader string        `yaml:"api_key_header" mapstructure:"api_key_header"`
	VsCurrency   string        `yaml:"vs_currency" mapstructure:"vs_currency"`
	PerPage      int           `yaml:"per_page" mapstructure:"per_page"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxAttempts  int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	RetryDelay   time.Duration `yaml:"retry_delay" mapstructure:"retry_delay"`
	MockMode     bool          `yaml:"mock_mode" mapstructure:"mock_mode"`
}

// RateLimitConfig configura el token bucket y el contador por minuto del cliente remoto
type RateLimitConfig struct {
	Enabled       bool          `yaml:"enabled" mapstructure:"enabled"`
	Capacity      int           `yaml:"capacity" mapstructure:"capacity"`
	RefillTokens  int           `yaml:"refill_tokens" mapstructure:"refill_tokens"`
	RefillPeriod  time.Duration `yaml:"refill_period" mapstructure:"refill_period"`
	MaxWait       time.Duration `yaml:"max_wait" mapstructure:"max_wait"`
	WarnThreshold int           `yaml:"warn_threshold" mapstructure:"warn_threshold"`
	WindowLimit   int           `yaml:"window_limit" mapstructure:"window_limit"`
	Window        time.Duration `yaml:"window" mapstructure:"window"`
}

// FreshnessConfig contains the validity windows per resource
type FreshnessConfig struct {
	ListWindow   time.Duration `yaml:"list_window" mapstructure:"list_window"`
	DetailWindow time.Duration `yaml:"detail_window" mapstructure:"detail_window"`
	ChartWindow  time.Duration `yaml:"chart_window" mapstructure:"chart_window"`
}

type ConnectivityConfig struct {
	ProbeURL        string        `yaml:"probe_url" mapstructure:"probe_url"`
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
	CacheTTL        time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	Attempts        int           `yaml:"attempts" mapstructure:"attempts"`
	MonitorInterval time.Duration `yaml:"monitor_interval" mapstructure:"monitor_interval"`
	AssumeOnline    bool          `yaml:"assume_online" mapstructure:"assume_online"`
}

// SyncConfig limita la I/O de cada flujo (corre desacoplada de la cancelacion del caller)
type SyncConfig struct {
	FetchTimeout time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`
}

type JanitorConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	MaxAge   time.Duration `yaml:"max_age" mapstructure:"max_age"`
}

// APIRateLimitConfig limita las requests entrantes por cliente
type APIRateLimitConfig struct {
	Enabled    bool `yaml:"enabled" mapstructure:"enabled"`
	Capacity   int  `yaml:"capacity" mapstructure:"capacity"`
	RefillRate int  `yaml:"refill_rate" mapstructure:"refill_rate"`
}

// LoggingConfig contains logging system configuration
type LoggingConfig struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	AddSource bool   `yaml:"add_source" mapstructure:"add_source"`
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 30 * time.Second,
			WriteTimeout:    30 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Store: StoreConfig{
			Backend: "sqlite",
			SQLite: SQLiteConfig{
				Path: "data/coinbit.db",
			},
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				DB:        0,
				KeyPrefix: "coinbit:",
			},
		},
		Prefs: PrefsConfig{
			Backend: "bolt",
			Path:    "data/prefs.db",
		},
		CoinGecko: CoinGeckoConfig{
			BaseURL:      "https://api.coingecko.com/api/v3",
			APIKeyHeader: "x-cg-pro-api-key",
			VsCurrency:   "usd",
			PerPage:      100,
			Timeout:      30 * time.Second,
			MaxAttempts:  1,
			RetryDelay:   500 * time.Millisecond,
		},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			Capacity:      30,
			RefillTokens:  1,
			RefillPeriod:  2 * time.Second,
			MaxWait:       10 * time.Second,
			WarnThreshold: 25,
			WindowLimit:   30,
			Window:        time.Minute,
		},
		Freshness: FreshnessConfig{
			ListWindow:   15 * time.Minute,
			DetailWindow: 10 * time.Minute,
			ChartWindow:  30 * time.Minute,
		},
		Connectivity: ConnectivityConfig{
			ProbeURL:        "https://clients3.google.com/generate_204",
			Timeout:         3 * time.Second,
			CacheTTL:        5 * time.Second,
			Attempts:        2,
			MonitorInterval: 30 * time.Second,
		},
		Sync: SyncConfig{
			FetchTimeout: 45 * time.Second,
		},
		Janitor: JanitorConfig{
			Enabled:  false,
			Interval: time.Hour,
			MaxAge:   7 * 24 * time.Hour,
		},
		APIRateLimit: APIRateLimitConfig{
			Enabled:    true,
			Capacity:   100,
			RefillRate: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
