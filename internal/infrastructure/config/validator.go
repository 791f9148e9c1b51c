package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validator valida la configuración cargada
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate valida toda la configuración y se detiene en la primera sección inválida
func (v *Validator) Validate(config *Config) error {
	if err := v.validateServer(config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := v.validateStore(config.Store); err != nil {
		return fmt.Errorf("store config validation failed: %w", err)
	}

	if err := v.validatePrefs(config.Prefs, config.Store); err != nil {
		return fmt.Errorf("prefs config validation failed: %w", err)
	}

	if err := v.validateCoinGecko(config.CoinGecko); err != nil {
		return fmt.Errorf("coingecko config validation failed: %w", err)
	}

	if err := v.validateRateLimit(config.RateLimit); err != nil {
		return fmt.Errorf("rate limit config validation failed: %w", err)
	}

	if err := v.validateFreshness(config.Freshness); err != nil {
		return fmt.Errorf("freshness config validation failed: %w", err)
	}

	if err := v.validateConnectivity(config.Connectivity); err != nil {
		return fmt.Errorf("connectivity config validation failed: %w", err)
	}

	if config.Sync.FetchTimeout <= 0 {
		return fmt.Errorf("sync config validation failed: fetch_timeout must be positive, got: %v", config.Sync.FetchTimeout)
	}

	if err := v.validateJanitor(config.Janitor); err != nil {
		return fmt.Errorf("janitor config validation failed: %w", err)
	}

	if err := v.validateAPIRateLimit(config.APIRateLimit); err != nil {
		return fmt.Errorf("api rate limit config validation failed: %w", err)
	}

	if err := v.validateLogging(config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	return nil
}

func (v *Validator) validateServer(config ServerConfig) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("invalid port: %d, must be between 1-65535", config.Port)
	}

	if config.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got: %v", config.ShutdownTimeout)
	}

	if config.ShutdownTimeout > 5*time.Minute {
		return fmt.Errorf("shutdown_timeout too long: %v, max 5 minutes", config.ShutdownTimeout)
	}

	return nil
}

func (v *Validator) validateStore(config StoreConfig) error {
	validBackends := []string{"sqlite", "memory", "redis"}
	if !contains(validBackends, config.Backend) {
		return fmt.Errorf("invalid store backend: %s, must be one of: %v", config.Backend, validBackends)
	}

	switch strings.ToLower(config.Backend) {
	case "sqlite":
		if strings.TrimSpace(config.SQLite.Path) == "" {
			return fmt.Errorf("sqlite path cannot be empty")
		}
	case "redis":
		return v.validateRedis(config.Redis)
	}

	return nil
}

func (v *Validator) validateRedis(config RedisConfig) error {
	if config.Addr == "" {
		return fmt.Errorf("redis addr cannot be empty")
	}

	if !strings.Contains(config.Addr, ":") {
		return fmt.Errorf("invalid redis addr format: %s, expected host:port", config.Addr)
	}

	if config.DB < 0 || config.DB > 15 {
		return fmt.Errorf("invalid redis DB: %d, must be between 0-15", config.DB)
	}

	return nil
}

// validatePrefs: el backend redis de prefs reutiliza la conexion del store
func (v *Validator) validatePrefs(config PrefsConfig, store StoreConfig) error {
	validBackends := []string{"bolt", "memory", "redis"}
	if !contains(validBackends, config.Backend) {
		return fmt.Errorf("invalid prefs backend: %s, must be one of: %v", config.Backend, validBackends)
	}

	if strings.EqualFold(config.Backend, "bolt") && strings.TrimSpace(config.Path) == "" {
		return fmt.Errorf("prefs path cannot be empty for bolt backend")
	}

	if strings.EqualFold(config.Backend, "redis") {
		return v.validateRedis(store.Redis)
	}

	return nil
}

func (v *Validator) validateCoinGecko(config CoinGeckoConfig) error {
	if config.MockMode {
		return nil
	}

	if err := v.validateURL(config.BaseURL, "coingecko base_url"); err != nil {
		return err
	}

	if config.APIKey != "" && config.APIKeyHeader == "" {
		return fmt.Errorf("api_key_header cannot be empty when api_key is set")
	}

	if config.VsCurrency == "" {
		return fmt.Errorf("vs_currency cannot be empty")
	}

	if config.PerPage < 1 || config.PerPage > 250 {
		return fmt.Errorf("per_page must be between 1-250, got: %d", config.PerPage)
	}

	if config.Timeout <= 0 {
		return fmt.Errorf("coingecko timeout must be positive, got: %v", config.Timeout)
	}

	if config.MaxAttempts < 1 || config.MaxAttempts > 5 {
		return fmt.Errorf("coingecko max_attempts must be between 1-5, got: %d", config.MaxAttempts)
	}

	if config.MaxAttempts > 1 && config.RetryDelay <= 0 {
		return fmt.Errorf("coingecko retry_delay must be positive when retrying, got: %v", config.RetryDelay)
	}

	return nil
}

func (v *Validator) validateRateLimit(config RateLimitConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.Capacity <= 0 {
		return fmt.Errorf("rate_limit capacity must be positive when enabled, got: %d", config.Capacity)
	}

	if config.RefillTokens <= 0 {
		return fmt.Errorf("rate_limit refill_tokens must be positive when enabled, got: %d", config.RefillTokens)
	}

	if config.RefillPeriod <= 0 {
		return fmt.Errorf("rate_limit refill_period must be positive when enabled, got: %v", config.RefillPeriod)
	}

	if config.Window <= 0 {
		return fmt.Errorf("rate_limit window must be positive when enabled, got: %v", config.Window)
	}

	if config.WarnThreshold > config.WindowLimit {
		return fmt.Errorf("rate_limit warn_threshold (%d) cannot exceed window_limit (%d)", config.WarnThreshold, config.WindowLimit)
	}

	return nil
}

func (v *Validator) validateFreshness(config FreshnessConfig) error {
	windows := map[string]time.Duration{
		"list_window":   config.ListWindow,
		"detail_window": config.DetailWindow,
		"chart_window":  config.ChartWindow,
	}

	for name, window := range windows {
		if window <= 0 {
			return fmt.Errorf("%s must be positive, got: %v", name, window)
		}
		if window > 24*time.Hour {
			return fmt.Errorf("%s too long: %v, max 24 hours", name, window)
		}
	}

	return nil
}

func (v *Validator) validateConnectivity(config ConnectivityConfig) error {
	if config.AssumeOnline {
		return nil
	}

	if err := v.validateURL(config.ProbeURL, "connectivity probe_url"); err != nil {
		return err
	}

	if config.Timeout <= 0 {
		return fmt.Errorf("connectivity timeout must be positive, got: %v", config.Timeout)
	}

	if config.Attempts < 1 {
		return fmt.Errorf("connectivity attempts must be at least 1, got: %d", config.Attempts)
	}

	if config.CacheTTL < 0 {
		return fmt.Errorf("connectivity cache_ttl cannot be negative, got: %v", config.CacheTTL)
	}

	return nil
}

func (v *Validator) validateJanitor(config JanitorConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.Interval < time.Minute {
		return fmt.Errorf("janitor interval too short: %v, min 1 minute", config.Interval)
	}

	if config.MaxAge <= 0 {
		return fmt.Errorf("janitor max_age must be positive, got: %v", config.MaxAge)
	}

	return nil
}

func (v *Validator) validateAPIRateLimit(config APIRateLimitConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.Capacity <= 0 || config.Capacity > 10000 {
		return fmt.Errorf("api_rate_limit capacity must be between 1-10000, got: %d", config.Capacity)
	}

	if config.RefillRate <= 0 || config.RefillRate > 1000 {
		return fmt.Errorf("api_rate_limit refill_rate must be between 1-1000, got: %d", config.RefillRate)
	}

	return nil
}

func (v *Validator) validateLogging(config LoggingConfig) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, config.Level) {
		return fmt.Errorf("invalid log level: %s, must be one of: %v", config.Level, validLevels)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, config.Format) {
		return fmt.Errorf("invalid log format: %s, must be one of: %v", config.Format, validFormats)
	}

	return nil
}

// validateURL valida que una URL sea válida para HTTP/HTTPS
func (v *Validator) validateURL(rawURL, fieldName string) error {
	if rawURL == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid %s: %s, error: %v", fieldName, rawURL, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("invalid %s scheme: %s, must be http or https", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s must have a host", fieldName)
	}

	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
