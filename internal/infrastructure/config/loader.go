package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading using Viper
type Loader struct {
	v *viper.Viper
}

func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Load lee config.yaml (si existe), variables de entorno y valores por defecto
func (l *Loader) Load() (*Config, error) {
	l.setupViper()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := GetDefaultConfig()
	if err := l.v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	l.overrideWithEnvVars(config)

	return config, nil
}

// LoadFile carga un archivo explicito (flag --config)
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	return l.Load()
}

func (l *Loader) setupViper() {
	if l.v.ConfigFileUsed() == "" {
		l.v.SetConfigName("config")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath("./configs")
		l.v.AddConfigPath("../configs")
		l.v.AddConfigPath(".")
		l.v.AddConfigPath("/etc/coinbit")
	}

	// COINBIT_STORE_BACKEND -> store.backend
	l.v.AutomaticEnv()
	l.v.SetEnvPrefix("COINBIT")
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.bindEnvVars()
}

// bindEnvVars mapea nombres cortos de variables de entorno
func (l *Loader) bindEnvVars() {
	envMappings := map[string]string{
		"server.port":            "PORT",
		"store.backend":          "STORE_BACKEND",
		"store.sqlite.path":      "SQLITE_PATH",
		"store.redis.addr":       "REDIS_ADDR",
		"store.redis.password":   "REDIS_PASSWORD",
		"store.redis.db":         "REDIS_DB",
		"prefs.backend":          "PREFS_BACKEND",
		"prefs.path":             "PREFS_PATH",
		"coingecko.base_url":     "COINGECKO_BASE_URL",
		"coingecko.api_key":      "COINGECKO_API_KEY",
		"coingecko.timeout":      "COINGECKO_TIMEOUT",
		"coingecko.max_attempts": "COINGECKO_MAX_ATTEMPTS",
		"freshness.list_window":  "LIST_WINDOW",
		"connectivity.probe_url": "CONNECTIVITY_PROBE_URL",
		"janitor.enabled":        "JANITOR_ENABLED",
		"logging.level":          "LOG_LEVEL",
		"logging.format":         "LOG_FORMAT",
	}

	for configKey, envVar := range envMappings {
		_ = l.v.BindEnv(configKey, "COINBIT_"+strings.ToUpper(strings.ReplaceAll(configKey, ".", "_")), envVar)
	}
}

// overrideWithEnvVars maneja casos especiales de env vars
func (l *Loader) overrideWithEnvVars(config *Config) {
	if mockMode := os.Getenv("MOCK_MODE"); mockMode == "true" || mockMode == "1" {
		config.CoinGecko.MockMode = true
	}
	if offline := os.Getenv("ASSUME_ONLINE"); offline == "true" || offline == "1" {
		config.Connectivity.AssumeOnline = true
	}
}

// LoadForEnvironment mezcla config.<env>.yaml sobre la configuracion base
func (l *Loader) LoadForEnvironment(environment string) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if environment == "" {
		return config, nil
	}

	l.v.SetConfigName(fmt.Sprintf("config.%s", environment))
	if err := l.v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to merge environment config: %w", err)
		}
		return config, nil
	}

	if err := l.v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal merged config: %w", err)
	}
	l.overrideWithEnvVars(config)

	return config, nil
}

// GetEnvironment determina el entorno actual desde ENV vars
func GetEnvironment() string {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		env = strings.ToLower(os.Getenv("ENVIRONMENT"))
	}
	if env == "" {
		env = "development"
	}
	return env
}
