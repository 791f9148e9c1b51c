package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrInvalidLoggerConfig envuelve cada *ConfigError devuelto por Validate
var ErrInvalidLoggerConfig = errors.New("invalid logger config")

type LogFormat string

const (
	FormatJSON LogFormat = "json"
	FormatText LogFormat = "text"
)

var (
	levelNames = map[string]LogLevel{
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	formatNames = map[string]LogFormat{
		"json": FormatJSON,
		"text": FormatText,
	}
)

// LoggerConfig is what NewLogrusLogger needs: level, formatter, sink and the
// service fields stamped on every entry
type LoggerConfig struct {
	Level       LogLevel  `json:"level" yaml:"level"`
	Format      LogFormat `json:"format" yaml:"format"`
	Output      io.Writer `json:"-" yaml:"-"`
	Service     string    `json:"service" yaml:"service"`
	Version     string    `json:"version" yaml:"version"`
	Environment string    `json:"environment" yaml:"environment"`
	// AddSource reporta funcion y linea del caller (logrus ReportCaller)
	AddSource bool `json:"add_source" yaml:"add_source"`
}

// DefaultConfig: INFO en JSON a stdout. Es lo que usan los loggers globales
// antes de que la app cargue su configuracion.
func DefaultConfig() *LoggerConfig {
	return NewConfig("coinbit-sync", "dev", "development")
}

func NewConfig(service, version, environment string) *LoggerConfig {
	return &LoggerConfig{
		Level:       LevelInfo,
		Format:      FormatJSON,
		Output:      os.Stdout,
		Service:     service,
		Version:     version,
		Environment: environment,
	}
}

func (c *LoggerConfig) WithLevel(level LogLevel) *LoggerConfig {
	c.Level = level
	return c
}

func (c *LoggerConfig) WithFormat(format LogFormat) *LoggerConfig {
	c.Format = format
	return c
}

// WithOutput: los comandos de terminal mandan los logs a stderr
func (c *LoggerConfig) WithOutput(output io.Writer) *LoggerConfig {
	c.Output = output
	return c
}

func (c *LoggerConfig) WithSource(addSource bool) *LoggerConfig {
	c.AddSource = addSource
	return c
}

// Validate reports every bad field at once, joined
func (c *LoggerConfig) Validate() error {
	var problems []error

	if !knownLevel(c.Level) {
		problems = append(problems, &ConfigError{Field: "level", Value: string(c.Level), Message: "unknown log level"})
	}
	if _, ok := formatNames[string(c.Format)]; !ok {
		problems = append(problems, &ConfigError{Field: "format", Value: string(c.Format), Message: "expected json or text"})
	}
	if c.Output == nil {
		problems = append(problems, &ConfigError{Field: "output", Message: "writer is nil"})
	}
	if strings.TrimSpace(c.Service) == "" {
		problems = append(problems, &ConfigError{Field: "service", Message: "must not be empty"})
	}

	return errors.Join(problems...)
}

func knownLevel(level LogLevel) bool {
	for _, l := range levelNames {
		if l == level {
			return true
		}
	}
	return false
}

type ConfigError struct {
	Field   string
	Value   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("logging.%s=%q: %s", e.Field, e.Value, e.Message)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidLoggerConfig }

// ParseLevel acepta debug, info, warn/warning, error sin importar mayusculas
func ParseLevel(name string) (LogLevel, bool) {
	level, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	return level, ok
}

// LogLevelFromString cae en INFO con un nombre desconocido; config.Validator
// ya rechaza esos valores al cargar
func LogLevelFromString(name string) LogLevel {
	if level, ok := ParseLevel(name); ok {
		return level
	}
	return LevelInfo
}

func LogFormatFromString(name string) LogFormat {
	if format, ok := formatNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return format
	}
	return FormatJSON
}
