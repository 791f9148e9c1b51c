package logging

import (
	"fmt"
	"sync"
)

// LoggerFactory crea los loggers de dominio sobre un logger base comun
type LoggerFactory struct {
	baseLogger Logger
}

func NewLoggerFactory(config *LoggerConfig) (*LoggerFactory, error) {
	baseLogger, err := NewLogrusLogger(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create base logger: %w", err)
	}

	return &LoggerFactory{baseLogger: baseLogger}, nil
}

// NewLoggerFactoryWithLogger envuelve un Logger existente (util en tests)
func NewLoggerFactoryWithLogger(base Logger) *LoggerFactory {
	return &LoggerFactory{baseLogger: base}
}

func (f *LoggerFactory) GetBaseLogger() Logger {
	return f.baseLogger
}

func (f *LoggerFactory) UpdateLogLevel(level LogLevel) {
	f.baseLogger.SetLevel(level)
}

// LoggerSet contiene todos los loggers especializados
type LoggerSet struct {
	Base        Logger
	HTTP        HTTPLogger
	ExternalAPI ExternalAPILogger
	Cache       CacheLogger
	Sync        SyncLogger
}

func (f *LoggerFactory) GetLoggerSet() *LoggerSet {
	return &LoggerSet{
		Base:        f.baseLogger,
		HTTP:        NewHTTPLogger(f.baseLogger),
		ExternalAPI: NewExternalAPILogger(f.baseLogger),
		Cache:       NewCacheLogger(f.baseLogger),
		Sync:        NewSyncLogger(f.baseLogger),
	}
}

var (
	globalMu      sync.RWMutex
	globalFactory *LoggerFactory
	globalLoggers *LoggerSet
)

// InitializeGlobalLoggers inicializa los loggers globales
func InitializeGlobalLoggers(config *LoggerConfig) error {
	factory, err := NewLoggerFactory(config)
	if err != nil {
		return fmt.Errorf("failed to initialize global loggers: %w", err)
	}

	SetGlobalFactory(factory)
	return nil
}

// SetGlobalFactory reemplaza los loggers globales
func SetGlobalFactory(factory *LoggerFactory) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalFactory = factory
	globalLoggers = factory.GetLoggerSet()
}

// GetGlobalLoggers inicializa con valores por defecto si nadie lo hizo antes
func GetGlobalLoggers() *LoggerSet {
	globalMu.RLock()
	loggers := globalLoggers
	globalMu.RUnlock()
	if loggers != nil {
		return loggers
	}

	_ = InitializeGlobalLoggers(DefaultConfig())

	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLoggers
}

func GetGlobalLogger() Logger {
	return GetGlobalLoggers().Base
}

func SetGlobalLogLevel(level LogLevel) {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalFactory != nil {
		globalFactory.UpdateLogLevel(level)
	}
}

// NewDevelopmentConfig: texto legible, DEBUG y caller
func NewDevelopmentConfig(service string) *LoggerConfig {
	return NewConfig(service, "dev", "development").
		WithLevel(LevelDebug).
		WithFormat(FormatText).
		WithSource(true)
}

func NewProductionConfig(service, version string) *LoggerConfig {
	return NewConfig(service, version, "production").
		WithLevel(LevelInfo).
		WithFormat(FormatJSON)
}
