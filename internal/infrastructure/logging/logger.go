package logging

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// LogrusLogger implementa Logger sobre logrus
type LogrusLogger struct {
	config *LoggerConfig
	entry  *logrus.Entry
}

// NewLogrusLogger crea un logger estructurado con salida JSON o texto
func NewLogrusLogger(config *LoggerConfig) (*LogrusLogger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	base := logrus.New()
	base.SetOutput(config.Output)
	base.SetLevel(toLogrusLevel(config.Level))
	base.SetReportCaller(config.AddSource)

	switch config.Format {
	case FormatText:
		base.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
	default:
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	entry := base.WithFields(logrus.Fields{
		FieldService: config.Service,
		FieldVersion: config.Version,
		"env":        config.Environment,
	})

	return &LogrusLogger{config: config, entry: entry}, nil
}

func (l *LogrusLogger) withContext(ctx context.Context, fields Fields) *logrus.Entry {
	data := make(logrus.Fields, len(fields)+3)
	for k, v := range fields {
		data[k] = v
	}

	if requestID := GetRequestID(ctx); requestID != "" {
		data[FieldRequestID] = requestID
	}
	if sessionID := GetSessionID(ctx); sessionID != "" {
		data[FieldSessionID] = sessionID
	}
	if startTime := GetStartTime(ctx); !startTime.IsZero() {
		if _, ok := data[FieldDuration]; !ok {
			data[FieldDuration] = float64(time.Since(startTime).Nanoseconds()) / 1e6
		}
	}

	entry := l.entry.WithFields(data)
	if ctx != nil {
		entry = entry.WithContext(ctx)
	}
	return entry
}

func (l *LogrusLogger) Debug(ctx context.Context, message string, fields Fields) {
	l.withContext(ctx, fields).Debug(message)
}

func (l *LogrusLogger) Info(ctx context.Context, message string, fields Fields) {
	l.withContext(ctx, fields).Info(message)
}

func (l *LogrusLogger) Warn(ctx context.Context, message string, fields Fields) {
	l.withContext(ctx, fields).Warn(message)
}

func (l *LogrusLogger) Error(ctx context.Context, message string, fields Fields) {
	l.withContext(ctx, fields).Error(message)
}

func (l *LogrusLogger) InfoWithError(ctx context.Context, message string, err error, fields Fields) {
	l.Info(ctx, message, enrichWithError(fields, err))
}

func (l *LogrusLogger) WarnWithError(ctx context.Context, message string, err error, fields Fields) {
	l.Warn(ctx, message, enrichWithError(fields, err))
}

func (l *LogrusLogger) ErrorWithError(ctx context.Context, message string, err error, fields Fields) {
	l.Error(ctx, message, enrichWithError(fields, err))
}

func (l *LogrusLogger) SetLevel(level LogLevel) {
	l.config.Level = level
	l.entry.Logger.SetLevel(toLogrusLevel(level))
}

func (l *LogrusLogger) GetLevel() LogLevel {
	return l.config.Level
}

func (l *LogrusLogger) GetConfig() *LoggerConfig {
	return l.config
}

// enrichWithError copia los campos para no mutar el mapa del llamador
func enrichWithError(fields Fields, err error) Fields {
	if err == nil {
		return fields
	}
	enriched := make(Fields, len(fields)+2)
	for k, v := range fields {
		enriched[k] = v
	}
	enriched[FieldError] = err.Error()
	enriched[FieldErrorType] = errorType(err)
	return enriched
}

func toLogrusLevel(level LogLevel) logrus.Level {
	switch level {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
