package logging

import (
	"context"
)

// Funciones globales de conveniencia sobre el logger global

func Debug(ctx context.Context, message string, fields Fields) {
	GetGlobalLogger().Debug(ctx, message, fields)
}

func Info(ctx context.Context, message string, fields Fields) {
	GetGlobalLogger().Info(ctx, message, fields)
}

func Warn(ctx context.Context, message string, fields Fields) {
	GetGlobalLogger().Warn(ctx, message, fields)
}

func Error(ctx context.Context, message string, fields Fields) {
	GetGlobalLogger().Error(ctx, message, fields)
}

func InfoWithError(ctx context.Context, message string, err error, fields Fields) {
	GetGlobalLogger().InfoWithError(ctx, message, err, fields)
}

func WarnWithError(ctx context.Context, message string, err error, fields Fields) {
	GetGlobalLogger().WarnWithError(ctx, message, err, fields)
}

func ErrorWithError(ctx context.Context, message string, err error, fields Fields) {
	GetGlobalLogger().ErrorWithError(ctx, message, err, fields)
}

// HTTPRequest toma la duracion de fields[FieldDuration] si existe
func HTTPRequest(ctx context.Context, method, path string, statusCode int, fields Fields) {
	duration := float64(0)
	if d, ok := fields[FieldDuration].(float64); ok {
		duration = d
	}
	GetGlobalLoggers().HTTP.RequestCompleted(ctx, method, path, statusCode, duration)
}

func ExternalRequest(ctx context.Context, service, endpoint string, durationMs float64, statusCode int) {
	GetGlobalLoggers().ExternalAPI.RequestCompleted(ctx, service, endpoint, statusCode, durationMs)
}

func CacheOperation(ctx context.Context, operation, key string, hit bool) {
	cacheLogger := GetGlobalLoggers().Cache
	if hit {
		cacheLogger.Hit(ctx, key, operation)
	} else {
		cacheLogger.Miss(ctx, key, operation)
	}
}

func HTTP() HTTPLogger {
	return GetGlobalLoggers().HTTP
}

func ExternalAPI() ExternalAPILogger {
	return GetGlobalLoggers().ExternalAPI
}

func Cache() CacheLogger {
	return GetGlobalLoggers().Cache
}

func Sync() SyncLogger {
	return GetGlobalLoggers().Sync
}
