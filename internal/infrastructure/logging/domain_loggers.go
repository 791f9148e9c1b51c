package logging

import (
	"context"
)

// BaseDomainLogger agrega el campo de dominio a cada entrada
type BaseDomainLogger struct {
	Logger
	domain string
}

func (dl *BaseDomainLogger) Domain() string {
	return dl.domain
}

func (dl *BaseDomainLogger) logWithDomain(ctx context.Context, level LogLevel, message string, fields Fields) {
	if fields == nil {
		fields = make(Fields)
	}
	fields[FieldDomain] = dl.domain

	switch level {
	case LevelDebug:
		dl.Logger.Debug(ctx, message, fields)
	case LevelWarn:
		dl.Logger.Warn(ctx, message, fields)
	case LevelError:
		dl.Logger.Error(ctx, message, fields)
	default:
		dl.Logger.Info(ctx, message, fields)
	}
}

func (dl *BaseDomainLogger) Debug(ctx context.Context, message string, fields Fields) {
	dl.logWithDomain(ctx, LevelDebug, message, fields)
}

func (dl *BaseDomainLogger) Info(ctx context.Context, message string, fields Fields) {
	dl.logWithDomain(ctx, LevelInfo, message, fields)
}

func (dl *BaseDomainLogger) Warn(ctx context.Context, message string, fields Fields) {
	dl.logWithDomain(ctx, LevelWarn, message, fields)
}

func (dl *BaseDomainLogger) Error(ctx context.Context, message string, fields Fields) {
	dl.logWithDomain(ctx, LevelError, message, fields)
}

func (dl *BaseDomainLogger) WarnWithError(ctx context.Context, message string, err error, fields Fields) {
	dl.logWithDomain(ctx, LevelWarn, message, enrichWithError(fields, err))
}

func (dl *BaseDomainLogger) ErrorWithError(ctx context.Context, message string, err error, fields Fields) {
	dl.logWithDomain(ctx, LevelError, message, enrichWithError(fields, err))
}

// levelForStatus: 4xx -> WARN, 5xx -> ERROR
func levelForStatus(statusCode int) LogLevel {
	switch {
	case statusCode >= 500:
		return LevelError
	case statusCode >= 400:
		return LevelWarn
	default:
		return LevelInfo
	}
}

type HTTPDomainLogger struct {
	*BaseDomainLogger
}

func NewHTTPLogger(baseLogger Logger) HTTPLogger {
	return &HTTPDomainLogger{
		BaseDomainLogger: &BaseDomainLogger{Logger: baseLogger, domain: "http"},
	}
}

func (hl *HTTPDomainLogger) RequestReceived(ctx context.Context, method, path, userAgent, remoteIP string) {
	fields := NewFieldBuilder().
		WithHTTPInfo(method, path, 0).
		WithUserAgent(userAgent).
		WithRemoteIP(remoteIP).
		Build()

	hl.Debug(ctx, "HTTP request received", fields)
}

func (hl *HTTPDomainLogger) RequestCompleted(ctx context.Context, method, path string, statusCode int, duration float64) {
	fields := NewFieldBuilder().
		WithHTTPInfo(method, path, statusCode).
		WithCustomField(FieldDuration, duration).
		Build()

	hl.logWithDomain(ctx, levelForStatus(statusCode), "HTTP request completed", fields)
}

func (hl *HTTPDomainLogger) RequestFailed(ctx context.Context, method, path string, statusCode int, err error, duration float64) {
	fields := NewFieldBuilder().
		WithHTTPInfo(method, path, statusCode).
		WithCustomField(FieldDuration, duration).
		Build()

	hl.ErrorWithError(ctx, "HTTP request failed", err, fields)
}

type ExternalAPIDomainLogger struct {
	*BaseDomainLogger
}

func NewExternalAPILogger(baseLogger Logger) ExternalAPILogger {
	return &ExternalAPIDomainLogger{
		BaseDomainLogger: &BaseDomainLogger{Logger: baseLogger, domain: "external_api"},
	}
}

func (el *ExternalAPIDomainLogger) RequestStarted(ctx context.Context, service, endpoint, method string) {
	fields := NewFieldBuilder().
		WithCustomField(FieldExternalService, service).
		WithCustomField(FieldExternalEndpoint, endpoint).
		WithCustomField(FieldExternalMethod, method).
		Build()

	el.Debug(ctx, "External API request started", fields)
}

func (el *ExternalAPIDomainLogger) RequestCompleted(ctx context.Context, service, endpoint string, statusCode int, duration float64) {
	fields := NewFieldBuilder().
		WithCustomField(FieldExternalService, service).
		WithCustomField(FieldExternalEndpoint, endpoint).
		WithCustomField(FieldExternalStatus, statusCode).
		WithCustomField(FieldExternalDuration, duration).
		Build()

	el.logWithDomain(ctx, levelForStatus(statusCode), "External API request completed", fields)
}

func (el *ExternalAPIDomainLogger) RequestFailed(ctx context.Context, service, endpoint string, statusCode int, err error, duration float64) {
	fields := NewFieldBuilder().
		WithCustomField(FieldExternalService, service).
		WithCustomField(FieldExternalEndpoint, endpoint).
		WithCustomField(FieldExternalStatus, statusCode).
		WithCustomField(FieldExternalDuration, duration).
		Build()

	el.WarnWithError(ctx, "External API request failed", err, fields)
}

type CacheDomainLogger struct {
	*BaseDomainLogger
}

func NewCacheLogger(baseLogger Logger) CacheLogger {
	return &CacheDomainLogger{
		BaseDomainLogger: &BaseDomainLogger{Logger: baseLogger, domain: "cache"},
	}
}

func (cl *CacheDomainLogger) Hit(ctx context.Context, key string, operation string) {
	cl.Debug(ctx, "Cache hit", NewFieldBuilder().WithCache(operation, key, true).Build())
}

func (cl *CacheDomainLogger) Miss(ctx context.Context, key string, operation string) {
	cl.Debug(ctx, "Cache miss", NewFieldBuilder().WithCache(operation, key, false).Build())
}

func (cl *CacheDomainLogger) Set(ctx context.Context, key string, count int) {
	fields := NewFieldBuilder().
		WithCustomField(FieldCacheKey, key).
		WithCustomField(FieldCacheOperation, CacheOpSet).
		WithCustomField(FieldCount, count).
		Build()

	cl.Debug(ctx, "Cache set", fields)
}

func (cl *CacheDomainLogger) Delete(ctx context.Context, key string) {
	fields := NewFieldBuilder().
		WithCustomField(FieldCacheKey, key).
		WithCustomField(FieldCacheOperation, CacheOpDelete).
		Build()

	cl.Info(ctx, "Cache delete", fields)
}

func (cl *CacheDomainLogger) CacheError(ctx context.Context, operation, key string, err error) {
	fields := NewFieldBuilder().
		WithCustomField(FieldCacheOperation, operation).
		WithCustomField(FieldCacheKey, key).
		Build()

	cl.ErrorWithError(ctx, "Cache operation failed", err, fields)
}

type SyncDomainLogger struct {
	*BaseDomainLogger
}

func NewSyncLogger(baseLogger Logger) SyncLogger {
	return &SyncDomainLogger{
		BaseDomainLogger: &BaseDomainLogger{Logger: baseLogger, domain: "sync"},
	}
}

func (sl *SyncDomainLogger) FlowStarted(ctx context.Context, resource, key string) {
	sl.Debug(ctx, "Sync flow started", NewFieldBuilder().WithSync(resource, key).Build())
}

func (sl *SyncDomainLogger) Served(ctx context.Context, resource, key, origin string, count int) {
	fields := NewFieldBuilder().
		WithSync(resource, key).
		WithCustomField(FieldOrigin, origin).
		WithCustomField(FieldCount, count).
		Build()

	sl.Info(ctx, "Sync flow served data", fields)
}

func (sl *SyncDomainLogger) FallbackUsed(ctx context.Context, resource, key, reason string, err error) {
	fields := NewFieldBuilder().
		WithSync(resource, key).
		WithCustomField(FieldReason, reason).
		Build()

	sl.WarnWithError(ctx, "Sync flow fell back to cached data", err, fields)
}

func (sl *SyncDomainLogger) FlowFailed(ctx context.Context, resource, key, message string, err error) {
	fields := NewFieldBuilder().
		WithSync(resource, key).
		WithCustomField("user_message", message).
		Build()

	sl.WarnWithError(ctx, "Sync flow ended with error", err, fields)
}
