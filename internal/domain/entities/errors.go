package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marca la ausencia de un registro en cache; no es un fallo
	ErrNotFound       = errors.New("record not found")
	ErrNoConnectivity = errors.New("no internet connection")
	ErrInvalidCoinID  = errors.New("coin id is required")
	ErrInvalidDays    = errors.New("days must be positive")
)

// NetworkErrorKind classifies remote failures
type NetworkErrorKind string

const (
	NetworkTimeout     NetworkErrorKind = "timeout"
	NetworkHTTPStatus  NetworkErrorKind = "http_status"
	NetworkMalformed   NetworkErrorKind = "malformed"
	NetworkTransport   NetworkErrorKind = "transport"
	NetworkRateLimited NetworkErrorKind = "rate_limited"
)

// NetworkError is the only error type a RemoteSource returns
type NetworkError struct {
	Kind       NetworkErrorKind
	StatusCode int
	Endpoint   string
	Err        error
}

func NewNetworkError(kind NetworkErrorKind, endpoint string, statusCode int, err error) *NetworkError {
	return &NetworkError{Kind: kind, Endpoint: endpoint, StatusCode: statusCode, Err: err}
}

func (e *NetworkError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s request to %s failed with HTTP %d: %v", e.Kind, e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request to %s failed: %v", e.Kind, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Retryable reports whether a second attempt could succeed
func (e *NetworkError) Retryable() bool {
	switch e.Kind {
	case NetworkTimeout, NetworkTransport, NetworkRateLimited:
		return true
	case NetworkHTTPStatus:
		return e.StatusCode >= 500
	default:
		return false
	}
}

// AsNetworkError unwraps err into a *NetworkError when possible
func AsNetworkError(err error) (*NetworkError, bool) {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr, true
	}
	return nil, false
}
