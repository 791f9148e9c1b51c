package dto

import (
	"coinbit-sync/internal/domain/entities"
	"time"
)

// FlowEvent is one event of a sync flow without its payload
// @Description One event of a sync flow
type FlowEvent struct {
	Kind    string `json:"kind" example:"success" enums:"loading,success,error"`           // Event kind
	Origin  string `json:"origin,omitempty" example:"cache" enums:"cache,network,stale_cache"` // Where the data came from
	Message string `json:"message,omitempty" example:"No internet connection"`              // Short user message on error
}

// FlowMeta describe el resultado terminal de un flujo y la secuencia completa
type FlowMeta struct {
	Status  string      `json:"status" example:"success" enums:"success,error"` // Terminal status
	Origin  string      `json:"origin,omitempty" example:"network"`              // Origin of the terminal data
	Message string      `json:"message,omitempty"`                               // Short user message when status is error
	Events  []FlowEvent `json:"events"`                                          // Ordered events emitted by the flow
}

// IsError reports whether the flow ended with an error
func (m FlowMeta) IsError() bool {
	return m.Status == string(entities.ResultError)
}

// CoinListResponse represents the response from /api/v1/coins
// @Description Coin list with the ordered sync events
type CoinListResponse struct {
	FlowMeta
	Count int                    `json:"count" example:"100"`
	Coins []entities.CoinSummary `json:"coins"`
}

// CoinDetailResponse represents the response from /api/v1/coins/{id}
// @Description Coin detail with the ordered sync events
type CoinDetailResponse struct {
	FlowMeta
	Coin *entities.CoinDetail `json:"coin,omitempty"`
}

// ChartResponse represents the response from /api/v1/coins/{id}/chart
// @Description Market chart with the ordered sync events
type ChartResponse struct {
	FlowMeta
	CoinID string                `json:"coin_id" example:"bitcoin"`
	Days   int                   `json:"days" example:"7"`
	Chart  *entities.ChartSeries `json:"chart,omitempty"`
}

// CoinsResponse is a plain list of cached summaries (search and favorites)
// @Description Cached coin summaries
type CoinsResponse struct {
	Query string                 `json:"query,omitempty" example:"bit"`
	Count int                    `json:"count" example:"2"`
	Coins []entities.CoinSummary `json:"coins"`
}

// FavoriteToggleResponse represents the new favorite state of a coin
// @Description New favorite state after a toggle
type FavoriteToggleResponse struct {
	CoinID     string `json:"coin_id" example:"bitcoin"`
	IsFavorite bool   `json:"is_favorite" example:"true"`
}

// TimeRangesResponse lists the chart range presets
// @Description Chart range presets
type TimeRangesResponse struct {
	Ranges []entities.TimeRange `json:"ranges"`
}

// MessageResponse is a generic acknowledgement
type MessageResponse struct {
	Message string `json:"message" example:"cache cleared"`
}

// ErrorResponse represents a standard error response for endpoints
// @Description Standard error response for endpoints
type ErrorResponse struct {
	Error   string `json:"error" example:"INVALID_PARAMETER" validate:"required"` // Main error message
	Message string `json:"message,omitempty" example:"days must be positive"`    // Detailed error description
	Code    string `json:"code,omitempty" example:"400"`                          // HTTP error code or internal code
}

// HealthResponse represents the health check response with service status
// @Description Health check response with service status
type HealthResponse struct {
	Status    string            `json:"status" example:"healthy" validate:"required" enums:"healthy,ready,degraded,unhealthy"` // Overall service status
	Timestamp time.Time         `json:"timestamp" example:"2023-12-01T10:30:00Z" validate:"required"`                    // When the health check was performed
	Services  map[string]string `json:"services,omitempty" example:"store:healthy,connectivity:available"`               // Individual service statuses
}

// NewErrorResponse creates a new error response
func NewErrorResponse(error string, message string) *ErrorResponse {
	return &ErrorResponse{
		Error:   error,
		Message: message,
	}
}

// NewErrorResponseWithCode creates an error response with code
func NewErrorResponseWithCode(error string, message string, code string) *ErrorResponse {
	return &ErrorResponse{
		Error:   error,
		Message: message,
		Code:    code,
	}
}

// NewHealthResponse creates a health check response
func NewHealthResponse(status string, services map[string]string) *HealthResponse {
	return &HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Services:  services,
	}
}

// NewCoinsResponse wraps a cached list; nil becomes an empty list
func NewCoinsResponse(query string, coins []entities.CoinSummary) *CoinsResponse {
	if coins == nil {
		coins = []entities.CoinSummary{}
	}
	return &CoinsResponse{Query: query, Count: len(coins), Coins: coins}
}
