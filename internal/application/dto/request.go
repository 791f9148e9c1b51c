package dto

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const DefaultChartDays = 7

// Acciones aceptadas por el stream
const (
	ActionList           = "list"
	ActionDetail         = "detail"
	ActionChart          = "chart"
	ActionSearch         = "search"
	ActionFavorites      = "favorites"
	ActionToggleFavorite = "toggle_favorite"
)

var (
	ErrMissingCoinID = errors.New("coin id is required")
	ErrInvalidDays   = errors.New("days must be a positive integer")
	ErrUnknownAction = errors.New("unknown action")
)

// ChartRequest representa la request de un grafico
type ChartRequest struct {
	CoinID string
	Days   int
}

// NewChartRequest parsea coin id y el query param days (por defecto 7)
func NewChartRequest(coinID, daysParam string) (*ChartRequest, error) {
	coinID = strings.TrimSpace(coinID)
	if coinID == "" {
		return nil, ErrMissingCoinID
	}

	days := DefaultChartDays
	if daysParam = strings.TrimSpace(daysParam); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDays, daysParam)
		}
		days = parsed
	}

	return &ChartRequest{CoinID: coinID, Days: days}, nil
}

// ParseBool acepta true/false/1/0; vacio o invalido es false
func ParseBool(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
}

// StreamRequest is one client message on the WebSocket stream
type StreamRequest struct {
	Action  string `json:"action"`
	CoinID  string `json:"coin_id,omitempty"`
	Days    int    `json:"days,omitempty"`
	Query   string `json:"query,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`
}

// Validate normaliza y valida la request
func (r *StreamRequest) Validate() error {
	r.Action = strings.ToLower(strings.TrimSpace(r.Action))
	r.CoinID = strings.TrimSpace(r.CoinID)

	switch r.Action {
	case ActionList, ActionSearch, ActionFavorites:
		return nil
	case ActionDetail, ActionToggleFavorite:
		if r.CoinID == "" {
			return ErrMissingCoinID
		}
		return nil
	case ActionChart:
		if r.CoinID == "" {
			return ErrMissingCoinID
		}
		if r.Days == 0 {
			r.Days = DefaultChartDays
		}
		if r.Days < 0 {
			return ErrInvalidDays
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, r.Action)
	}
}

// SupersedeKey agrupa las requests que se reemplazan entre si: un nuevo rango
// de grafico cancela el anterior, una nueva busqueda cancela la vieja.
func (r *StreamRequest) SupersedeKey() string {
	switch r.Action {
	case ActionDetail, ActionChart:
		return r.Action + ":" + r.CoinID
	default:
		return r.Action
	}
}

// StreamMessage is one server message on the WebSocket stream
type StreamMessage struct {
	Action  string      `json:"action"`
	CoinID  string      `json:"coin_id,omitempty"`
	Days    int         `json:"days,omitempty"`
	Kind    string      `json:"kind"`
	Origin  string      `json:"origin,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
