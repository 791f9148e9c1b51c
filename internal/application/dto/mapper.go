package dto

import (
	"coinbit-sync/internal/domain/entities"
)

// ResultMapper convierte secuencias de resultados del dominio a DTOs de respuesta
type ResultMapper struct{}

func NewResultMapper() *ResultMapper {
	return &ResultMapper{}
}

// ToCoinListResponse uses the last Success as payload; the cached emission is only in events
func (m *ResultMapper) ToCoinListResponse(events []entities.Result[[]entities.CoinSummary]) *CoinListResponse {
	meta, coins := flowMeta(events)
	if coins == nil {
		coins = []entities.CoinSummary{}
	}
	return &CoinListResponse{FlowMeta: meta, Count: len(coins), Coins: coins}
}

func (m *ResultMapper) ToCoinDetailResponse(events []entities.Result[*entities.CoinDetail]) *CoinDetailResponse {
	meta, detail := flowMeta(events)
	return &CoinDetailResponse{FlowMeta: meta, Coin: detail}
}

func (m *ResultMapper) ToChartResponse(coinID string, days int, events []entities.Result[*entities.ChartSeries]) *ChartResponse {
	meta, series := flowMeta(events)
	return &ChartResponse{FlowMeta: meta, CoinID: coinID, Days: days, Chart: series}
}

// ToFlowEvent drops the payload of a single result
func ToFlowEvent[T any](r entities.Result[T]) FlowEvent {
	return FlowEvent{Kind: string(r.Kind), Origin: string(r.Origin), Message: r.Message}
}

// flowMeta resume la secuencia; sin evento terminal el flujo fue cancelado
func flowMeta[T any](events []entities.Result[T]) (FlowMeta, T) {
	meta := FlowMeta{Events: make([]FlowEvent, 0, len(events))}
	var data T

	for _, ev := range events {
		meta.Events = append(meta.Events, ToFlowEvent(ev))
		if !ev.IsTerminal() {
			continue
		}
		meta.Status = string(ev.Kind)
		meta.Origin = string(ev.Origin)
		meta.Message = ev.Message
		data = ev.Data
	}

	if meta.Status == "" {
		meta.Status = string(entities.ResultError)
		meta.Message = "Request cancelled"
	}
	return meta, data
}

// KindUpdate marca una nueva proyeccion de una vista viva en el stream
const KindUpdate = "update"

// ToStreamMessage wraps one flow event for the WebSocket stream
func ToStreamMessage[T any](req StreamRequest, r entities.Result[T]) StreamMessage {
	msg := StreamMessage{
		Action:  req.Action,
		CoinID:  req.CoinID,
		Days:    req.Days,
		Kind:    string(r.Kind),
		Origin:  string(r.Origin),
		Message: r.Message,
	}
	if r.Kind == entities.ResultSuccess {
		msg.Data = r.Data
	}
	return msg
}

// ToViewMessage wraps a live view projection for the WebSocket stream
func ToViewMessage(req StreamRequest, coins []entities.CoinSummary) StreamMessage {
	return StreamMessage{
		Action: req.Action,
		Kind:   KindUpdate,
		Data:   NewCoinsResponse(req.Query, coins),
	}
}

// ToStreamError reports a rejected request on the stream
func ToStreamError(req StreamRequest, message string) StreamMessage {
	return StreamMessage{
		Action:  req.Action,
		CoinID:  req.CoinID,
		Kind:    string(entities.ResultError),
		Message: message,
	}
}
