package handlers

import (
	"coinbit-sync/internal/application/dto"
	"coinbit-sync/internal/application/services"
	"coinbit-sync/internal/domain/entities"
	"coinbit-sync/internal/domain/interfaces"
	"coinbit-sync/internal/infrastructure/logging"
	"coinbit-sync/internal/infrastructure/metrics"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 64
)

// StreamHandler entrega los flujos evento por evento sobre websocket.
// Una request nueva con la misma clave (accion + moneda) cancela la anterior.
type StreamHandler struct {
	sync     interfaces.SyncService
	upgrader websocket.Upgrader
}

// NewStreamHandler acepta los mismos origenes que server.cors_origins
func NewStreamHandler(svc interfaces.SyncService, origins []string) *StreamHandler {
	return &StreamHandler{
		sync: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(origins),
		},
	}
}

// originChecker: "*" acepta todo, una lista vacia deja el chequeo same-origin
// de gorilla y sin header Origin (clientes no navegador) se acepta.
func originChecker(origins []string) func(*http.Request) bool {
	if len(origins) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.ToLower(strings.TrimSpace(o)), "/")
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return allowed[strings.TrimRight(strings.ToLower(origin), "/")]
	}
}

// Stream godoc
// @Summary Live sync stream
// @Description WebSocket endpoint. Send {"action":"list|detail|chart|search|favorites|toggle_favorite", ...} and receive one message per flow event. search and favorites stay subscribed and push an update on every cache change.
// @Tags stream
// @Success 101 "Switching protocols"
// @Router /api/v1/stream [get]
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade ya respondio al cliente
		logging.WarnWithError(r.Context(), "WebSocket upgrade failed", err, nil)
		return
	}

	sessionID := logging.GenerateSessionID()
	ctx, cancel := context.WithCancel(logging.WithSessionID(context.WithoutCancel(r.Context()), sessionID))

	s := &streamSession{
		id:     sessionID,
		conn:   conn,
		sync:   h.sync,
		runner: services.NewKeyedRunner(),
		send:   make(chan dto.StreamMessage, sendBuffer),
		ctx:    ctx,
		cancel: cancel,
	}

	metrics.StreamSessionsActive.Inc()
	logging.Info(ctx, "Stream session opened", logging.Fields{
		logging.FieldHTTPRemoteIP: r.RemoteAddr,
	})

	go s.writePump()
	s.readPump()

	s.close()
	metrics.StreamSessionsActive.Dec()
	logging.Info(ctx, "Stream session closed", nil)
}

type streamSession struct {
	id     string
	conn   *websocket.Conn
	sync   interfaces.SyncService
	runner *services.KeyedRunner
	send   chan dto.StreamMessage

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func (s *streamSession) close() {
	s.closeOnce.Do(func() {
		s.runner.CancelAll()
		s.cancel()
		s.wg.Wait()
		_ = s.conn.Close()
	})
}

func (s *streamSession) readPump() {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logging.Debug(s.ctx, "WebSocket closed", logging.Fields{logging.FieldError: err.Error()})
			}
			return
		}

		var req dto.StreamRequest
		if err := json.Unmarshal(data, &req); err != nil {
			s.deliver(s.ctx, dto.ToStreamError(req, "Malformed request"))
			continue
		}
		if err := req.Validate(); err != nil {
			s.deliver(s.ctx, dto.ToStreamError(req, err.Error()))
			continue
		}

		s.dispatch(req)
	}
}

func (s *streamSession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				logging.Debug(s.ctx, "WebSocket write failed", logging.Fields{logging.FieldError: err.Error()})
				s.cancel()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.cancel()
				return
			}
		case <-s.ctx.Done():
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// deliver devuelve false si el run fue reemplazado o la sesion cerro
func (s *streamSession) deliver(ctx context.Context, msg dto.StreamMessage) bool {
	select {
	case s.send <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *streamSession) dispatch(req dto.StreamRequest) {
	// cada toggle cuenta; no pasa por el runner
	if req.Action == dto.ActionToggleFavorite {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.toggle(s.ctx, req)
		}()
		return
	}

	ctx, done := s.runner.Start(s.ctx, req.SupersedeKey())

	logging.Debug(ctx, "Stream request accepted", logging.Fields{
		"action":            req.Action,
		logging.FieldCoinID: req.CoinID,
		logging.FieldDays:   req.Days,
	})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer done()

		switch req.Action {
		case dto.ActionList:
			forward(ctx, s, req, s.sync.SyncCoinList(ctx, req.Refresh))
		case dto.ActionDetail:
			forward(ctx, s, req, s.sync.SyncCoinDetail(ctx, req.CoinID))
		case dto.ActionChart:
			forward(ctx, s, req, s.sync.SyncChart(ctx, req.CoinID, req.Days))
		case dto.ActionSearch:
			s.forwardView(ctx, req, s.sync.SearchCoins(ctx, req.Query))
		case dto.ActionFavorites:
			s.forwardView(ctx, req, s.sync.FavoriteCoins(ctx))
		}
	}()
}

// forward no espera el cierre del flujo si el run fue reemplazado
func forward[T any](ctx context.Context, s *streamSession, req dto.StreamRequest, events <-chan entities.Result[T]) {
	for {
		select {
		case ev, ok := <-events:
			if !ok || !s.deliver(ctx, dto.ToStreamMessage(req, ev)) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *streamSession) forwardView(ctx context.Context, req dto.StreamRequest, views <-chan []entities.CoinSummary) {
	for {
		select {
		case coins, ok := <-views:
			if !ok || !s.deliver(ctx, dto.ToViewMessage(req, coins)) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *streamSession) toggle(ctx context.Context, req dto.StreamRequest) {
	favorite, err := s.sync.ToggleFavorite(ctx, req.CoinID)
	if err != nil {
		logging.WarnWithError(ctx, "Favorite toggle failed", err, logging.Fields{logging.FieldCoinID: req.CoinID})
		s.deliver(ctx, dto.ToStreamError(req, "Could not update favorite"))
		return
	}

	s.deliver(ctx, dto.StreamMessage{
		Action: req.Action,
		CoinID: req.CoinID,
		Kind:   string(entities.ResultSuccess),
		Data:   dto.FavoriteToggleResponse{CoinID: req.CoinID, IsFavorite: favorite},
	})
}
