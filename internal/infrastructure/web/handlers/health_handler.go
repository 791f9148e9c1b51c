package handlers

import (
	"coinbit-sync/internal/application/dto"
	"coinbit-sync/internal/domain/interfaces"
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const readyTimeout = 3 * time.Second

// Pinger is the part of the local store readiness needs
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler maneja los endpoints de health check
type HealthHandler struct {
	store        Pinger
	connectivity interfaces.ConnectivityChecker
}

// NewHealthHandler crea una nueva instancia del health handler.
// connectivity puede ser nil: se reporta como "unknown".
func NewHealthHandler(store Pinger, connectivity interfaces.ConnectivityChecker) *HealthHandler {
	return &HealthHandler{
		store:        store,
		connectivity: connectivity,
	}
}

// Health godoc
// @Summary Basic health check
// @Description Verifies that the service is running correctly. Responds quickly without checking external dependencies.
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service is running correctly"
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"service": "running",
	}

	writeJSONResponse(w, http.StatusOK, dto.NewHealthResponse("healthy", services))
}

// Ready godoc
// @Summary Complete readiness check
// @Description Verifies the local store answers. Lack of internet only degrades the service since cached data is still served.
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service is ready to receive traffic"
// @Failure 503 {object} dto.HealthResponse "Local store is failing"
// @Router /ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	var (
		storeStatus  = "ready"
		onlineStatus = "unknown"
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := h.store.Ping(gctx); err != nil {
			storeStatus = "error: " + err.Error()
			return fmt.Errorf("store ping: %w", err)
		}
		return nil
	})
	if h.connectivity != nil {
		g.Go(func() error {
			// Un fallo del store cancela gctx y deja la conectividad sin validar
			if h.connectivity.IsOnline(gctx) {
				onlineStatus = "online"
			} else {
				onlineStatus = "offline"
			}
			return nil
		})
	}
	storeErr := g.Wait()

	services := map[string]string{
		"store":        storeStatus,
		"connectivity": onlineStatus,
	}

	switch {
	case storeErr != nil:
		writeJSONResponse(w, http.StatusServiceUnavailable, dto.NewHealthResponse("unhealthy", services))
	case onlineStatus == "offline":
		writeJSONResponse(w, http.StatusOK, dto.NewHealthResponse("degraded", services))
	default:
		writeJSONResponse(w, http.StatusOK, dto.NewHealthResponse("ready", services))
	}
}
