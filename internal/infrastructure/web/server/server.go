package server

import (
	"coinbit-sync/internal/infrastructure/config"
	"coinbit-sync/internal/infrastructure/logging"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Server encapsulates HTTP server configuration
type Server struct {
	httpServer *http.Server
	port       int
}

// NewServer creates a new server instance
func NewServer(handler http.Handler, cfg config.ServerConfig) *Server {
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       60 * time.Second,
		},
		port: cfg.Port,
	}
}

// Start bloquea hasta que el server se cierre; Stop no se reporta como error
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ln)
}

// Serve acepta conexiones sobre un listener ya abierto
func (s *Server) Serve(ln net.Listener) error {
	ctx := context.Background()

	logging.Info(ctx, "HTTP server starting", logging.Fields{
		"addr": ln.Addr().String(),
	})

	logging.Debug(ctx, "Available endpoints", logging.Fields{
		"endpoints": Endpoints(s.port),
	})

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop stops the HTTP server gracefully
func (s *Server) Stop(ctx context.Context) error {
	logging.Info(ctx, "Stopping HTTP server gracefully", logging.Fields{
		"port": s.port,
	})

	return s.httpServer.Shutdown(ctx)
}

// GetPort returns the configured port
func (s *Server) GetPort() int {
	return s.port
}

// Endpoints lista las rutas publicas para el log de arranque
func Endpoints(port int) []string {
	base := fmt.Sprintf("http://localhost:%d", port)
	return []string{
		"GET    " + base + "/health",
		"GET    " + base + "/ready",
		"GET    " + base + "/metrics",
		"GET    " + base + "/swagger/index.html",
		"GET    " + base + "/api/v1/coins?refresh=false",
		"GET    " + base + "/api/v1/coins/search?q=bit",
		"GET    " + base + "/api/v1/coins/favorites",
		"GET    " + base + "/api/v1/coins/bitcoin",
		"GET    " + base + "/api/v1/coins/bitcoin/chart?days=7",
		"POST   " + base + "/api/v1/coins/bitcoin/favorite",
		"GET    " + base + "/api/v1/chart/ranges",
		"DELETE " + base + "/api/v1/cache",
		"WS     " + base + "/api/v1/stream",
	}
}
