package server

import (
	_ "coinbit-sync/docs"
	"coinbit-sync/internal/infrastructure/config"
	"coinbit-sync/internal/infrastructure/metrics"
	"coinbit-sync/internal/infrastructure/ratelimit"
	"coinbit-sync/internal/infrastructure/web/handlers"
	"coinbit-sync/internal/infrastructure/web/middleware"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers agrupa los handlers que expone el router
type Handlers struct {
	Coins  *handlers.CoinHandler
	Health *handlers.HealthHandler
	Stream *handlers.StreamHandler
}

// NewRouter arma las rutas y la cadena de middleware.
// Recovery y CORS envuelven al router entero para cubrir preflights y 404;
// el resto corre solo sobre rutas resueltas.
func NewRouter(h Handlers, cfg *config.Config) http.Handler {
	router := mux.NewRouter()

	router.Use(middleware.RequestTracingMiddleware)
	router.Use(middleware.LoggingMiddleware)
	router.Use(metrics.HTTPMetricsMiddleware)
	router.Use(ratelimit.NewRateLimitMiddleware(cfg.APIRateLimit).Handler)

	router.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.Health.Ready).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	api := router.PathPrefix("/api/v1").Subrouter()

	// /search y /favorites antes de /{id}
	api.HandleFunc("/coins", h.Coins.ListCoins).Methods(http.MethodGet)
	api.HandleFunc("/coins/search", h.Coins.SearchCoins).Methods(http.MethodGet)
	api.HandleFunc("/coins/favorites", h.Coins.ListFavorites).Methods(http.MethodGet)
	api.HandleFunc("/coins/{id}", h.Coins.GetCoin).Methods(http.MethodGet)
	api.HandleFunc("/coins/{id}/chart", h.Coins.GetChart).Methods(http.MethodGet)
	api.HandleFunc("/coins/{id}/favorite", h.Coins.ToggleFavorite).Methods(http.MethodPost)
	api.HandleFunc("/chart/ranges", h.Coins.GetTimeRanges).Methods(http.MethodGet)
	api.HandleFunc("/cache", h.Coins.ClearCache).Methods(http.MethodDelete)

	if h.Stream != nil {
		api.HandleFunc("/stream", h.Stream.Stream).Methods(http.MethodGet)
	}

	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	return middleware.RecoveryMiddleware(middleware.CORSMiddleware(cfg.Server.CORSOrigins)(router))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"error":"NOT_FOUND","message":"route not found","code":"404"}`))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	_, _ = w.Write([]byte(`{"error":"METHOD_NOT_ALLOWED","message":"method not allowed","code":"405"}`))
}
