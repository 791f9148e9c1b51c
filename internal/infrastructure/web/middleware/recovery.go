package middleware

import (
	"coinbit-sync/internal/application/dto"
	"coinbit-sync/internal/infrastructure/logging"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/handlers"
)

// RecoveryMiddleware convierte un panic en un 500 JSON
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logging.Error(r.Context(), "Panic recovered", logging.Fields{
					logging.FieldError:    fmt.Sprint(rec),
					logging.FieldHTTPPath: r.URL.Path,
					"stack":               string(debug.Stack()),
				})

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(dto.NewErrorResponseWithCode(
					"internal_error", "Internal Server Error", "PANIC"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware habilita CORS para los origenes configurados
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", headerRequestID}),
		handlers.ExposedHeaders([]string{headerRequestID, "X-RateLimit-Remaining"}),
	)
}
