package handlers

import (
	"coinbit-sync/internal/application/dto"
	"coinbit-sync/internal/application/services"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

const msgRequestCancelled = "Request cancelled"

// writeJSONResponse escribe una respuesta JSON
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"ENCODING_ERROR","message":"Failed to encode response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSONResponse(w, statusCode, dto.NewErrorResponseWithCode(code, message, strconv.Itoa(statusCode)))
}

// statusForFlow traduce el mensaje terminal de un flujo a un status HTTP
func statusForFlow(meta dto.FlowMeta) int {
	if !meta.IsError() {
		return http.StatusOK
	}

	switch msg := meta.Message; {
	case msg == services.MsgNoConnectionNoCache, msg == services.MsgNoConnection:
		return http.StatusServiceUnavailable
	case msg == services.MsgRateLimited:
		return http.StatusTooManyRequests
	case msg == services.MsgInvalidCoinID, msg == services.MsgInvalidDays:
		return http.StatusBadRequest
	case msg == services.MsgTimeout:
		return http.StatusGatewayTimeout
	case msg == msgRequestCancelled:
		return http.StatusRequestTimeout
	case strings.HasPrefix(msg, "Server error (HTTP 404)"):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
