package handlers

import (
	"coinbit-sync/internal/application/dto"
	"coinbit-sync/internal/application/services"
	"coinbit-sync/internal/domain/entities"
	"coinbit-sync/internal/domain/interfaces"
	"coinbit-sync/internal/infrastructure/logging"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// CoinHandler expone los flujos de sincronizacion por HTTP.
// Cada endpoint drena el flujo completo y devuelve la secuencia de eventos.
type CoinHandler struct {
	sync   interfaces.SyncService
	mapper *dto.ResultMapper
}

func NewCoinHandler(svc interfaces.SyncService) *CoinHandler {
	return &CoinHandler{
		sync:   svc,
		mapper: dto.NewResultMapper(),
	}
}

// ListCoins godoc
// @Summary Coin list
// @Description Returns the coin list ordered by market cap rank. Serves the cache immediately and refreshes from CoinGecko when the list is stale, falling back to the cache when the network fails.
// @Tags coins
// @Produce json
// @Param refresh query bool false "Force a network refresh"
// @Success 200 {object} dto.CoinListResponse "Coin list and sync events"
// @Failure 503 {object} dto.CoinListResponse "No connection and no cached data"
// @Failure 502 {object} dto.CoinListResponse "Remote failure without cached data"
// @Router /api/v1/coins [get]
func (h *CoinHandler) ListCoins(w http.ResponseWriter, r *http.Request) {
	force := dto.ParseBool(r.URL.Query().Get("refresh"))

	events := services.Collect(h.sync.SyncCoinList(r.Context(), force))
	response := h.mapper.ToCoinListResponse(events)

	writeJSONResponse(w, statusForFlow(response.FlowMeta), response)
}

// GetCoin godoc
// @Summary Coin detail
// @Description Returns the detail of one coin from cache when fresh, otherwise from CoinGecko
// @Tags coins
// @Produce json
// @Param id path string true "CoinGecko coin id" example(bitcoin)
// @Success 200 {object} dto.CoinDetailResponse "Coin detail and sync events"
// @Failure 400 {object} dto.CoinDetailResponse "Invalid coin id"
// @Failure 503 {object} dto.CoinDetailResponse "No connection and no cached data"
// @Router /api/v1/coins/{id} [get]
func (h *CoinHandler) GetCoin(w http.ResponseWriter, r *http.Request) {
	coinID := mux.Vars(r)["id"]

	events := services.Collect(h.sync.SyncCoinDetail(r.Context(), coinID))
	response := h.mapper.ToCoinDetailResponse(events)

	writeJSONResponse(w, statusForFlow(response.FlowMeta), response)
}

// GetChart godoc
// @Summary Market chart
// @Description Returns the price series of one coin for a range of days. Each (coin, days) pair is cached independently.
// @Tags coins
// @Produce json
// @Param id path string true "CoinGecko coin id" example(bitcoin)
// @Param days query int false "Range in days" default(7)
// @Success 200 {object} dto.ChartResponse "Chart and sync events"
// @Failure 400 {object} dto.ErrorResponse "Invalid days parameter"
// @Failure 503 {object} dto.ChartResponse "No connection and no cached data"
// @Router /api/v1/coins/{id}/chart [get]
func (h *CoinHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	req, err := dto.NewChartRequest(mux.Vars(r)["id"], r.URL.Query().Get("days"))
	if err != nil {
		code := "INVALID_PARAMETER"
		if errors.Is(err, dto.ErrMissingCoinID) {
			code = "MISSING_COIN_ID"
		}
		writeError(w, http.StatusBadRequest, code, err.Error())
		return
	}

	events := services.Collect(h.sync.SyncChart(r.Context(), req.CoinID, req.Days))
	response := h.mapper.ToChartResponse(req.CoinID, req.Days, events)

	writeJSONResponse(w, statusForFlow(response.FlowMeta), response)
}

// GetTimeRanges godoc
// @Summary Chart range presets
// @Tags coins
// @Produce json
// @Success 200 {object} dto.TimeRangesResponse
// @Router /api/v1/chart/ranges [get]
func (h *CoinHandler) GetTimeRanges(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, dto.TimeRangesResponse{Ranges: entities.TimeRanges()})
}

// SearchCoins godoc
// @Summary Search cached coins
// @Description Case-insensitive match on name or symbol over the cached list. An empty query returns the whole list.
// @Tags coins
// @Produce json
// @Param q query string false "Search text" example(bit)
// @Success 200 {object} dto.CoinsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/coins/search [get]
func (h *CoinHandler) SearchCoins(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	coins, err := h.sync.SearchOnce(r.Context(), query)
	if err != nil {
		logging.ErrorWithError(r.Context(), "Search failed", err, nil)
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "failed to read cached coins")
		return
	}

	writeJSONResponse(w, http.StatusOK, dto.NewCoinsResponse(query, coins))
}

// ListFavorites godoc
// @Summary Favorite coins
// @Tags favorites
// @Produce json
// @Success 200 {object} dto.CoinsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/coins/favorites [get]
func (h *CoinHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	coins, err := h.sync.FavoritesOnce(r.Context())
	if err != nil {
		logging.ErrorWithError(r.Context(), "Favorites read failed", err, nil)
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "failed to read favorites")
		return
	}

	writeJSONResponse(w, http.StatusOK, dto.NewCoinsResponse("", coins))
}

// ToggleFavorite godoc
// @Summary Toggle favorite
// @Description Flips the favorite flag of a coin and returns the new state
// @Tags favorites
// @Produce json
// @Param id path string true "CoinGecko coin id" example(bitcoin)
// @Success 200 {object} dto.FavoriteToggleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/coins/{id}/favorite [post]
func (h *CoinHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	coinID := strings.TrimSpace(mux.Vars(r)["id"])

	favorite, err := h.sync.ToggleFavorite(r.Context(), coinID)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidCoinID) {
			writeError(w, http.StatusBadRequest, "MISSING_COIN_ID", err.Error())
			return
		}
		logging.ErrorWithError(r.Context(), "Favorite toggle failed", err, logging.Fields{logging.FieldCoinID: coinID})
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "failed to update favorite")
		return
	}

	writeJSONResponse(w, http.StatusOK, dto.FavoriteToggleResponse{CoinID: coinID, IsFavorite: favorite})
}

// ClearCache godoc
// @Summary Clear local cache
// @Description Removes every cached coin, detail, chart and favorite
// @Tags cache
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/cache [delete]
func (h *CoinHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.sync.ClearCache(r.Context()); err != nil {
		logging.ErrorWithError(r.Context(), "Cache clear failed", err, nil)
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "failed to clear cache")
		return
	}

	writeJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "cache cleared"})
}
