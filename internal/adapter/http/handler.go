package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"favorite-rates-service/internal/domain/model"
	"favorite-rates-service/internal/domain/ports"
	"favorite-rates-service/internal/service"
	"favorite-rates-service/pkg/logger"
)

const (
	defaultSparklineWidth  = 120.0
	defaultSparklineHeight = 40.0
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type Handler struct {
	rates     ports.RateService
	favorites ports.FavoritesService
	log       *logger.Logger
}

func NewHandler(rates ports.RateService, favorites ports.FavoritesService, log *logger.Logger) *Handler {
	return &Handler{
		rates:     rates,
		favorites: favorites,
		log:       log,
	}
}

func (h *Handler) ListFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.favorites.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.sendSuccessResponse(w, http.StatusOK, pairs)
}

func (h *Handler) AddFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("pair")
	if raw == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameter: pair")
		return
	}

	pair, err := h.favorites.Add(r.Context(), raw)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.sendSuccessResponse(w, http.StatusCreated, pair)
}

func (h *Handler) RemoveFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("pair")
	if raw == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameter: pair")
		return
	}

	pair, err := h.favorites.Remove(r.Context(), raw)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.sendSuccessResponse(w, http.StatusOK, pair)
}

func (h *Handler) RefreshFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	results, err := h.rates.RefreshFavorites(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.sendSuccessResponse(w, http.StatusOK, results)
}

// RefreshHandler refreshes an ad-hoc comma separated list of pairs.
// Malformed entries are dropped rather than failing the request.
func (h *Handler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("pairs")
	if raw == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameter: pairs")
		return
	}

	pairs, dropped := model.ParsePairs(strings.Split(raw, ","))
	if len(dropped) > 0 {
		h.log.Warn("Dropping malformed pairs", "pairs", dropped, "request_id", requestIDFrom(r.Context()))
	}

	results, err := h.rates.Refresh(r.Context(), pairs)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.sendSuccessResponse(w, http.StatusOK, results)
}

func (h *Handler) QuoteHandler(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	if from == "" || to == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameters: from and to")
		return
	}

	quote, err := h.rates.Quote(r.Context(), from, to)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.sendSuccessResponse(w, http.StatusOK, quote)
}

func (h *Handler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("pair")
	if raw == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameter: pair")
		return
	}

	view, err := h.rates.History(r.Context(), raw)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.sendSuccessResponse(w, http.StatusOK, view)
}

func (h *Handler) SparklineHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("pair")
	if raw == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameter: pair")
		return
	}

	width, err := parseDimension(r.URL.Query().Get("width"), defaultSparklineWidth)
	if err != nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid width parameter")
		return
	}
	height, err := parseDimension(r.URL.Query().Get("height"), defaultSparklineHeight)
	if err != nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid height parameter")
		return
	}

	sparkline, err := h.rates.Sparkline(r.Context(), raw, width, height)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.sendSuccessResponse(w, http.StatusOK, sparkline)
}

func parseDimension(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func (h *Handler) sendSuccessResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success: true,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) sendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := Response{
		Success: false,
		Error:   message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode error response", "error", err)
	}
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := http.StatusInternalServerError
	errorMessage := "internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidCurrency):
		statusCode = http.StatusBadRequest
		errorMessage = "invalid currency"
	case errors.Is(err, service.ErrInvalidPair):
		statusCode = http.StatusBadRequest
		errorMessage = "invalid currency pair, expected BASE->TARGET"
	case errors.Is(err, service.ErrInvalidDimensions):
		statusCode = http.StatusBadRequest
		errorMessage = "invalid sparkline dimensions"
	case errors.Is(err, service.ErrRateNotFound):
		statusCode = http.StatusNotFound
		errorMessage = "exchange rate not found"
	case errors.Is(err, service.ErrExternalAPIFailure):
		statusCode = http.StatusServiceUnavailable
		errorMessage = "external API failure"
	case errors.Is(err, context.DeadlineExceeded):
		statusCode = http.StatusGatewayTimeout
		errorMessage = "request timed out"
	}

	h.log.Error("Service error", "error", err, "status_code", statusCode, "request_id", requestIDFrom(r.Context()))
	h.sendErrorResponse(w, statusCode, errorMessage)
}
