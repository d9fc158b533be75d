package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/clothify/internal/catalog"
	"github.com/fjod/clothify/internal/checkout"
	"github.com/fjod/clothify/internal/events"
	"github.com/fjod/clothify/internal/query"
	"github.com/fjod/clothify/pkg/logger"
)

type ErrorResponse struct {
	Error   string          `json:"error"`
	Code    string          `json:"code,omitempty"`
	Field   string          `json:"field,omitempty"`
	Notices []events.Notice `json:"notices,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.L().WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleError maps domain errors onto HTTP statuses.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: verr.Message,
			Code:  "validation_failed",
			Field: verr.Field,
		})
	case errors.Is(err, catalog.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", "product catalog is unavailable, try again later")
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, checkout.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "your cart is empty")
	case errors.Is(err, query.ErrInvalidPriceRange), errors.Is(err, query.ErrInvalidSort):
		respondError(w, http.StatusBadRequest, "invalid_filter", err.Error())
	case errors.Is(err, context.Canceled):
		respondError(w, http.StatusRequestTimeout, "request_cancelled", "request cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	default:
		logger.FromContext(r.Context()).WithError(err).Error("request failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v interface{}) bool {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}
