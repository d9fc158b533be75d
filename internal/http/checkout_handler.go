package http

import (
	"errors"
	"net/http"

	"github.com/fjod/clothify/internal/checkout"
	"github.com/go-chi/chi/v5"
)

type CheckoutHandler struct {
	*handler
}

func newCheckoutHandler(h *handler) *CheckoutHandler {
	return &CheckoutHandler{handler: h}
}

// GET /api/v1/checkout
func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.open(r)
	summary, err := sess.Checkout.Summary(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// POST /api/v1/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var form checkout.Form
	if !decodeJSON(w, r, h.maxBodyBytes, &form) {
		return
	}

	sess, buf := h.open(r)
	order, err := sess.Checkout.Checkout(r.Context(), &form)
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   verr.Message,
			Code:    "validation_failed",
			Field:   verr.Field,
			Notices: buf.Notices(),
		})
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/orders/"+order.ID)
	respondJSON(w, http.StatusCreated, order)
}

type OrdersHandler struct {
	*handler
}

func newOrdersHandler(h *handler) *OrdersHandler {
	return &OrdersHandler{handler: h}
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.open(r)
	orders, err := sess.Checkout.Orders(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	sess, _ := h.open(r)
	order, err := sess.Checkout.Order(r.Context(), orderID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
