package http

import (
	"net/http"

	"github.com/fjod/clothify/internal/catalog"
	"github.com/fjod/clothify/internal/checkout"
	"github.com/fjod/clothify/internal/domain"
	"github.com/fjod/clothify/internal/events"
	"github.com/fjod/clothify/internal/session"
	"github.com/go-chi/chi/v5"
)

const maxLineQuantity = 99

type CartHandler struct {
	*handler
}

func newCartHandler(h *handler) *CartHandler {
	return &CartHandler{handler: h}
}

type AddItemRequestDTO struct {
	ProductID string   `json:"product_id"`
	Size      string   `json:"size"`
	Quantity  *float64 `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Delta int `json:"delta"`
}

type CartResponse struct {
	Items    []domain.CartLine `json:"items"`
	Count    int               `json:"count"`
	Subtotal float64           `json:"subtotal"`
	Total    float64           `json:"total"`
	Currency string            `json:"currency"`
	Notices  []events.Notice   `json:"notices,omitempty"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.open(r)
	h.respondCart(w, r, sess, http.StatusOK, nil)
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if !decodeJSON(w, r, h.maxBodyBytes, &req) {
		return
	}

	if req.ProductID == "" {
		handleError(w, r, &checkout.ValidationError{Field: "product_id", Message: "product_id is required"})
		return
	}
	qty := 1.0
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty < 1 || qty > maxLineQuantity {
		handleError(w, r, &checkout.ValidationError{Field: "quantity", Message: "quantity must be between 1 and 99"})
		return
	}

	product, err := catalog.Find(r.Context(), h.catalog, req.ProductID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if len(product.Sizes) > 0 && !product.HasSize(req.Size) {
		handleError(w, r, &checkout.ValidationError{Field: "size", Message: "Please select a size"})
		return
	}

	sess, buf := h.open(r)
	if _, err := sess.Cart.Add(r.Context(), product, req.Size, qty); err != nil {
		handleError(w, r, err)
		return
	}

	h.respondCart(w, r, sess, http.StatusCreated, buf)
}

// PATCH /api/v1/cart/items/{product_id}/{size}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, h.maxBodyBytes, &req) {
		return
	}
	if req.Delta < -maxLineQuantity || req.Delta > maxLineQuantity {
		handleError(w, r, &checkout.ValidationError{Field: "delta", Message: "delta must be between -99 and 99"})
		return
	}

	sess, buf := h.open(r)
	_, err := sess.Cart.Update(r.Context(), chi.URLParam(r, "product_id"), chi.URLParam(r, "size"), req.Delta)
	if err != nil {
		handleError(w, r, err)
		return
	}

	h.respondCart(w, r, sess, http.StatusOK, buf)
}

// DELETE /api/v1/cart/items/{product_id}/{size}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, buf := h.open(r)
	_, err := sess.Cart.Remove(r.Context(), chi.URLParam(r, "product_id"), chi.URLParam(r, "size"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	h.respondCart(w, r, sess, http.StatusOK, buf)
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess, buf := h.open(r)
	if err := sess.Cart.Clear(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}

	h.respondCart(w, r, sess, http.StatusOK, buf)
}

func (h *CartHandler) respondCart(w http.ResponseWriter, r *http.Request, sess *session.Session, status int, buf *events.Buffer) {
	summary, err := sess.Checkout.Summary(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := &CartResponse{
		Items:    summary.Items,
		Count:    summary.Count,
		Subtotal: summary.Subtotal,
		Total:    summary.Total,
		Currency: summary.Currency,
	}
	if buf != nil {
		resp.Notices = buf.Notices()
	}
	respondJSON(w, status, resp)
}
