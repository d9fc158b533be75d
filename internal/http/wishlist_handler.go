package http

import (
	"net/http"

	"github.com/fjod/clothify/internal/catalog"
	"github.com/fjod/clothify/internal/domain"
	"github.com/fjod/clothify/internal/events"
	"github.com/fjod/clothify/internal/session"
	"github.com/go-chi/chi/v5"
)

type WishlistHandler struct {
	*handler
}

func newWishlistHandler(h *handler) *WishlistHandler {
	return &WishlistHandler{handler: h}
}

type AddWishlistRequestDTO struct {
	ProductID string `json:"product_id"`
}

type WishlistResponse struct {
	Items   []domain.WishlistEntry `json:"items"`
	Count   int                    `json:"count"`
	Added   *bool                  `json:"added,omitempty"`
	Saved   *bool                  `json:"saved,omitempty"`
	Notices []events.Notice        `json:"notices,omitempty"`
}

// GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.open(r)
	resp, err := wishlistResponse(r, sess, nil)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// POST /api/v1/wishlist
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddWishlistRequestDTO
	if !decodeJSON(w, r, h.maxBodyBytes, &req) {
		return
	}

	product, err := catalog.Find(r.Context(), h.catalog, req.ProductID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	sess, buf := h.open(r)
	added, err := sess.Wishlist.Add(r.Context(), product)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp, err := wishlistResponse(r, sess, buf)
	if err != nil {
		handleError(w, r, err)
		return
	}
	resp.Added = &added
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	respondJSON(w, status, resp)
}

// POST /api/v1/wishlist/{product_id}/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	product, err := catalog.Find(r.Context(), h.catalog, chi.URLParam(r, "product_id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	sess, buf := h.open(r)
	saved, err := sess.Wishlist.Toggle(r.Context(), product)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp, err := wishlistResponse(r, sess, buf)
	if err != nil {
		handleError(w, r, err)
		return
	}
	resp.Saved = &saved
	respondJSON(w, http.StatusOK, resp)
}

// DELETE /api/v1/wishlist/{product_id}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, buf := h.open(r)
	if err := sess.Wishlist.Remove(r.Context(), chi.URLParam(r, "product_id")); err != nil {
		handleError(w, r, err)
		return
	}

	resp, err := wishlistResponse(r, sess, buf)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func wishlistResponse(r *http.Request, sess *session.Session, buf *events.Buffer) (*WishlistResponse, error) {
	items, err := sess.Wishlist.Items(r.Context())
	if err != nil {
		return nil, err
	}
	resp := &WishlistResponse{Items: items, Count: len(items)}
	if buf != nil {
		resp.Notices = buf.Notices()
	}
	return resp, nil
}
