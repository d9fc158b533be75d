package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fjod/clothify/internal/catalog"
	"github.com/fjod/clothify/internal/domain"
	"github.com/fjod/clothify/internal/events"
	"github.com/fjod/clothify/internal/session"
	"github.com/fjod/clothify/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCatalog = []domain.Product{
	{ID: "tee", Name: "Linen Tee", Price: 120, Category: "Tops", Description: "Breathable summer tee", Image: "tee.jpg", Sizes: []string{"S", "M"}},
	{ID: "socks", Name: "Wool Socks", Price: 30, Category: "Accessories", Description: "Warm", Image: "socks.jpg", Sizes: []string{"One"}},
	{ID: "coat", Name: "Trench Coat", Price: 450, Category: "Outerwear", Description: "Classic summer layer", Image: "coat.jpg", Sizes: []string{"M", "L"}},
}

type unavailableCatalog struct{}

func (unavailableCatalog) Products(context.Context) ([]domain.Product, error) {
	return nil, fmt.Errorf("%w: upstream returned 502", catalog.ErrUnavailable)
}

func newTestRouter(t *testing.T, src catalog.Source) http.Handler {
	t.Helper()
	if src == nil {
		src = catalog.NewStatic(testCatalog)
	}
	return NewRouter(session.NewFactory(store.NewMemoryStore(), nil), src, Options{RequestTimeout: 5 * time.Second})
}

func do(t *testing.T, h http.Handler, method, path, sessionID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSession_NewSessionSetsCookie(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(t, h, http.MethodGet, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	id := w.Header().Get(SessionHeader)
	assert.NotEmpty(t, id)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSession_CookieIsReused(t *testing.T) {
	h := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "from-cookie", w.Header().Get(SessionHeader))
	assert.Empty(t, w.Result().Cookies())
}

func TestSession_InvalidHeaderStartsNewSession(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(t, h, http.MethodGet, "/api/v1/cart", "bad id:with*chars", nil)
	assert.NotEqual(t, "bad id:with*chars", w.Header().Get(SessionHeader))
	assert.Len(t, w.Result().Cookies(), 1)
}

func TestProducts_ListWithFilters(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(t, h, http.MethodGet, "/api/v1/products?q=SUMMER&price=0-200", "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[ProductsResponse](t, w)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "tee", resp.Products[0].ID)
	assert.Equal(t, []string{"Tops", "Accessories", "Outerwear"}, resp.Categories)
	assert.Empty(t, resp.WishlistIDs)
}

func TestProducts_SortByPriceDesc(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(t, h, http.MethodGet, "/api/v1/products?sort=price-desc", "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[ProductsResponse](t, w)
	require.Len(t, resp.Products, 3)
	assert.Equal(t, "coat", resp.Products[0].ID)
	assert.Equal(t, "socks", resp.Products[2].ID)
}

func TestProducts_BadFilters(t *testing.T) {
	h := newTestRouter(t, nil)

	for _, path := range []string{
		"/api/v1/products?sort=cheapest",
		"/api/v1/products?price=abc",
	} {
		w := do(t, h, http.MethodGet, path, "s1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "invalid_filter", decode[ErrorResponse](t, w).Code)
	}
}

func TestProducts_CatalogUnavailable(t *testing.T) {
	h := newTestRouter(t, unavailableCatalog{})

	w := do(t, h, http.MethodGet, "/api/v1/products", "s1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "catalog_unavailable", decode[ErrorResponse](t, w).Code)
}

func TestProducts_Detail(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(t, h, http.MethodPost, "/api/v1/wishlist", "s1", AddWishlistRequestDTO{ProductID: "coat"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/products/coat", "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[ProductResponse](t, w)
	assert.Equal(t, "Trench Coat", resp.Name)
	assert.True(t, resp.InWishlist)

	w = do(t, h, http.MethodGet, "/api/v1/products/missing", "s1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCart_AddUpdateRemove(t *testing.T) {
	h := newTestRouter(t, nil)

	qty := 2.0
	w := do(t, h, http.MethodPost, "/api/v1/cart/items", "s1", AddItemRequestDTO{ProductID: "tee", Size: "M", Quantity: &qty})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[CartResponse](t, w)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 240.0, resp.Subtotal)
	assert.Equal(t, "QAR", resp.Currency)
	require.Len(t, resp.Notices, 1)
	assert.Equal(t, "Linen Tee x2 added to cart!", resp.Notices[0].Message)

	w = do(t, h, http.MethodPatch, "/api/v1/cart/items/tee/M", "s1", UpdateQuantityRequestDTO{Delta: -5})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[CartResponse](t, w)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.Items[0].Qty)

	w = do(t, h, http.MethodDelete, "/api/v1/cart/items/tee/M", "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[CartResponse](t, w)
	assert.Empty(t, resp.Items)
	assert.Equal(t, "Item removed from cart", resp.Notices[0].Message)

	// another session never saw any of it
	w = do(t, h, http.MethodGet, "/api/v1/cart", "s2", nil)
	assert.Zero(t, decode[CartResponse](t, w).Count)
}

func TestCart_AddValidation(t *testing.T) {
	h := newTestRouter(t, nil)
	zero, tooMany := 0.0, 100.0

	tests := []struct {
		name   string
		body   AddItemRequestDTO
		status int
		field  string
	}{
		{"missing product", AddItemRequestDTO{Size: "M"}, http.StatusUnprocessableEntity, "product_id"},
		{"size not offered", AddItemRequestDTO{ProductID: "tee", Size: "XXL"}, http.StatusUnprocessableEntity, "size"},
		{"zero quantity", AddItemRequestDTO{ProductID: "tee", Size: "M", Quantity: &zero}, http.StatusUnprocessableEntity, "quantity"},
		{"quantity above 99", AddItemRequestDTO{ProductID: "tee", Size: "M", Quantity: &tooMany}, http.StatusUnprocessableEntity, "quantity"},
		{"unknown product", AddItemRequestDTO{ProductID: "nope", Size: "M"}, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/v1/cart/items", "s1", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.field, decode[ErrorResponse](t, w).Field)
		})
	}

	w := do(t, h, http.MethodGet, "/api/v1/cart", "s1", nil)
	assert.Empty(t, decode[CartResponse](t, w).Items)
}

func TestCart_UpdateRejectsOutOfRangeDelta(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(t, h, http.MethodPost, "/api/v1/cart/items", "s1", AddItemRequestDTO{ProductID: "tee", Size: "M"})
	require.Equal(t, http.StatusCreated, w.Code)

	for _, delta := range []int{100, -100, math.MaxInt64} {
		w = do(t, h, http.MethodPatch, "/api/v1/cart/items/tee/M", "s1", UpdateQuantityRequestDTO{Delta: delta})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "delta", decode[ErrorResponse](t, w).Field)
	}

	w = do(t, h, http.MethodPatch, "/api/v1/cart/items/tee/M", "s1", UpdateQuantityRequestDTO{Delta: 99})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, decode[CartResponse](t, w).Count)
}

func TestCart_InvalidJSON(t *testing.T) {
	h := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode[ErrorResponse](t, w).Code)
}

func TestWishlist_ToggleAndRemove(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(t, h, http.MethodPost, "/api/v1/wishlist/tee/toggle", "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[WishlistResponse](t, w)
	require.NotNil(t, resp.Saved)
	assert.True(t, *resp.Saved)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Linen Tee added to wishlist!", resp.Notices[0].Message)

	w = do(t, h, http.MethodPost, "/api/v1/wishlist", "s1", AddWishlistRequestDTO{ProductID: "tee"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[WishlistResponse](t, w)
	assert.False(t, *resp.Added)
	assert.Empty(t, resp.Notices)

	w = do(t, h, http.MethodDelete, "/api/v1/wishlist/tee", "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[WishlistResponse](t, w)
	assert.Zero(t, resp.Count)
	assert.Equal(t, "Item removed from wishlist", resp.Notices[0].Message)
}

func checkoutForm() map[string]interface{} {
	return map[string]interface{}{
		"fullName":   "Layla Hassan",
		"email":      "layla@example.qa",
		"address":    "12 Corniche St",
		"city":       "Doha",
		"country":    "Qatar",
		"zip":        "00000",
		"cardName":   "L HASSAN",
		"cardNumber": "4242 4242 4242 4242",
		"expiry":     "08/29",
		"cvc":        "123",
		"agree":      true,
	}
}

func TestCheckout_Flow(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(t, h, http.MethodPost, "/api/v1/checkout", "s1", checkoutForm())
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodPost, "/api/v1/cart/items", "s1", AddItemRequestDTO{ProductID: "tee", Size: "S"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(t, h, http.MethodPost, "/api/v1/cart/items", "s1", AddItemRequestDTO{ProductID: "socks", Size: "One"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/checkout", "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[map[string]interface{}](t, w)
	assert.Equal(t, false, summary["empty"])
	assert.Equal(t, 150.0, summary["total"])

	form := checkoutForm()
	form["email"] = "not-an-email"
	w = do(t, h, http.MethodPost, "/api/v1/checkout", "s1", form)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errResp := decode[ErrorResponse](t, w)
	assert.Equal(t, "validation_failed", errResp.Code)
	assert.Equal(t, "email", errResp.Field)
	assert.Equal(t, "Valid email is required", errResp.Error)
	require.Len(t, errResp.Notices, 1)
	assert.Equal(t, events.LevelError, errResp.Notices[0].Level)
	assert.Equal(t, "Valid email is required", errResp.Notices[0].Message)

	w = do(t, h, http.MethodPost, "/api/v1/checkout", "s1", checkoutForm())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[domain.Order](t, w)
	assert.Equal(t, 150.0, order.Total)
	assert.Equal(t, domain.OrderStatusPaidDemo, order.Status)
	assert.Equal(t, "/api/v1/orders/"+order.ID, w.Header().Get("Location"))

	w = do(t, h, http.MethodGet, "/api/v1/cart", "s1", nil)
	assert.Empty(t, decode[CartResponse](t, w).Items)

	w = do(t, h, http.MethodGet, "/api/v1/orders/"+order.ID, "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, order.ID, decode[domain.Order](t, w).ID)

	w = do(t, h, http.MethodGet, "/api/v1/orders", "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Order](t, w), 1)

	// orders are per session
	w = do(t, h, http.MethodGet, "/api/v1/orders/"+order.ID, "s2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContact_Submit(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(t, h, http.MethodPost, "/api/v1/contact", "s1", ContactRequestDTO{
		Name:    "Layla",
		Email:   "layla@example.qa",
		Subject: "Sizing",
		Message: "Do the tees run small?",
	})
	require.Equal(t, http.StatusAccepted, w.Code)
	resp := decode[ContactResponse](t, w)
	assert.Equal(t, []events.Notice{{Level: events.LevelSuccess, Message: "Message sent successfully!"}}, resp.Notices)

	w = do(t, h, http.MethodPost, "/api/v1/contact", "s1", ContactRequestDTO{Name: "Layla"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "message", decode[ErrorResponse](t, w).Field)
}
