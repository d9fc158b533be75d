package http

import (
	"net/http"

	"github.com/fjod/clothify/internal/catalog"
	"github.com/fjod/clothify/internal/domain"
	"github.com/fjod/clothify/internal/query"
	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"
)

type ProductHandler struct {
	*handler
}

func newProductHandler(h *handler) *ProductHandler {
	return &ProductHandler{handler: h}
}

type ProductsResponse struct {
	Products    []domain.Product `json:"products"`
	Categories  []string         `json:"categories"`
	WishlistIDs []string         `json:"wishlist_ids"`
}

type ProductResponse struct {
	domain.Product
	InWishlist bool `json:"in_wishlist"`
}

// GET /api/v1/products?q=&category=&price=&sort=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	sort, err := query.ParseSortOrder(params.Get("sort"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	products, err := h.catalog.Products(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	list, err := query.Apply(products, query.Filters{
		Query:      params.Get("q"),
		Category:   params.Get("category"),
		PriceRange: params.Get("price"),
		Sort:       sort,
		Locale:     requestLocale(r),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	sess, _ := h.open(r)
	saved, err := sess.Wishlist.Items(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	ids := make([]string, len(saved))
	for i, e := range saved {
		ids[i] = e.ID
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{
		Products:    list,
		Categories:  query.Categories(products),
		WishlistIDs: ids,
	})
}

// GET /api/v1/products/{product_id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := catalog.Find(r.Context(), h.catalog, chi.URLParam(r, "product_id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	sess, _ := h.open(r)
	saved, err := sess.Wishlist.Has(r.Context(), product.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, &ProductResponse{Product: product, InWishlist: saved})
}

// requestLocale picks the preferred Accept-Language tag; English otherwise.
func requestLocale(r *http.Request) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return language.English
	}
	return tags[0]
}
