package http

import (
	"net/http"
	"time"

	"github.com/fjod/clothify/internal/catalog"
	"github.com/fjod/clothify/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Options struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	SecureCookies      bool
}

// NewRouter wires the storefront API. The returned handler is instrumented with
// OpenTelemetry so request logs carry trace ids.
func NewRouter(sessions *session.Factory, products catalog.Source, opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.MaxRequestBodySize <= 0 {
		opts.MaxRequestBodySize = 1 << 20
	}

	base := &handler{
		sessions:     sessions,
		catalog:      products,
		maxBodyBytes: opts.MaxRequestBodySize,
	}
	productHandler := newProductHandler(base)
	cartHandler := newCartHandler(base)
	wishlistHandler := newWishlistHandler(base)
	checkoutHandler := newCheckoutHandler(base)
	ordersHandler := newOrdersHandler(base)
	contactHandler := newContactHandler(base)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SessionMiddleware(opts.SecureCookies))
		r.Use(LogFieldsMiddleware)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/{product_id}", productHandler.Get)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Patch("/items/{product_id}/{size}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}/{size}", cartHandler.RemoveItem)
		})
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.GetWishlist)
			r.Post("/", wishlistHandler.AddItem)
			r.Post("/{product_id}/toggle", wishlistHandler.Toggle)
			r.Delete("/{product_id}", wishlistHandler.RemoveItem)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutHandler.Summary)
			r.Post("/", checkoutHandler.PlaceOrder)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.ListOrders)
			r.Get("/{order_id}", ordersHandler.GetOrder)
		})
		r.Post("/contact", contactHandler.Submit)
	})

	return otelhttp.NewHandler(r, "storefront")
}
