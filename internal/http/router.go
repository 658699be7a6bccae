package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jinitha01/ecom-demo/internal/session"
)

// NewRouter builds the storefront routing table. The two JSON mutation
// routes answer non-POST requests with a 400 JSON error rather than the
// default 405.
func NewRouter(pages *PageHandler, carts *CartHandler, sessionTTL time.Duration, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(session.Middleware(sessionTTL))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", pages.ProductList)
	r.Get("/product/{id}/", pages.ProductDetail)
	r.Get("/cart/", pages.ViewCart)

	// The add route accepts GET links as well as form posts.
	r.Get("/add_to_cart/{id}/", carts.AddToCart)
	r.Post("/add_to_cart/{id}/", carts.AddToCart)

	r.Route("/update_cart_quantity", func(r chi.Router) {
		r.MethodNotAllowed(invalidMethod)
		r.Post("/{id}/", carts.UpdateQuantity)
	})
	r.Route("/remove_from_cart", func(r chi.Router) {
		r.MethodNotAllowed(invalidMethod)
		r.Post("/{id}/", carts.RemoveFromCart)
	})

	return r
}
