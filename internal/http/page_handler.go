package http

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/jinitha01/ecom-demo/internal/cart"
	"github.com/jinitha01/ecom-demo/internal/catalog"
	"github.com/jinitha01/ecom-demo/internal/domain"
	"github.com/jinitha01/ecom-demo/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// PageHandler serves the rendered storefront pages. The cart engine and the
// catalog only supply the data; templates do the display.
type PageHandler struct {
	repo    catalog.Repository
	engine  *cart.Service
	timeout time.Duration
}

func NewPageHandler(repo catalog.Repository, engine *cart.Service, timeout time.Duration) *PageHandler {
	return &PageHandler{
		repo:    repo,
		engine:  engine,
		timeout: timeout,
	}
}

func (h *PageHandler) ProductList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.repo.GetAllProducts(ctx)
	if err != nil {
		log.Printf("failed to load products: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	renderPage(w, "product_list.html", struct {
		Products []*domain.Product
	}{Products: products})
}

func (h *PageHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := parseProductID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	product, err := h.repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("failed to load product %d: %v", productID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	renderPage(w, "product_detail.html", struct {
		Product *domain.Product
	}{Product: product})
}

func (h *PageHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := h.engine.View(ctx, session.FromContext(r.Context()))
	if err != nil {
		log.Printf("failed to load cart: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	renderPage(w, "cart.html", view)
}

func renderPage(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("failed to render %s: %v", name, err)
	}
}
