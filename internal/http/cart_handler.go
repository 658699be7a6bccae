package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jinitha01/ecom-demo/internal/cart"
	"github.com/jinitha01/ecom-demo/internal/catalog"
	"github.com/jinitha01/ecom-demo/internal/session"
)

type CartHandler struct {
	engine  *cart.Service
	timeout time.Duration
}

func NewCartHandler(engine *cart.Service, timeout time.Duration) *CartHandler {
	return &CartHandler{
		engine:  engine,
		timeout: timeout,
	}
}

// AddToCart adds one unit of the product to the visitor's cart. Browsers get
// a redirect to the cart page; AJAX callers (X-Requested-With) get JSON.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	isAJAX := r.Header.Get("X-Requested-With") == "XMLHttpRequest"

	productID, err := parseProductID(r)
	if err != nil {
		notFound(w, r, isAJAX, "Product not found")
		return
	}

	name, err := h.engine.Add(ctx, session.FromContext(r.Context()), productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			notFound(w, r, isAJAX, "Product not found")
			return
		}
		log.Printf("add to cart failed: %v", err)
		internalError(w, isAJAX)
		return
	}

	if isAJAX {
		respondJSON(w, http.StatusOK, StatusResponse{
			Status:  "success",
			Message: fmt.Sprintf("%s added to cart!", name),
		})
		return
	}
	http.Redirect(w, r, "/cart/", http.StatusFound)
}

// UpdateQuantity handles the increase/decrease form action for one line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := parseProductID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "Product not in cart")
		return
	}

	sessionID := session.FromContext(r.Context())

	var result *cart.UpdateResult
	switch r.PostFormValue("action") {
	case "increase":
		result, err = h.engine.Increase(ctx, sessionID, productID)
	case "decrease":
		result, err = h.engine.Decrease(ctx, sessionID, productID)
	default:
		respondError(w, http.StatusBadRequest, "Invalid action")
		return
	}

	if err != nil {
		if errors.Is(err, cart.ErrNotInCart) {
			respondError(w, http.StatusNotFound, "Product not in cart")
			return
		}
		log.Printf("update cart quantity failed: %v", err)
		internalError(w, true)
		return
	}

	respondJSON(w, http.StatusOK, UpdateQuantityResponse{
		Status:      "success",
		NewQuantity: result.NewQuantity,
		NewSubtotal: result.NewSubtotal,
		TotalPrice:  result.TotalPrice,
	})
}

// RemoveFromCart deletes a line regardless of its quantity.
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := parseProductID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "Product not in cart")
		return
	}

	total, err := h.engine.Remove(ctx, session.FromContext(r.Context()), productID)
	if err != nil {
		if errors.Is(err, cart.ErrNotInCart) {
			respondError(w, http.StatusNotFound, "Product not in cart")
			return
		}
		log.Printf("remove from cart failed: %v", err)
		internalError(w, true)
		return
	}

	respondJSON(w, http.StatusOK, RemoveItemResponse{
		Status:     "success",
		TotalPrice: total,
	})
}

// invalidMethod is the MethodNotAllowed handler for the JSON cart routes.
func invalidMethod(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusBadRequest, "Invalid request method")
}

func parseProductID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id")
	}
	return id, nil
}

func notFound(w http.ResponseWriter, r *http.Request, isAJAX bool, message string) {
	if isAJAX {
		respondError(w, http.StatusNotFound, message)
		return
	}
	http.NotFound(w, r)
}

func internalError(w http.ResponseWriter, isAJAX bool) {
	if isAJAX {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
