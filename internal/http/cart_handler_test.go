package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinitha01/ecom-demo/internal/cart"
	"github.com/jinitha01/ecom-demo/internal/catalog"
	"github.com/jinitha01/ecom-demo/internal/domain"
	"github.com/jinitha01/ecom-demo/internal/session"
)

type mockCatalog struct {
	products map[int64]domain.Product
}

func (m *mockCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	p, exists := m.products[id]
	if !exists {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

func (m *mockCatalog) GetAllProducts(context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	for _, p := range m.products {
		p := p
		products = append(products, &p)
	}
	return products, nil
}

func (m *mockCatalog) Close() error { return nil }

const testSession = "test-session"

// newTestServer wires the full router over an in-memory session store and a
// canned catalog.
func newTestServer() http.Handler {
	cat := &mockCatalog{
		products: map[int64]domain.Product{
			1: {ID: 1, Name: "Product A", Price: decimal.RequireFromString("10.00"), Description: "First product"},
			2: {ID: 2, Name: "Product B", Price: decimal.RequireFromString("20.00"), Description: "Second product"},
		},
	}
	engine := cart.NewService(session.NewMemoryStore(), cat)
	pages := NewPageHandler(cat, engine, 5*time.Second)
	carts := NewCartHandler(engine, 5*time.Second)
	return NewRouter(pages, carts, time.Hour, 5*time.Second)
}

func doRequest(handler http.Handler, method, target string, form string, ajax bool) *httptest.ResponseRecorder {
	var request *http.Request
	if form != "" {
		request = httptest.NewRequest(method, target, strings.NewReader(form))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		request = httptest.NewRequest(method, target, nil)
	}
	if ajax {
		request.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	request.AddCookie(&http.Cookie{Name: "session_id", Value: testSession})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func newRequestWithSession(method, target, sessionID string) *http.Request {
	request := httptest.NewRequest(method, target, nil)
	request.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})
	return request
}

func serve(handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeJSON(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	return body
}

func TestAddToCart_RedirectsToCart(t *testing.T) {
	handler := newTestServer()

	recorder := doRequest(handler, "POST", "/add_to_cart/1/", "", false)

	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/cart/", recorder.Header().Get("Location"))
}

func TestAddToCart_AJAXReturnsJSON(t *testing.T) {
	handler := newTestServer()

	recorder := doRequest(handler, "POST", "/add_to_cart/1/", "", true)

	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeJSON(t, recorder)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Product A added to cart!", body["message"])
}

func TestAddToCart_GETAlsoAccepted(t *testing.T) {
	handler := newTestServer()

	recorder := doRequest(handler, "GET", "/add_to_cart/2/", "", false)
	assert.Equal(t, http.StatusFound, recorder.Code)
}

func TestAddToCart_UnknownProduct_404(t *testing.T) {
	handler := newTestServer()

	recorder := doRequest(handler, "POST", "/add_to_cart/999/", "", false)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAddToCart_UnknownProduct_AJAX404(t *testing.T) {
	handler := newTestServer()

	recorder := doRequest(handler, "POST", "/add_to_cart/999/", "", true)
	require.Equal(t, http.StatusNotFound, recorder.Code)
	body := decodeJSON(t, recorder)
	assert.Equal(t, "error", body["status"])
}

func TestUpdateQuantity_Increase(t *testing.T) {
	handler := newTestServer()

	doRequest(handler, "POST", "/add_to_cart/1/", "", false)
	recorder := doRequest(handler, "POST", "/update_cart_quantity/1/", "action=increase", true)

	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeJSON(t, recorder)
	assert.Equal(t, "success", body["status"])
	assert.EqualValues(t, 2, body["new_quantity"])
	assert.InDelta(t, 20.00, body["new_subtotal"], 0.001)
	assert.InDelta(t, 20.00, body["total_price"], 0.001)
}

func TestUpdateQuantity_DecreaseAtOne_DeletesLine(t *testing.T) {
	handler := newTestServer()

	doRequest(handler, "POST", "/add_to_cart/1/", "", false)
	doRequest(handler, "POST", "/add_to_cart/2/", "", false)
	recorder := doRequest(handler, "POST", "/update_cart_quantity/1/", "action=decrease", true)

	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeJSON(t, recorder)
	assert.Equal(t, "success", body["status"])
	assert.EqualValues(t, 0, body["new_quantity"])
	_, hasSubtotal := body["new_subtotal"]
	assert.False(t, hasSubtotal, "deleted line reports no subtotal")
	assert.InDelta(t, 20.00, body["total_price"], 0.001)
}

func TestUpdateQuantity_NotInCart_404(t *testing.T) {
	handler := newTestServer()

	recorder := doRequest(handler, "POST", "/update_cart_quantity/1/", "action=increase", true)

	require.Equal(t, http.StatusNotFound, recorder.Code)
	body := decodeJSON(t, recorder)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Product not in cart", body["message"])
}

func TestUpdateQuantity_InvalidAction_400(t *testing.T) {
	handler := newTestServer()

	doRequest(handler, "POST", "/add_to_cart/1/", "", false)
	recorder := doRequest(handler, "POST", "/update_cart_quantity/1/", "action=explode", true)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeJSON(t, recorder)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Invalid action", body["message"])
}

func TestUpdateQuantity_GET_400(t *testing.T) {
	handler := newTestServer()

	recorder := doRequest(handler, "GET", "/update_cart_quantity/1/", "", false)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeJSON(t, recorder)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Invalid request method", body["message"])
}

func TestRemoveFromCart_Success(t *testing.T) {
	handler := newTestServer()

	doRequest(handler, "POST", "/add_to_cart/1/", "", false)
	doRequest(handler, "POST", "/add_to_cart/2/", "", false)
	recorder := doRequest(handler, "POST", "/remove_from_cart/1/", "", true)

	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeJSON(t, recorder)
	assert.Equal(t, "success", body["status"])
	assert.InDelta(t, 20.00, body["total_price"], 0.001)
}

func TestRemoveFromCart_NotInCart_404(t *testing.T) {
	handler := newTestServer()

	recorder := doRequest(handler, "POST", "/remove_from_cart/1/", "", true)

	require.Equal(t, http.StatusNotFound, recorder.Code)
	body := decodeJSON(t, recorder)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Product not in cart", body["message"])
}

func TestRemoveFromCart_GET_400(t *testing.T) {
	handler := newTestServer()

	recorder := doRequest(handler, "GET", "/remove_from_cart/1/", "", false)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHealth(t *testing.T) {
	handler := newTestServer()

	recorder := doRequest(handler, "GET", "/health", "", false)
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeJSON(t, recorder)
	assert.Equal(t, "ok", body["status"])
}
