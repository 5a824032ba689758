package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ShubhamSahu-2005/ezwoods-backend/api/middleware"
	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/cart"
	productsvc "github.com/ShubhamSahu-2005/ezwoods-backend/internal/products"
	pkgerrors "github.com/ShubhamSahu-2005/ezwoods-backend/pkg/errors"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/logger"
)

type stubProductService struct {
	products map[uuid.UUID]*productsvc.ProductDTO
}

func (s *stubProductService) ListProducts(_ context.Context, _ productsvc.ListFilter) (productsvc.ProductsPageDTO, error) {
	page := productsvc.ProductsPageDTO{Items: []productsvc.ProductDTO{}}
	for _, p := range s.products {
		page.Items = append(page.Items, *p)
	}
	return page, nil
}

func (s *stubProductService) GetProduct(_ context.Context, id uuid.UUID) (*productsvc.ProductDTO, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel})
}

func newCartRouter(carts *cart.Manager, products productsvc.Service) http.Handler {
	logg := testLogger()
	r := chi.NewRouter()
	r.Use(middleware.Session(logg))
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", CartFetch(carts, nil, logg))
		r.Delete("/", CartClear(carts, nil, logg))
		r.Post("/items", CartAddItem(carts, products, nil, logg))
		r.Patch("/items/{productId}", CartUpdateItem(carts, nil, logg))
		r.Delete("/items/{productId}", CartRemoveItem(carts, nil, logg))
	})
	return r
}

func testProduct(id uuid.UUID) *productsvc.ProductDTO {
	return &productsvc.ProductDTO{
		ID:      id,
		Name:    "Walnut Bookshelf",
		Price:   decimal.RequireFromString("899.00"),
		Images:  []string{"https://cdn.example.com/bookshelf.jpg"},
		Colors:  []string{"Walnut", "Oak"},
		InStock: true,
	}
}

func decodeCart(t *testing.T, body *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.Unmarshal(body.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode cart response: %v", err)
	}
	return envelope.Data
}

func TestCartAddUpdateRemoveFlow(t *testing.T) {
	productID := uuid.New()
	products := &stubProductService{products: map[uuid.UUID]*productsvc.ProductDTO{productID: testProduct(productID)}}
	router := newCartRouter(cart.NewManager(testLogger()), products)

	const session = "cart-flow-session"

	addBody := `{"product_id":"` + productID.String() + `","selected_color":"Walnut","quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(addBody))
	req.Header.Set("X-Session-Id", session)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200 got %d body=%s", rec.Code, rec.Body.String())
	}
	payload := decodeCart(t, rec)
	if len(payload.Items) != 1 || payload.Items[0].Quantity != 2 {
		t.Fatalf("add: unexpected cart %+v", payload)
	}
	if !payload.Items[0].LineTotal.Equal(decimal.RequireFromString("1798.00")) {
		t.Fatalf("add: unexpected line total %s", payload.Items[0].LineTotal)
	}

	// Same product and color merges into the existing line.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(addBody))
	req.Header.Set("X-Session-Id", session)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	payload = decodeCart(t, rec)
	if len(payload.Items) != 1 || payload.Items[0].Quantity != 4 {
		t.Fatalf("merge: unexpected cart %+v", payload)
	}

	patchBody := `{"selected_color":"Walnut","quantity":1}`
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/"+productID.String(), strings.NewReader(patchBody))
	req.Header.Set("X-Session-Id", session)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	payload = decodeCart(t, rec)
	if len(payload.Items) != 1 || payload.Items[0].Quantity != 1 {
		t.Fatalf("update: unexpected cart %+v", payload)
	}

	// Quantity zero removes the line.
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/"+productID.String(), strings.NewReader(`{"selected_color":"Walnut","quantity":0}`))
	req.Header.Set("X-Session-Id", session)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	payload = decodeCart(t, rec)
	if len(payload.Items) != 0 {
		t.Fatalf("remove via zero quantity: unexpected cart %+v", payload)
	}
}

func TestCartAddRejectsUnknownColor(t *testing.T) {
	productID := uuid.New()
	products := &stubProductService{products: map[uuid.UUID]*productsvc.ProductDTO{productID: testProduct(productID)}}
	router := newCartRouter(cart.NewManager(testLogger()), products)

	body := `{"product_id":"` + productID.String() + `","selected_color":"Neon","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("X-Session-Id", "color-session")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCartAddRejectsUnknownProduct(t *testing.T) {
	products := &stubProductService{products: map[uuid.UUID]*productsvc.ProductDTO{}}
	router := newCartRouter(cart.NewManager(testLogger()), products)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("X-Session-Id", "missing-session")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestCartsAreSessionScoped(t *testing.T) {
	productID := uuid.New()
	products := &stubProductService{products: map[uuid.UUID]*productsvc.ProductDTO{productID: testProduct(productID)}}
	router := newCartRouter(cart.NewManager(testLogger()), products)

	body := `{"product_id":"` + productID.String() + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("X-Session-Id", "session-a")
	router.ServeHTTP(httptest.NewRecorder(), req)

	fetch := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	fetch.Header.Set("X-Session-Id", "session-b")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, fetch)

	payload := decodeCart(t, rec)
	if len(payload.Items) != 0 {
		t.Fatalf("expected session-b cart to be empty, got %+v", payload.Items)
	}
}
