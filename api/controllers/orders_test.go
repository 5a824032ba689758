package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/orders"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/enums"
	pkgerrors "github.com/ShubhamSahu-2005/ezwoods-backend/pkg/errors"
)

type stubOrderService struct {
	lastEmail string
	lastLimit int
	detail    *orders.OrderDetailDTO
	detailErr error
}

func (s *stubOrderService) CreateOrder(context.Context, orders.CreateOrderInput) (*orders.OrderDetailDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubOrderService) GetOrder(_ context.Context, orderID string) (*orders.OrderDetailDTO, error) {
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	if s.detail != nil && s.detail.OrderID == orderID {
		return s.detail, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubOrderService) ListOrders(_ context.Context, customerEmail, _ string, limit int) (orders.OrdersPageDTO, error) {
	s.lastEmail = customerEmail
	s.lastLimit = limit
	return orders.OrdersPageDTO{Items: []orders.OrderSummaryDTO{{
		OrderID: "ORD-2608-A1B2",
		Status:  enums.OrderStatusPending,
		Total:   decimal.RequireFromString("1402.92"),
	}}}, nil
}

func (s *stubOrderService) AppendTimelineEvent(context.Context, string, enums.OrderStatus, string) (*orders.OrderDetailDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func newOrdersRouter(svc *stubOrderService) http.Handler {
	logg := testLogger()
	r := chi.NewRouter()
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Get("/", OrderList(svc, logg))
		r.Get("/{orderId}", OrderDetail(svc, logg))
	})
	return r
}

func TestOrderListRequiresEmail(t *testing.T) {
	router := newOrdersRouter(&stubOrderService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestOrderListPassesQueryThrough(t *testing.T) {
	svc := &stubOrderService{}
	router := newOrdersRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders?email=asha%40example.com&limit=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rec.Code, rec.Body.String())
	}
	if svc.lastEmail != "asha@example.com" {
		t.Fatalf("unexpected email %q", svc.lastEmail)
	}
	if svc.lastLimit != 5 {
		t.Fatalf("unexpected limit %d", svc.lastLimit)
	}

	var envelope struct {
		Data orders.OrdersPageDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(envelope.Data.Items) != 1 || envelope.Data.Items[0].OrderID != "ORD-2608-A1B2" {
		t.Fatalf("unexpected page %+v", envelope.Data)
	}
}

func TestOrderListRejectsOversizedLimit(t *testing.T) {
	router := newOrdersRouter(&stubOrderService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders?email=asha%40example.com&limit=500", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestOrderDetailReturnsOrder(t *testing.T) {
	svc := &stubOrderService{detail: &orders.OrderDetailDTO{
		OrderID: "ORD-2608-C3D4",
		Status:  enums.OrderStatusProcessing,
		Total:   decimal.RequireFromString("378"),
	}}
	router := newOrdersRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/ORD-2608-C3D4", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data orders.OrderDetailDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if envelope.Data.Status != enums.OrderStatusProcessing {
		t.Fatalf("unexpected status %s", envelope.Data.Status)
	}
}

func TestOrderDetailNotFound(t *testing.T) {
	router := newOrdersRouter(&stubOrderService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/ORD-0000-ZZZZ", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
