package orders

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/db"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/db/models"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/enums"
	pkgerrors "github.com/ShubhamSahu-2005/ezwoods-backend/pkg/errors"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/logger"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/types"
)

// orderIDMaxAttempts bounds collision retries on the public order ID.
const orderIDMaxAttempts = 5

const createdTimelineMessage = "Order Created"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// OrderItemInput is one purchased line entering order creation.
type OrderItemInput struct {
	ProductID     uuid.UUID
	Name          string
	Image         *string
	SelectedColor *string
	UnitPrice     decimal.Decimal
	Quantity      int
}

// CreateOrderInput captures everything needed to persist a paid checkout.
type CreateOrderInput struct {
	SessionID         string
	Shipping          types.ShippingDetails
	Items             []OrderItemInput
	PaymentMethod     enums.PaymentMethod
	PaymentPlan       enums.PaymentPlan
	Subtotal          decimal.Decimal
	ShippingFee       decimal.Decimal
	Tax               decimal.Decimal
	Total             decimal.Decimal
	AmountPaid        decimal.Decimal
	BalanceDue        decimal.Decimal
	RazorpayOrderID   *string
	RazorpayPaymentID *string
}

// Service exposes order creation and history.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDetailDTO, error)
	GetOrder(ctx context.Context, orderID string) (*OrderDetailDTO, error)
	ListOrders(ctx context.Context, customerEmail, cursor string, limit int) (OrdersPageDTO, error)
	AppendTimelineEvent(ctx context.Context, orderID string, status enums.OrderStatus, message string) (*OrderDetailDTO, error)
}

type service struct {
	repo  *Repository
	tx    txRunner
	logg  *logger.Logger
	now   func() time.Time
	newID func(time.Time) (string, error)
}

// NewService builds an orders service with the required dependencies.
func NewService(repo *Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{repo: repo, tx: tx, logg: logg, now: time.Now, newID: NewOrderID}, nil
}

// CreateOrder persists the order, its lines, and the initial timeline event
// atomically. Public ID collisions retry in a fresh transaction, bounded.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDetailDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	paymentStatus := enums.PaymentStatusPaid
	if input.PaymentPlan == enums.PaymentPlanPartialCOD {
		paymentStatus = enums.PaymentStatusPending
	}

	now := s.now().UTC()
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, models.OrderItem{
			ID:            uuid.New(),
			ProductID:     item.ProductID,
			Name:          item.Name,
			Image:         item.Image,
			SelectedColor: item.SelectedColor,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
		})
	}

	var lastErr error
	for attempt := 0; attempt < orderIDMaxAttempts; attempt++ {
		orderID, err := s.newID(now)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order id")
		}

		rowID := uuid.New()
		order := &models.Order{
			ID:                rowID,
			OrderID:           orderID,
			SessionID:         input.SessionID,
			CustomerEmail:     strings.ToLower(strings.TrimSpace(input.Shipping.Email)),
			Shipping:          input.Shipping,
			Status:            enums.OrderStatusPending,
			PaymentMethod:     input.PaymentMethod,
			PaymentPlan:       input.PaymentPlan,
			PaymentStatus:     paymentStatus,
			Subtotal:          input.Subtotal,
			ShippingFee:       input.ShippingFee,
			Tax:               input.Tax,
			Total:             input.Total,
			AmountPaid:        input.AmountPaid,
			BalanceDue:        input.BalanceDue,
			RazorpayOrderID:   input.RazorpayOrderID,
			RazorpayPaymentID: input.RazorpayPaymentID,
			Items:             cloneItemsFor(rowID, items),
			Timeline: []models.OrderTimelineEvent{{
				ID:         uuid.New(),
				OrderRowID: rowID,
				Status:     enums.OrderStatusPending,
				Message:    createdTimelineMessage,
				OccurredAt: now,
			}},
			CreatedAt: now,
			UpdatedAt: now,
		}

		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return s.repo.CreateInTx(ctx, tx, order)
		})
		if err == nil {
			dto := toDetailDTO(*order)
			s.logg.Info(s.logg.WithOrderID(ctx, orderID), "order created")
			return &dto, nil
		}
		if !db.IsUniqueViolation(err, UniqueOrderIDIndex) {
			return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "store order")
		}
		lastErr = err
	}

	return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, lastErr, "order id space exhausted")
}

// GetOrder loads one order by its public ID.
func (s *service) GetOrder(ctx context.Context, orderID string) (*OrderDetailDTO, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	dto := toDetailDTO(*order)
	return &dto, nil
}

// ListOrders returns one page of a customer's order history.
func (s *service) ListOrders(ctx context.Context, customerEmail, cursor string, limit int) (OrdersPageDTO, error) {
	email := strings.ToLower(strings.TrimSpace(customerEmail))
	if email == "" {
		return OrdersPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return OrdersPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "customer email is invalid")
	}

	rows, nextCursor, err := s.repo.ListByCustomer(ctx, email, cursor, limit)
	if err != nil {
		return OrdersPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	items := make([]OrderSummaryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toSummaryDTO(row))
	}
	return OrdersPageDTO{Items: items, NextCursor: nextCursor}, nil
}

// AppendTimelineEvent records a status event; the order status follows the
// event atomically.
func (s *service) AppendTimelineEvent(ctx context.Context, orderID string, status enums.OrderStatus, message string) (*OrderDetailDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order status is invalid")
	}
	if strings.TrimSpace(message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	order, err := s.repo.FindByOrderID(ctx, strings.TrimSpace(orderID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.AppendTimelineEventInTx(ctx, tx, order.ID, status, strings.TrimSpace(message), s.now().UTC())
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "append timeline event")
	}

	return s.GetOrder(ctx, order.OrderID)
}

func cloneItemsFor(rowID uuid.UUID, items []models.OrderItem) []models.OrderItem {
	out := make([]models.OrderItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].OrderRowID = rowID
	}
	return out
}

func validateCreateInput(input CreateOrderInput) error {
	if strings.TrimSpace(input.SessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if !input.Shipping.Complete() {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping details are incomplete")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(input.Shipping.Email)); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping email is invalid")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil || item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "order item is invalid")
		}
	}
	if !input.PaymentMethod.IsValid() || !input.PaymentPlan.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment selection is invalid")
	}
	if input.Total.IsNegative() || input.AmountPaid.IsNegative() || input.BalanceDue.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "order amounts cannot be negative")
	}
	return nil
}
