package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/db/models"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/enums"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/types"
)

// OrderLineDTO is one purchased line as shown in order history.
type OrderLineDTO struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	Image         *string         `json:"image,omitempty"`
	SelectedColor *string         `json:"selected_color,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
}

// TimelineEventDTO is one status event in an order's history.
type TimelineEventDTO struct {
	Status     enums.OrderStatus `json:"status"`
	Message    string            `json:"message"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// OrderSummaryDTO is the order-history list projection.
type OrderSummaryDTO struct {
	OrderID string            `json:"order_id"`
	Date    time.Time         `json:"date"`
	Status  enums.OrderStatus `json:"status"`
	Total   decimal.Decimal   `json:"total"`
	Items   []OrderLineDTO    `json:"items"`
}

// OrderDetailDTO is the full order projection.
type OrderDetailDTO struct {
	OrderID       string                `json:"order_id"`
	Date          time.Time             `json:"date"`
	Status        enums.OrderStatus     `json:"status"`
	PaymentMethod enums.PaymentMethod   `json:"payment_method"`
	PaymentPlan   enums.PaymentPlan     `json:"payment_plan"`
	PaymentStatus enums.PaymentStatus   `json:"payment_status"`
	Shipping      types.ShippingDetails `json:"shipping"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	ShippingFee   decimal.Decimal       `json:"shipping_fee"`
	Tax           decimal.Decimal       `json:"tax"`
	Total         decimal.Decimal       `json:"total"`
	AmountPaid    decimal.Decimal       `json:"amount_paid"`
	BalanceDue    decimal.Decimal       `json:"balance_due"`
	Items         []OrderLineDTO        `json:"items"`
	Timeline      []TimelineEventDTO    `json:"timeline"`
}

// OrdersPageDTO carries one page of order history.
type OrdersPageDTO struct {
	Items      []OrderSummaryDTO `json:"items"`
	NextCursor *string           `json:"next_cursor,omitempty"`
}

func toLineDTOs(items []models.OrderItem) []OrderLineDTO {
	lines := make([]OrderLineDTO, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderLineDTO{
			ProductID:     item.ProductID,
			Name:          item.Name,
			Image:         item.Image,
			SelectedColor: item.SelectedColor,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
		})
	}
	return lines
}

func toSummaryDTO(order models.Order) OrderSummaryDTO {
	return OrderSummaryDTO{
		OrderID: order.OrderID,
		Date:    order.CreatedAt,
		Status:  order.Status,
		Total:   order.Total,
		Items:   toLineDTOs(order.Items),
	}
}

func toDetailDTO(order models.Order) OrderDetailDTO {
	timeline := make([]TimelineEventDTO, 0, len(order.Timeline))
	for _, event := range order.Timeline {
		timeline = append(timeline, TimelineEventDTO{
			Status:     event.Status,
			Message:    event.Message,
			OccurredAt: event.OccurredAt,
		})
	}
	return OrderDetailDTO{
		OrderID:       order.OrderID,
		Date:          order.CreatedAt,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		PaymentPlan:   order.PaymentPlan,
		PaymentStatus: order.PaymentStatus,
		Shipping:      order.Shipping,
		Subtotal:      order.Subtotal,
		ShippingFee:   order.ShippingFee,
		Tax:           order.Tax,
		Total:         order.Total,
		AmountPaid:    order.AmountPaid,
		BalanceDue:    order.BalanceDue,
		Items:         toLineDTOs(order.Items),
		Timeline:      timeline,
	}
}
