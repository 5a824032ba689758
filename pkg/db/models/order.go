package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/enums"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/types"
)

// Order is the persisted record of a paid checkout. OrderID is the public
// identifier shown to customers; ID stays internal.
type Order struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           string                `gorm:"column:order_id;not null;uniqueIndex:idx_orders_order_id"`
	SessionID         string                `gorm:"column:session_id;not null;index"`
	CustomerEmail     string                `gorm:"column:customer_email;not null;index"`
	Shipping          types.ShippingDetails `gorm:"column:shipping;type:jsonb"`
	Status            enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'Pending'"`
	PaymentMethod     enums.PaymentMethod   `gorm:"column:payment_method;type:text;not null"`
	PaymentPlan       enums.PaymentPlan     `gorm:"column:payment_plan;type:text;not null"`
	PaymentStatus     enums.PaymentStatus   `gorm:"column:payment_status;type:text;not null;default:'Pending'"`
	Subtotal          decimal.Decimal       `gorm:"column:subtotal;type:numeric(12,2);not null"`
	ShippingFee       decimal.Decimal       `gorm:"column:shipping_fee;type:numeric(12,2);not null"`
	Tax               decimal.Decimal       `gorm:"column:tax;type:numeric(12,2);not null"`
	Total             decimal.Decimal       `gorm:"column:total;type:numeric(12,2);not null"`
	AmountPaid        decimal.Decimal       `gorm:"column:amount_paid;type:numeric(12,2);not null"`
	BalanceDue        decimal.Decimal       `gorm:"column:balance_due;type:numeric(12,2);not null"`
	RazorpayOrderID   *string               `gorm:"column:razorpay_order_id"`
	RazorpayPaymentID *string               `gorm:"column:razorpay_payment_id"`
	Items             []OrderItem           `gorm:"foreignKey:OrderRowID;references:ID;constraint:OnDelete:CASCADE"`
	Timeline          []OrderTimelineEvent  `gorm:"foreignKey:OrderRowID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is a purchased line frozen at checkout time.
type OrderItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderRowID    uuid.UUID       `gorm:"column:order_row_id;type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Name          string          `gorm:"column:name;not null"`
	Image         *string         `gorm:"column:image"`
	SelectedColor *string         `gorm:"column:selected_color"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity      int             `gorm:"column:quantity;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// OrderTimelineEvent is one append-only entry in an order's status history.
// Rows are never updated or deleted.
type OrderTimelineEvent struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderRowID uuid.UUID         `gorm:"column:order_row_id;type:uuid;not null;index"`
	Status     enums.OrderStatus `gorm:"column:status;type:text;not null"`
	Message    string            `gorm:"column:message;not null"`
	OccurredAt time.Time         `gorm:"column:occurred_at;not null"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}
