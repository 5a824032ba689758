package orders

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/db/models"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/enums"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/pagination"
)

// orderIDCharset excludes nothing; the public ID is uppercase alphanumeric.
var orderIDCharset = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

const orderIDSuffixLen = 4

// UniqueOrderIDIndex is the constraint guarding public order IDs.
const UniqueOrderIDIndex = "idx_orders_order_id"

// NewOrderID builds a public order identifier: ORD-{YY}{MM}-{4 alnum}.
func NewOrderID(now time.Time) (string, error) {
	var suffix strings.Builder
	for i := 0; i < orderIDSuffixLen; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(orderIDCharset))))
		if err != nil {
			return "", fmt.Errorf("generate order id: %w", err)
		}
		suffix.WriteRune(orderIDCharset[idx.Int64()])
	}
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("0601"), suffix.String()), nil
}

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateInTx inserts the order with its items and initial timeline event as
// one atomic write. The caller owns the transaction.
func (r *Repository) CreateInTx(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

// AppendTimelineEventInTx records a status event and moves the order's status
// with it. This is the only write path for order status.
func (r *Repository) AppendTimelineEventInTx(ctx context.Context, tx *gorm.DB, orderRowID uuid.UUID, status enums.OrderStatus, message string, occurredAt time.Time) error {
	event := models.OrderTimelineEvent{
		ID:         uuid.New(),
		OrderRowID: orderRowID,
		Status:     status,
		Message:    message,
		OccurredAt: occurredAt,
	}
	if err := tx.WithContext(ctx).Create(&event).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderRowID).
		Update("status", status).Error
}

// FindByOrderID loads an order with items and its full timeline.
func (r *Repository) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at ASC, created_at ASC")
		}).
		Where("order_id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByCustomer returns one page of a customer's orders, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerEmail, cursor string, limit int) ([]models.Order, *string, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)

	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items").
		Where("customer_email = ?", customerEmail)
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.Order
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	var nextCursor *string
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		encoded := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		nextCursor = &encoded
	}

	return rows, nextCursor, nil
}
