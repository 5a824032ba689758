package wishlist

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/db/models"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/pagination"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem inserts a wishlist entry and ignores duplicates.
func (r *Repository) AddItem(ctx context.Context, customerEmail string, productID uuid.UUID) error {
	if customerEmail == "" || productID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO wishlist_items (id, customer_email, product_id, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (customer_email, product_id) DO NOTHING`, uuid.New(), customerEmail, productID).
		Error
}

// RemoveItem deletes the customer-product entry if it exists.
func (r *Repository) RemoveItem(ctx context.Context, customerEmail string, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("customer_email = ? AND product_id = ?", customerEmail, productID).
		Delete(&models.WishlistItem{}).
		Error
}

// ListItems returns a paginated wishlist joined with product essentials.
func (r *Repository) ListItems(ctx context.Context, customerEmail string, cursor string, limit int) ([]models.WishlistItem, *string, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)

	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Preload("Product").
		Where("customer_email = ?", customerEmail)
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.WishlistItem
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
