package reviews

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/db/models"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/pagination"
)

// Repository encapsulates review persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a review repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateInTx inserts the review and refreshes the product's rating aggregate
// inside the caller's transaction.
func (r *Repository) CreateInTx(ctx context.Context, tx *gorm.DB, review *models.Review) error {
	if err := tx.WithContext(ctx).Create(review).Error; err != nil {
		return err
	}

	return tx.WithContext(ctx).Exec(`
UPDATE products SET
  review_count = (SELECT COUNT(*) FROM reviews WHERE product_id = ?),
  rating = (SELECT AVG(rating) FROM reviews WHERE product_id = ?)
WHERE id = ?`, review.ProductID, review.ProductID, review.ProductID).Error
}

// ListByProduct returns one page of reviews, newest first.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID, cursor string, limit int) ([]models.Review, *string, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)

	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Review{}).Where("product_id = ?", productID)
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.Review
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
