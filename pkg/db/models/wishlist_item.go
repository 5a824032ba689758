package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem pins a product to a customer's wishlist. One row per
// (customer, product).
type WishlistItem struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerEmail string    `gorm:"column:customer_email;not null;uniqueIndex:idx_wishlist_customer_product"`
	ProductID     uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_wishlist_customer_product"`
	Product       *Product  `gorm:"foreignKey:ProductID;references:ID"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}
