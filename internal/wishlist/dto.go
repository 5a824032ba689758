package wishlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WishlistItemDTO is one saved product with its listing essentials.
type WishlistItemDTO struct {
	WishlistID uuid.UUID       `json:"wishlist_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	Image      *string         `json:"image,omitempty"`
	InStock    bool            `json:"in_stock"`
	SavedAt    time.Time       `json:"saved_at"`
}

// WishlistPageDTO carries one page of wishlist entries.
type WishlistPageDTO struct {
	Items      []WishlistItemDTO `json:"items"`
	NextCursor *string           `json:"next_cursor,omitempty"`
}
