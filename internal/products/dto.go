package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/db/models"
)

// ProductDTO is the catalog projection returned to clients.
type ProductDTO struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Description   *string          `json:"description,omitempty"`
	Category      string           `json:"category"`
	Subcategory   *string          `json:"subcategory,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Images        []string         `json:"images"`
	Colors        []string         `json:"colors"`
	Materials     []string         `json:"materials"`
	Dimensions    *string          `json:"dimensions,omitempty"`
	InStock       bool             `json:"in_stock"`
	IsFeatured    bool             `json:"is_featured"`
	Rating        float64          `json:"rating"`
	ReviewCount   int              `json:"review_count"`
	CreatedAt     time.Time        `json:"created_at"`
}

// ProductsPageDTO carries one page of catalog results.
type ProductsPageDTO struct {
	Items      []ProductDTO `json:"items"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

func toDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Subcategory:   p.Subcategory,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Images:        []string(p.Images),
		Colors:        []string(p.Colors),
		Materials:     []string(p.Materials),
		Dimensions:    p.Dimensions,
		InStock:       p.InStock,
		IsFeatured:    p.IsFeatured,
		Rating:        p.Rating,
		ReviewCount:   p.ReviewCount,
		CreatedAt:     p.CreatedAt,
	}
}
