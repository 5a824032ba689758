package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string           `gorm:"column:name;not null"`
	Description   *string          `gorm:"column:description"`
	Category      string           `gorm:"column:category;not null"`
	Subcategory   *string          `gorm:"column:subcategory"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice *decimal.Decimal `gorm:"column:original_price;type:numeric(12,2)"`
	Images        pq.StringArray   `gorm:"column:images;type:text[]"`
	Colors        pq.StringArray   `gorm:"column:colors;type:text[]"`
	Materials     pq.StringArray   `gorm:"column:materials;type:text[]"`
	Dimensions    *string          `gorm:"column:dimensions"`
	InStock       bool             `gorm:"column:in_stock;not null;default:true"`
	IsFeatured    bool             `gorm:"column:is_featured;not null;default:false"`
	Rating        float64          `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	ReviewCount   int              `gorm:"column:review_count;not null;default:0"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
