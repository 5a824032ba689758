package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/db/models"
)

// ReviewDTO is the published review projection.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewsPageDTO carries one page of reviews for a product.
type ReviewsPageDTO struct {
	Items      []ReviewDTO `json:"items"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

func toDTO(r models.Review) ReviewDTO {
	return ReviewDTO{
		ID:        r.ID,
		ProductID: r.ProductID,
		Author:    r.Author,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
