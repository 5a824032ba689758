package reviews

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/db/models"
	pkgerrors "github.com/ShubhamSahu-2005/ezwoods-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// CreateReviewInput captures a new review submission.
type CreateReviewInput struct {
	ProductID uuid.UUID
	Author    string
	Rating    int
	Comment   *string
}

// Service exposes review reads and submissions.
type Service interface {
	ListReviews(ctx context.Context, productID uuid.UUID, cursor string, limit int) (ReviewsPageDTO, error)
	AddReview(ctx context.Context, input CreateReviewInput) (*ReviewDTO, error)
}

type service struct {
	repo     *Repository
	tx       txRunner
	products productLoader
}

// NewService builds a review service with the required dependencies.
func NewService(repo *Repository, tx txRunner, products productLoader) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repo is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	return &service{repo: repo, tx: tx, products: products}, nil
}

// ListReviews returns one page of a product's reviews.
func (s *service) ListReviews(ctx context.Context, productID uuid.UUID, cursor string, limit int) (ReviewsPageDTO, error) {
	if productID == uuid.Nil {
		return ReviewsPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	rows, nextCursor, err := s.repo.ListByProduct(ctx, productID, cursor, limit)
	if err != nil {
		return ReviewsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}

	items := make([]ReviewDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}
	return ReviewsPageDTO{Items: items, NextCursor: nextCursor}, nil
}

// AddReview validates and stores a review, refreshing the product aggregate.
func (s *service) AddReview(ctx context.Context, input CreateReviewInput) (*ReviewDTO, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if strings.TrimSpace(input.Author) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	review := &models.Review{
		ID:        uuid.New(),
		ProductID: input.ProductID,
		Author:    strings.TrimSpace(input.Author),
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.CreateInTx(ctx, tx, review)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store review")
	}

	dto := toDTO(*review)
	return &dto, nil
}
