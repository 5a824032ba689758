package wishlist

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/db/models"
	pkgerrors "github.com/ShubhamSahu-2005/ezwoods-backend/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes business rules for wishlist management.
type Service interface {
	GetWishlist(ctx context.Context, customerEmail, cursor string, limit int) (WishlistPageDTO, error)
	AddItem(ctx context.Context, customerEmail string, productID uuid.UUID) error
	RemoveItem(ctx context.Context, customerEmail string, productID uuid.UUID) error
}

type service struct {
	repo     *Repository
	products productLoader
}

// NewService builds a wishlist service with the required dependencies.
func NewService(repo *Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	return &service{repo: repo, products: products}, nil
}

// GetWishlist returns the paginated wishlist for a customer.
func (s *service) GetWishlist(ctx context.Context, customerEmail, cursor string, limit int) (WishlistPageDTO, error) {
	email, err := normalizeEmail(customerEmail)
	if err != nil {
		return WishlistPageDTO{}, err
	}

	rows, nextCursor, err := s.repo.ListItems(ctx, email, cursor, limit)
	if err != nil {
		return WishlistPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}

	items := make([]WishlistItemDTO, 0, len(rows))
	for _, row := range rows {
		item := WishlistItemDTO{
			WishlistID: row.ID,
			ProductID:  row.ProductID,
			SavedAt:    row.CreatedAt,
		}
		if row.Product != nil {
			item.Name = row.Product.Name
			item.Category = row.Product.Category
			item.Price = row.Product.Price
			item.InStock = row.Product.InStock
			if len(row.Product.Images) > 0 {
				image := row.Product.Images[0]
				item.Image = &image
			}
		}
		items = append(items, item)
	}
	return WishlistPageDTO{Items: items, NextCursor: nextCursor}, nil
}

// AddItem ensures the product exists and pins it to the wishlist.
func (s *service) AddItem(ctx context.Context, customerEmail string, productID uuid.UUID) error {
	email, err := normalizeEmail(customerEmail)
	if err != nil {
		return err
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return s.repo.AddItem(ctx, email, productID)
}

// RemoveItem drops the wishlist entry regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, customerEmail string, productID uuid.UUID) error {
	email, err := normalizeEmail(customerEmail)
	if err != nil {
		return err
	}
	return s.repo.RemoveItem(ctx, email, productID)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "customer email is invalid")
	}
	return email, nil
}
