package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/ShubhamSahu-2005/ezwoods-backend/pkg/errors"
)

// Service exposes catalog reads.
type Service interface {
	ListProducts(ctx context.Context, filter ListFilter) (ProductsPageDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{repo: repo}, nil
}

// ListProducts returns one paginated catalog page.
func (s *service) ListProducts(ctx context.Context, filter ListFilter) (ProductsPageDTO, error) {
	rows, nextCursor, err := s.repo.List(ctx, filter)
	if err != nil {
		return ProductsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	items := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}
	return ProductsPageDTO{Items: items, NextCursor: nextCursor}, nil
}

// GetProduct loads one product by ID.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := toDTO(*row)
	return &dto, nil
}
