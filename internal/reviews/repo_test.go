package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/db/models"
)

func setupReviewsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:reviews_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  subcategory TEXT,
  price NUMERIC NOT NULL,
  original_price NUMERIC,
  images TEXT,
  colors TEXT,
  materials TEXT,
  dimensions TEXT,
  in_stock INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  rating NUMERIC NOT NULL DEFAULT 0,
  review_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  author TEXT NOT NULL,
  rating INTEGER NOT NULL,
  comment TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec("DELETE FROM reviews").Error)
	require.NoError(t, db.Exec("DELETE FROM products").Error)
	return db
}

type gormTxRunner struct{ db *gorm.DB }

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func mustCreateReviewProduct(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     "Teak Coffee Table",
		Category: "Tables",
		Price:    decimal.RequireFromString("289"),
		InStock:  true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestAddReviewRefreshesAggregate(t *testing.T) {
	db := setupReviewsTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, gormTxRunner{db: db}, productFinder{db: db})
	require.NoError(t, err)
	ctx := context.Background()

	product := mustCreateReviewProduct(t, db)

	_, err = svc.AddReview(ctx, CreateReviewInput{ProductID: product.ID, Author: "Asha", Rating: 5})
	require.NoError(t, err)
	_, err = svc.AddReview(ctx, CreateReviewInput{ProductID: product.ID, Author: "Ravi", Rating: 4})
	require.NoError(t, err)

	var refreshed models.Product
	require.NoError(t, db.First(&refreshed, "id = ?", product.ID).Error)
	assert.Equal(t, 2, refreshed.ReviewCount)
	assert.InDelta(t, 4.5, refreshed.Rating, 0.001)
}

func TestAddReviewValidation(t *testing.T) {
	db := setupReviewsTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, gormTxRunner{db: db}, productFinder{db: db})
	require.NoError(t, err)
	ctx := context.Background()

	product := mustCreateReviewProduct(t, db)

	_, err = svc.AddReview(ctx, CreateReviewInput{ProductID: product.ID, Author: "", Rating: 4})
	assert.Error(t, err)

	_, err = svc.AddReview(ctx, CreateReviewInput{ProductID: product.ID, Author: "Asha", Rating: 6})
	assert.Error(t, err)

	_, err = svc.AddReview(ctx, CreateReviewInput{ProductID: uuid.New(), Author: "Asha", Rating: 4})
	assert.Error(t, err)
}

func TestListReviewsPaginates(t *testing.T) {
	db := setupReviewsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateReviewProduct(t, db)
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		review := &models.Review{
			ID:        uuid.New(),
			ProductID: product.ID,
			Author:    "Customer",
			Rating:    4,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(review).Error)
	}

	rows, next, err := repo.ListByProduct(ctx, product.ID, "", 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.NotNil(t, next)

	rest, next2, err := repo.ListByProduct(ctx, product.ID, *next, 3)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Nil(t, next2)
}

type productFinder struct{ db *gorm.DB }

func (f productFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := f.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
