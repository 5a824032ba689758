package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/db/models"
)

func setupWishlistTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:wishlist_test?mode=memory&cache=shared"), &gorm.Config{})
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
CREATE TABLE IF NOT EXISTS wishlist_items (
  id TEXT PRIMARY KEY,
  customer_email TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (customer_email, product_id)
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec("DELETE FROM wishlist_items").Error)
	require.NoError(t, db.Exec("DELETE FROM products").Error)
	return db
}

func mustCreateWishlistProduct(t *testing.T, db *gorm.DB, name string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Category: "Chairs",
		Price:    decimal.RequireFromString("349"),
		InStock:  true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestAddItemIgnoresDuplicates(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateWishlistProduct(t, db, "Walnut Lounge Chair")

	require.NoError(t, repo.AddItem(ctx, "asha@example.com", product.ID))
	require.NoError(t, repo.AddItem(ctx, "asha@example.com", product.ID))

	var count int64
	require.NoError(t, db.Model(&models.WishlistItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestWishlistIsScopedByCustomer(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, wishlistProductFinder{db: db})
	require.NoError(t, err)
	ctx := context.Background()

	chair := mustCreateWishlistProduct(t, db, "Walnut Lounge Chair")
	sofa := mustCreateWishlistProduct(t, db, "Oslo 3-Seater Sofa")

	require.NoError(t, svc.AddItem(ctx, "Asha@Example.com", chair.ID))
	require.NoError(t, svc.AddItem(ctx, "ravi@example.com", sofa.ID))

	page, err := svc.GetWishlist(ctx, "asha@example.com", "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, chair.ID, page.Items[0].ProductID)
	assert.Equal(t, "Walnut Lounge Chair", page.Items[0].Name)

	require.NoError(t, svc.RemoveItem(ctx, "asha@example.com", chair.ID))
	page, err = svc.GetWishlist(ctx, "asha@example.com", "", 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestAddItemRejectsUnknownProduct(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, wishlistProductFinder{db: db})
	require.NoError(t, err)

	err = svc.AddItem(context.Background(), "asha@example.com", uuid.New())
	assert.Error(t, err)

	err = svc.AddItem(context.Background(), "not-an-email", uuid.New())
	assert.Error(t, err)
}

type wishlistProductFinder struct{ db *gorm.DB }

func (f wishlistProductFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := f.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
