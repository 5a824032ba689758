package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/db/models"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:products_test?mode=memory&cache=shared"), &gorm.Config{})
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
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec("DELETE FROM products").Error)
	return db
}

func mustCreateProduct(t *testing.T, db *gorm.DB, name, category string, featured bool, createdAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		Category:   category,
		Price:      decimal.RequireFromString("349"),
		Images:     pq.StringArray{"/images/test.jpg"},
		Colors:     pq.StringArray{"Walnut"},
		Materials:  pq.StringArray{"Walnut"},
		InStock:    true,
		IsFeatured: featured,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestListPaginatesNewestFirst(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mustCreateProduct(t, db, "Chair", "Chairs", false, base.Add(time.Duration(i)*time.Hour))
	}

	rows, next, err := repo.List(ctx, ListFilter{Limit: 3})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.NotNil(t, next)
	assert.True(t, rows[0].CreatedAt.After(rows[2].CreatedAt))

	rest, next2, err := repo.List(ctx, ListFilter{Limit: 3, Cursor: *next})
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Nil(t, next2)
}

func TestListFilters(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	mustCreateProduct(t, db, "Sofa", "Sofas", true, now)
	mustCreateProduct(t, db, "Chair", "Chairs", false, now.Add(time.Minute))

	rows, _, err := repo.List(ctx, ListFilter{Category: "Sofas"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sofa", rows[0].Name)

	rows, _, err = repo.List(ctx, ListFilter{FeaturedOnly: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sofa", rows[0].Name)
}

func TestFindByID(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := mustCreateProduct(t, db, "Sideboard", "Storage", false, time.Now().UTC())

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, found.Name)
	assert.Equal(t, []string{"Walnut"}, []string(found.Colors))

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
