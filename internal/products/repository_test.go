package product

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

	"github.com/just-aly/tryfit-backend/internal/search"
	"github.com/just-aly/tryfit-backend/pkg/db/models"
	"github.com/just-aly/tryfit-backend/pkg/pagination"
	"github.com/just-aly/tryfit-backend/pkg/types"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  product_code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  price TEXT NOT NULL DEFAULT '0',
  sizes TEXT NOT NULL DEFAULT '{}',
  stock TEXT NOT NULL DEFAULT '{}',
  total_stock INTEGER NOT NULL DEFAULT 0,
  sold INTEGER NOT NULL DEFAULT 0,
  rating REAL NOT NULL DEFAULT 0,
  category_main TEXT NOT NULL DEFAULT '',
  category_sub TEXT NOT NULL DEFAULT '',
  delivery TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	return db
}

func newProduct(t *testing.T, db *gorm.DB, name string, stock types.StockMap) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:           uuid.New(),
		ProductCode:  "TF-" + uuid.NewString()[:8],
		Name:         name,
		Price:        decimal.NewFromInt(50),
		Sizes:        []string{"S", "M", "L"},
		Stock:        stock,
		TotalStock:   stock.Total(),
		CategoryMain: "tops",
		CategorySub:  "t-shirts",
		IsActive:     true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestDecrementStockClampsAtZero(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := newProduct(t, db, "Basic Tee", types.StockMap{"M": 3, "L": 5})

	removed, err := repo.DecrementStock(ctx, product.ID, "M", 5)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	reloaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Stock.Qty("M"))
	assert.Equal(t, 5, reloaded.Stock.Qty("L"))
	assert.Equal(t, 5, reloaded.TotalStock)
}

func TestDecrementThenRestoreStock(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := newProduct(t, db, "Basic Tee", types.StockMap{"M": 10})

	removed, err := repo.DecrementStock(ctx, product.ID, "M", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, removed)

	require.NoError(t, repo.RestoreStock(ctx, product.ID, "M", 4))

	reloaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.Stock.Qty("M"))
	assert.Equal(t, 10, reloaded.TotalStock)
}

func TestIncrementSold(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := newProduct(t, db, "Basic Tee", types.StockMap{"M": 2})

	require.NoError(t, repo.IncrementSold(ctx, product.ID, 3))
	require.NoError(t, repo.IncrementSold(ctx, product.ID, 2))

	reloaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.Sold)
}

func TestListActiveFiltersAndPaginates(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		p := newProduct(t, db, "Tee", types.StockMap{"M": 1})
		require.NoError(t, db.Model(p).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}
	inactive := newProduct(t, db, "Hidden Tee", types.StockMap{"M": 1})
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	rows, err := repo.ListActive(ctx, ListFilter{
		CategoryMain: "tops",
		Pagination:   pagination.Params{Limit: 2},
	})
	require.NoError(t, err)
	// limit+1 buffer row signals a next page
	assert.Len(t, rows, 3)

	for _, row := range rows {
		assert.NotEqual(t, "Hidden Tee", row.Name)
	}
}

func TestSearchCorpus(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	newProduct(t, db, "Slim Pants", types.StockMap{"M": 1})
	newProduct(t, db, "Basic Tee", types.StockMap{"M": 1})
	retired := newProduct(t, db, "Old Hoodie", types.StockMap{"M": 1})
	require.NoError(t, db.Model(retired).Update("is_active", false).Error)

	entries, err := repo.SearchCorpus(ctx)
	require.NoError(t, err)
	assert.Equal(t, []search.CorpusEntry{
		{Name: "Basic Tee", Category: "t-shirts"},
		{Name: "Slim Pants", Category: "t-shirts"},
	}, entries)
}
