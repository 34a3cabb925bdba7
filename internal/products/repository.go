package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/just-aly/tryfit-backend/internal/search"
	"github.com/just-aly/tryfit-backend/pkg/db/models"
	"github.com/just-aly/tryfit-backend/pkg/pagination"
	"github.com/just-aly/tryfit-backend/pkg/types"
)

// ListFilter narrows catalog listings.
type ListFilter struct {
	CategoryMain string
	CategorySub  string
	Pagination   pagination.Params
}

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByCode loads the product by its storefront code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "product_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListActive returns active catalog products, newest first, cursor paginated.
func (r *Repository) ListActive(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Order("id DESC")

	if filter.CategoryMain != "" {
		query = query.Where("category_main = ?", filter.CategoryMain)
	}
	if filter.CategorySub != "" {
		query = query.Where("category_sub = ?", filter.CategorySub)
	}

	cursor, err := pagination.ParseCursor(filter.Pagination.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Product
	if err := query.Limit(pagination.LimitWithBuffer(filter.Pagination.Limit)).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchCorpus returns the name and subcategory of every active product,
// the fields the fuzzy matcher runs against.
func (r *Repository) SearchCorpus(ctx context.Context) ([]search.CorpusEntry, error) {
	var entries []search.CorpusEntry
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("name", "category_sub AS category").
		Where("is_active = ?", true).
		Order("name ASC").
		Scan(&entries).Error
	return entries, err
}

// DecrementStock lowers the per-size stock, flooring at zero, and keeps the
// total in sync. Returns the quantity actually removed. Run inside the
// caller's transaction via WithTx.
func (r *Repository) DecrementStock(ctx context.Context, productID uuid.UUID, size string, qty int) (int, error) {
	product, err := r.FindByID(ctx, productID)
	if err != nil {
		return 0, err
	}

	current := product.Stock.Qty(size)
	removed := qty
	if removed > current {
		removed = current
	}
	product.Stock.Add(size, -qty)

	if err := r.saveStock(ctx, productID, product.Stock); err != nil {
		return 0, err
	}
	return removed, nil
}

// RestoreStock returns quantity to the per-size stock after a cancellation.
func (r *Repository) RestoreStock(ctx context.Context, productID uuid.UUID, size string, qty int) error {
	product, err := r.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	product.Stock.Add(size, qty)

	return r.saveStock(ctx, productID, product.Stock)
}

// saveStock persists the stock map and recomputed total through the model so
// the JSON serializer applies.
func (r *Repository) saveStock(ctx context.Context, productID uuid.UUID, stock types.StockMap) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{ID: productID}).
		Select("stock", "total_stock").
		Updates(models.Product{
			Stock:      stock,
			TotalStock: stock.Total(),
		}).Error
}

// IncrementSold bumps the sold counter when an order completes.
func (r *Repository) IncrementSold(ctx context.Context, productID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("sold", gorm.Expr("sold + ?", qty)).Error
}
