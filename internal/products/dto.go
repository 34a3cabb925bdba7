package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/just-aly/tryfit-backend/pkg/db/models"
)

// ProductDTO is the catalog read model returned to clients.
type ProductDTO struct {
	ID           uuid.UUID       `json:"id"`
	ProductCode  string          `json:"productCode"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Sizes        []string        `json:"sizes"`
	Stock        map[string]int  `json:"stock"`
	TotalStock   int             `json:"totalStock"`
	Sold         int             `json:"sold"`
	Rating       float64         `json:"rating"`
	CategoryMain string          `json:"categoryMain"`
	CategorySub  string          `json:"categorySub"`
	Delivery     string          `json:"delivery,omitempty"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ProductListResult is a cursor-paginated page of products.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"nextCursor,omitempty"`
}

func toProductDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:           p.ID,
		ProductCode:  p.ProductCode,
		Name:         p.Name,
		Price:        p.Price,
		Sizes:        []string(p.Sizes),
		Stock:        map[string]int(p.Stock),
		TotalStock:   p.TotalStock,
		Sold:         p.Sold,
		Rating:       p.Rating,
		CategoryMain: p.CategoryMain,
		CategorySub:  p.CategorySub,
		Delivery:     p.Delivery,
		ImageURL:     p.ImageURL,
		CreatedAt:    p.CreatedAt,
	}
}
