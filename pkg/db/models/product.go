package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/just-aly/tryfit-backend/pkg/types"
)

// Product represents a catalog listing with per-size stock.
type Product struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductCode  string          `gorm:"column:product_code;not null;uniqueIndex"`
	Name         string          `gorm:"column:name;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Sizes        pq.StringArray  `gorm:"column:sizes;type:text[];not null"`
	Stock        types.StockMap  `gorm:"column:stock;type:jsonb;serializer:json;not null"`
	TotalStock   int             `gorm:"column:total_stock;not null;default:0"`
	Sold         int             `gorm:"column:sold;not null;default:0"`
	Rating       float64         `gorm:"column:rating;type:numeric(2,1);not null;default:0"`
	CategoryMain string          `gorm:"column:category_main;not null"`
	CategorySub  string          `gorm:"column:category_sub;not null"`
	Delivery     string          `gorm:"column:delivery"`
	ImageURL     string          `gorm:"column:image_url"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
