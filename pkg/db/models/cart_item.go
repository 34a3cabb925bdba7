package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem persists one shopper selection: a product in a specific size.
// UnitPrice is snapshotted at add time and does not follow catalog changes.
type CartItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductCode string          `gorm:"column:product_code;not null"`
	ProductName string          `gorm:"column:product_name;not null"`
	ImageURL    string          `gorm:"column:image_url"`
	Size        string          `gorm:"column:size;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Selected    bool            `gorm:"column:selected;not null;default:true"`
	Delivery    string          `gorm:"column:delivery"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
