package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/just-aly/tryfit-backend/pkg/enums"
)

// Order is a placed storefront order. Lifecycle stage lives in Status; every
// change is journaled in order_transitions rather than moving the row.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber   string            `gorm:"column:order_number;not null;uniqueIndex"`
	UserID        uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	RecipientName string            `gorm:"column:recipient_name;not null"`
	Address       string            `gorm:"column:address;not null"`
	Status        enums.OrderStatus `gorm:"column:status;type:order_status_enum;not null;default:'pending'"`
	Subtotal      decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DeliveryFee   decimal.Decimal   `gorm:"column:delivery_fee;type:numeric(12,2);not null"`
	Total         decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	PackedAt      *time.Time        `gorm:"column:packed_at"`
	ShippedAt     *time.Time        `gorm:"column:shipped_at"`
	ReceivedAt    *time.Time        `gorm:"column:received_at"`
	CancelledAt   *time.Time        `gorm:"column:cancelled_at"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Transitions   []OrderTransition `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
