package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/just-aly/tryfit-backend/pkg/enums"
)

// OrderTransition is the append-only journal of order status changes.
type OrderTransition struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	FromStatus enums.OrderStatus `gorm:"column:from_status;type:order_status_enum;not null"`
	ToStatus   enums.OrderStatus `gorm:"column:to_status;type:order_status_enum;not null"`
	ActorID    *uuid.UUID        `gorm:"column:actor_id;type:uuid"`
	OccurredAt time.Time         `gorm:"column:occurred_at;not null"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}
