package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/just-aly/tryfit-backend/pkg/db/models"
	"github.com/just-aly/tryfit-backend/pkg/enums"
)

// OrderItemDTO is one line snapshot within an order.
type OrderItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"productId,omitempty"`
	ProductName string          `json:"productName"`
	Size        string          `json:"size"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

// OrderDTO is the order read model returned to clients.
type OrderDTO struct {
	ID            uuid.UUID         `json:"id"`
	OrderNumber   string            `json:"orderNumber"`
	UserID        uuid.UUID         `json:"userId"`
	RecipientName string            `json:"recipientName"`
	Address       string            `json:"address"`
	Status        enums.OrderStatus `json:"status"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	DeliveryFee   decimal.Decimal   `json:"deliveryFee"`
	Total         decimal.Decimal   `json:"total"`
	Items         []OrderItemDTO    `json:"items"`
	PackedAt      *time.Time        `json:"packedAt,omitempty"`
	ShippedAt     *time.Time        `json:"shippedAt,omitempty"`
	ReceivedAt    *time.Time        `json:"receivedAt,omitempty"`
	CancelledAt   *time.Time        `json:"cancelledAt,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// TransitionDTO is one journal entry in an order's history.
type TransitionDTO struct {
	FromStatus enums.OrderStatus `json:"fromStatus"`
	ToStatus   enums.OrderStatus `json:"toStatus"`
	ActorID    *uuid.UUID        `json:"actorId,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// OrderDetailDTO extends the order with its transition history.
type OrderDetailDTO struct {
	OrderDTO
	Transitions []TransitionDTO `json:"transitions"`
}

// OrderListResult is a cursor-paginated page of orders.
type OrderListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

func toOrderItemDTO(item models.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Size:        item.Size,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		ImageURL:    item.ImageURL,
	}
}

// ToOrderDTO converts the persisted order to its read model.
func ToOrderDTO(order models.Order) OrderDTO {
	dto := OrderDTO{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		RecipientName: order.RecipientName,
		Address:       order.Address,
		Status:        order.Status,
		Subtotal:      order.Subtotal,
		DeliveryFee:   order.DeliveryFee,
		Total:         order.Total,
		Items:         make([]OrderItemDTO, 0, len(order.Items)),
		PackedAt:      order.PackedAt,
		ShippedAt:     order.ShippedAt,
		ReceivedAt:    order.ReceivedAt,
		CancelledAt:   order.CancelledAt,
		CreatedAt:     order.CreatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, toOrderItemDTO(item))
	}
	return dto
}

func toOrderDetailDTO(order models.Order) OrderDetailDTO {
	detail := OrderDetailDTO{
		OrderDTO:    ToOrderDTO(order),
		Transitions: make([]TransitionDTO, 0, len(order.Transitions)),
	}
	for _, transition := range order.Transitions {
		detail.Transitions = append(detail.Transitions, TransitionDTO{
			FromStatus: transition.FromStatus,
			ToStatus:   transition.ToStatus,
			ActorID:    transition.ActorID,
			OccurredAt: transition.OccurredAt,
		})
	}
	return detail
}
