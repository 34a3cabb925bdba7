package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/just-aly/tryfit-backend/pkg/db/models"
)

// CartItemDTO is one cart line as returned to clients.
type CartItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"productId"`
	ProductCode string          `json:"productCode"`
	ProductName string          `json:"productName"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Size        string          `json:"size"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	Selected    bool            `json:"selected"`
	Delivery    string          `json:"delivery,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// CartView aggregates the cart lines with checkout totals. Totals cover only
// the selected lines; the delivery fee applies once per checkout and is
// omitted while nothing is selected.
type CartView struct {
	Items       []CartItemDTO   `json:"items"`
	TotalItems  int             `json:"totalItems"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	GrandTotal  decimal.Decimal `json:"grandTotal"`
}

func toCartItemDTO(item models.CartItem) CartItemDTO {
	return CartItemDTO{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductCode: item.ProductCode,
		ProductName: item.ProductName,
		ImageURL:    item.ImageURL,
		Size:        item.Size,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		LineTotal:   item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		Selected:    item.Selected,
		Delivery:    item.Delivery,
		CreatedAt:   item.CreatedAt,
	}
}

func buildCartView(items []models.CartItem, deliveryFee decimal.Decimal) *CartView {
	view := &CartView{
		Items:       make([]CartItemDTO, 0, len(items)),
		TotalPrice:  decimal.Zero,
		DeliveryFee: decimal.Zero,
		GrandTotal:  decimal.Zero,
	}

	anySelected := false
	for _, item := range items {
		dto := toCartItemDTO(item)
		view.Items = append(view.Items, dto)
		if !item.Selected {
			continue
		}
		anySelected = true
		view.TotalItems += item.Quantity
		view.TotalPrice = view.TotalPrice.Add(dto.LineTotal)
	}

	if anySelected {
		view.DeliveryFee = deliveryFee
		view.GrandTotal = view.TotalPrice.Add(deliveryFee)
	}
	return view
}
