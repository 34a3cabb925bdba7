package helpers

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is a cart line snapshot entering checkout.
type Line struct {
	CartItemID  uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	ImageURL    string
	Size        string
	Quantity    int
	UnitPrice   decimal.Decimal
	Delivery    string
}

// Group is a distinct (product, size) pair with merged quantities. Each group
// becomes exactly one order.
type Group struct {
	Key         string
	ProductID   uuid.UUID
	ProductName string
	ImageURL    string
	Size        string
	Quantity    int
	UnitPrice   decimal.Decimal
	Delivery    string
	CartItemIDs []uuid.UUID
}

// Subtotal returns the merged line price for the group.
func (g Group) Subtotal() decimal.Decimal {
	return g.UnitPrice.Mul(decimal.NewFromInt(int64(g.Quantity)))
}

// GroupKey builds the merge key for a product and size pair.
func GroupKey(productID uuid.UUID, size string) string {
	return productID.String() + "_" + size
}

// GroupLines merges cart lines by (product, size), preserving first-seen
// order. Quantities of duplicate pairs accumulate; different products or
// sizes never merge.
func GroupLines(lines []Line) []Group {
	byKey := make(map[string]int, len(lines))
	groups := make([]Group, 0, len(lines))

	for _, line := range lines {
		key := GroupKey(line.ProductID, line.Size)
		if idx, ok := byKey[key]; ok {
			groups[idx].Quantity += line.Quantity
			groups[idx].CartItemIDs = append(groups[idx].CartItemIDs, line.CartItemID)
			continue
		}
		byKey[key] = len(groups)
		groups = append(groups, Group{
			Key:         key,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			ImageURL:    line.ImageURL,
			Size:        line.Size,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Delivery:    line.Delivery,
			CartItemIDs: []uuid.UUID{line.CartItemID},
		})
	}
	return groups
}

// Totals summarizes a cart selection for display.
type Totals struct {
	TotalItems  int
	TotalPrice  decimal.Decimal
	DeliveryFee decimal.Decimal
	GrandTotal  decimal.Decimal
}

// ComputeTotals is a pure summary over the given lines. The delivery fee is
// added once per checkout for display purposes.
func ComputeTotals(lines []Line, deliveryFee decimal.Decimal) Totals {
	totals := Totals{
		TotalPrice:  decimal.Zero,
		DeliveryFee: deliveryFee,
		GrandTotal:  decimal.Zero,
	}
	for _, line := range lines {
		totals.TotalItems += line.Quantity
		totals.TotalPrice = totals.TotalPrice.Add(
			line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		)
	}
	totals.GrandTotal = totals.TotalPrice.Add(deliveryFee)
	return totals
}
