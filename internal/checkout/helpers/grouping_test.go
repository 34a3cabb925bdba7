package helpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupLinesMergesSameProductAndSize(t *testing.T) {
	p1 := uuid.New()
	p2 := uuid.New()

	lines := []Line{
		{CartItemID: uuid.New(), ProductID: p1, Size: "M", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
		{CartItemID: uuid.New(), ProductID: p1, Size: "M", Quantity: 3, UnitPrice: decimal.NewFromInt(100)},
		{CartItemID: uuid.New(), ProductID: p2, Size: "L", Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
	}

	groups := GroupLines(lines)
	require.Len(t, groups, 2)

	assert.Equal(t, p1, groups[0].ProductID)
	assert.Equal(t, "M", groups[0].Size)
	assert.Equal(t, 5, groups[0].Quantity)
	assert.Len(t, groups[0].CartItemIDs, 2)

	assert.Equal(t, p2, groups[1].ProductID)
	assert.Equal(t, "L", groups[1].Size)
	assert.Equal(t, 1, groups[1].Quantity)
}

func TestGroupLinesNeverMergesAcrossSizes(t *testing.T) {
	p1 := uuid.New()

	lines := []Line{
		{CartItemID: uuid.New(), ProductID: p1, Size: "M", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		{CartItemID: uuid.New(), ProductID: p1, Size: "L", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
	}

	groups := GroupLines(lines)
	require.Len(t, groups, 2)
	assert.Equal(t, "M", groups[0].Size)
	assert.Equal(t, "L", groups[1].Size)
}

func TestGroupLinesPreservesInsertionOrder(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	lines := []Line{
		{CartItemID: uuid.New(), ProductID: ids[0], Size: "S", Quantity: 1},
		{CartItemID: uuid.New(), ProductID: ids[1], Size: "S", Quantity: 1},
		{CartItemID: uuid.New(), ProductID: ids[2], Size: "S", Quantity: 1},
		{CartItemID: uuid.New(), ProductID: ids[0], Size: "S", Quantity: 1},
	}

	groups := GroupLines(lines)
	require.Len(t, groups, 3)
	for i, group := range groups {
		assert.Equal(t, ids[i], group.ProductID)
	}
	assert.Equal(t, 2, groups[0].Quantity)
}

func TestComputeTotals(t *testing.T) {
	lines := []Line{
		{ProductID: uuid.New(), Size: "M", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
		{ProductID: uuid.New(), Size: "L", Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
	}

	totals := ComputeTotals(lines, decimal.NewFromInt(58))

	assert.Equal(t, 3, totals.TotalItems)
	assert.True(t, totals.TotalPrice.Equal(decimal.NewFromInt(250)), "total price %s", totals.TotalPrice)
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromInt(308)), "grand total %s", totals.GrandTotal)
}

func TestComputeTotalsIsIdempotent(t *testing.T) {
	lines := []Line{
		{ProductID: uuid.New(), Size: "M", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
	}
	fee := decimal.NewFromInt(58)

	first := ComputeTotals(lines, fee)
	second := ComputeTotals(lines, fee)

	assert.Equal(t, first.TotalItems, second.TotalItems)
	assert.True(t, first.TotalPrice.Equal(second.TotalPrice))
	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
}
