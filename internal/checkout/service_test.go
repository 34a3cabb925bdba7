package checkout

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	cartpkg "github.com/just-aly/tryfit-backend/internal/cart"
	"github.com/just-aly/tryfit-backend/internal/orders"
	product "github.com/just-aly/tryfit-backend/internal/products"
	dbpkg "github.com/just-aly/tryfit-backend/pkg/db"
	"github.com/just-aly/tryfit-backend/pkg/db/models"
	"github.com/just-aly/tryfit-backend/pkg/enums"
	pkgerrors "github.com/just-aly/tryfit-backend/pkg/errors"
	"github.com/just-aly/tryfit-backend/pkg/outbox"
	"github.com/just-aly/tryfit-backend/pkg/types"
)

type stubNotificationWriter struct {
	created []models.Notification
}

func (s *stubNotificationWriter) CreateInTx(_ context.Context, _ *gorm.DB, n *models.Notification) error {
	s.created = append(s.created, *n)
	return nil
}

type stubEventEmitter struct {
	events []outbox.DomainEvent
}

func (s *stubEventEmitter) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{`
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  product_code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  price TEXT NOT NULL DEFAULT '0',
  sizes TEXT NOT NULL DEFAULT '{}',
  stock TEXT NOT NULL DEFAULT '{}',
  total_stock INTEGER NOT NULL DEFAULT 0,
  sold INTEGER NOT NULL DEFAULT 0,
  rating REAL NOT NULL DEFAULT 0,
  category_main TEXT NOT NULL DEFAULT '',
  category_sub TEXT NOT NULL DEFAULT '',
  delivery TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_code TEXT NOT NULL,
  product_name TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  size TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  unit_price TEXT NOT NULL DEFAULT '0',
  selected INTEGER NOT NULL DEFAULT 1,
  delivery TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  recipient_name TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  subtotal TEXT NOT NULL DEFAULT '0',
  delivery_fee TEXT NOT NULL DEFAULT '0',
  total TEXT NOT NULL DEFAULT '0',
  packed_at DATETIME,
  shipped_at DATETIME,
  received_at DATETIME,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  product_name TEXT NOT NULL,
  size TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  unit_price TEXT NOT NULL DEFAULT '0',
  image_url TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_transitions (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  from_status TEXT NOT NULL,
  to_status TEXT NOT NULL,
  actor_id TEXT,
  occurred_at DATETIME,
  created_at DATETIME
);`}
	for _, schema := range schemas {
		require.NoError(t, db.Exec(schema).Error)
	}
	return db
}

type checkoutFixture struct {
	db            *gorm.DB
	svc           Service
	cartRepo      *cartpkg.Repository
	productRepo   *product.Repository
	orderRepo     orders.Repository
	notifications *stubNotificationWriter
	events        *stubEventEmitter
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	db := setupCheckoutTestDB(t)
	fixture := &checkoutFixture{
		db:            db,
		cartRepo:      cartpkg.NewRepository(db),
		productRepo:   product.NewRepository(db),
		orderRepo:     orders.NewRepository(db),
		notifications: &stubNotificationWriter{},
		events:        &stubEventEmitter{},
	}

	svc, err := NewService(
		dbpkg.NewFromConn(db),
		fixture.cartRepo,
		fixture.productRepo,
		fixture.orderRepo,
		fixture.notifications,
		fixture.events,
		nil,
		nil,
		58,
	)
	require.NoError(t, err)
	fixture.svc = svc
	return fixture
}

func (f *checkoutFixture) seedProduct(t *testing.T, name string, price int64, stock types.StockMap) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:          uuid.New(),
		ProductCode: "TF-" + uuid.NewString()[:8],
		Name:        name,
		Price:       decimal.NewFromInt(price),
		Sizes:       []string{"S", "M", "L"},
		Stock:       stock,
		TotalStock:  stock.Total(),
		IsActive:    true,
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *checkoutFixture) seedCartLine(t *testing.T, userID uuid.UUID, p *models.Product, size string, qty int) *models.CartItem {
	t.Helper()
	item := &models.CartItem{
		ID:          uuid.New(),
		UserID:      userID,
		ProductID:   p.ID,
		ProductCode: p.ProductCode,
		ProductName: p.Name,
		Size:        size,
		Quantity:    qty,
		UnitPrice:   p.Price,
		Selected:    true,
	}
	require.NoError(t, f.db.Create(item).Error)
	return item
}

var orderNumberRe = regexp.MustCompile(`^ORD-\d+-\d{6}$`)

func TestPlaceOrderCreatesOneOrderPerGroup(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	tee := f.seedProduct(t, "Basic Tee", 100, types.StockMap{"M": 10})
	pants := f.seedProduct(t, "Slim Pants", 50, types.StockMap{"L": 10})

	f.seedCartLine(t, userID, tee, "M", 2)
	f.seedCartLine(t, userID, tee, "M", 3)
	f.seedCartLine(t, userID, pants, "L", 1)

	result, err := f.svc.PlaceOrder(ctx, userID, PlaceOrderInput{
		RecipientName: "Aly Reyes",
		Address:       "12 Hill St, Quezon City",
	})
	require.NoError(t, err)
	require.Len(t, result.Orders, 2)

	first := result.Orders[0]
	assert.Regexp(t, orderNumberRe, first.OrderNumber)
	assert.Equal(t, enums.OrderStatusPending, first.Status)
	require.Len(t, first.Items, 1)
	assert.Equal(t, 5, first.Items[0].Quantity)
	assert.True(t, first.Subtotal.Equal(decimal.NewFromInt(500)))
	assert.True(t, first.DeliveryFee.Equal(decimal.NewFromInt(58)))
	assert.True(t, first.Total.Equal(decimal.NewFromInt(558)))

	second := result.Orders[1]
	assert.True(t, second.Total.Equal(decimal.NewFromInt(108)))

	// ordered lines leave the cart
	remaining, err := f.cartRepo.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// stock decremented per group
	reloaded, err := f.productRepo.FindByID(ctx, tee.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.Stock.Qty("M"))

	// one notification and one event per order
	require.Len(t, f.notifications.created, 2)
	for _, n := range f.notifications.created {
		assert.Equal(t, enums.NotificationTypeOrderPlaced, n.Type)
		assert.NotNil(t, n.OrderID)
	}
	require.Len(t, f.events.events, 2)
	assert.Equal(t, enums.EventOrderPlaced, f.events.events[0].EventType)
}

func TestPlaceOrderClampsStockAtZero(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	tee := f.seedProduct(t, "Basic Tee", 100, types.StockMap{"M": 3})
	f.seedCartLine(t, userID, tee, "M", 5)

	result, err := f.svc.PlaceOrder(ctx, userID, PlaceOrderInput{
		RecipientName: "Aly Reyes",
		Address:       "12 Hill St, Quezon City",
	})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, 5, result.Orders[0].Items[0].Quantity)

	reloaded, err := f.productRepo.FindByID(ctx, tee.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Stock.Qty("M"))
	assert.Equal(t, 0, reloaded.TotalStock)
}

// TODO: unskip once product confirms oversell should reject instead of
// clamping; see the stock-clamp decision in DESIGN.md.
func TestPlaceOrderRejectsOversell(t *testing.T) {
	t.Skip("pending product decision: oversell currently clamps stock at zero")

	f := newCheckoutFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	tee := f.seedProduct(t, "Basic Tee", 100, types.StockMap{"M": 3})
	f.seedCartLine(t, userID, tee, "M", 5)

	_, err := f.svc.PlaceOrder(ctx, userID, PlaceOrderInput{
		RecipientName: "Aly Reyes",
		Address:       "12 Hill St, Quezon City",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	reloaded, err := f.productRepo.FindByID(ctx, tee.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Stock.Qty("M"))
}

func TestPlaceOrderRejectsEmptySelection(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, uuid.New(), PlaceOrderInput{
		RecipientName: "Aly Reyes",
		Address:       "12 Hill St, Quezon City",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestPlaceOrderRequiresShippingDetails(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, uuid.New(), PlaceOrderInput{Address: "somewhere"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = f.svc.PlaceOrder(ctx, uuid.New(), PlaceOrderInput{RecipientName: "Aly"})
	require.Error(t, err)
}

func TestPlaceOrderSkipsUnselectedLines(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	tee := f.seedProduct(t, "Basic Tee", 100, types.StockMap{"M": 10, "L": 10})
	f.seedCartLine(t, userID, tee, "M", 1)
	unselected := f.seedCartLine(t, userID, tee, "L", 1)
	require.NoError(t, f.db.Model(unselected).Update("selected", false).Error)

	result, err := f.svc.PlaceOrder(ctx, userID, PlaceOrderInput{
		RecipientName: "Aly Reyes",
		Address:       "12 Hill St, Quezon City",
	})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, "M", result.Orders[0].Items[0].Size)

	remaining, err := f.cartRepo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, unselected.ID, remaining[0].ID)
}
