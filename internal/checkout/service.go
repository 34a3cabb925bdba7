package checkout

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	cartpkg "github.com/just-aly/tryfit-backend/internal/cart"
	"github.com/just-aly/tryfit-backend/internal/checkout/helpers"
	"github.com/just-aly/tryfit-backend/internal/orders"
	product "github.com/just-aly/tryfit-backend/internal/products"
	"github.com/just-aly/tryfit-backend/pkg/db"
	"github.com/just-aly/tryfit-backend/pkg/db/models"
	"github.com/just-aly/tryfit-backend/pkg/enums"
	pkgerrors "github.com/just-aly/tryfit-backend/pkg/errors"
	"github.com/just-aly/tryfit-backend/pkg/logger"
	"github.com/just-aly/tryfit-backend/pkg/metrics"
	"github.com/just-aly/tryfit-backend/pkg/outbox"
)

// PlaceOrderInput is the validated shipping payload confirming a checkout.
type PlaceOrderInput struct {
	RecipientName string
	Address       string
}

// PlaceOrderResult reports the orders created from one checkout.
type PlaceOrderResult struct {
	Orders []orders.OrderDTO `json:"orders"`
}

// Service converts a cart selection into orders.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*PlaceOrderResult, error)
}

type notificationWriter interface {
	CreateInTx(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	dbClient      *db.Client
	cartRepo      *cartpkg.Repository
	productRepo   *product.Repository
	orderRepo     orders.Repository
	notifications notificationWriter
	events        eventEmitter
	metrics       *metrics.OrderMetrics
	logg          *logger.Logger
	deliveryFee   decimal.Decimal
}

// NewService constructs the checkout service.
func NewService(
	dbClient *db.Client,
	cartRepo *cartpkg.Repository,
	productRepo *product.Repository,
	orderRepo orders.Repository,
	notifications notificationWriter,
	events eventEmitter,
	orderMetrics *metrics.OrderMetrics,
	logg *logger.Logger,
	deliveryFee int,
) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if notifications == nil {
		return nil, fmt.Errorf("notification writer required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{
		dbClient:      dbClient,
		cartRepo:      cartRepo,
		productRepo:   productRepo,
		orderRepo:     orderRepo,
		notifications: notifications,
		events:        events,
		metrics:       orderMetrics,
		logg:          logg,
		deliveryFee:   decimal.NewFromInt(int64(deliveryFee)),
	}, nil
}

// PlaceOrder groups the selected cart lines by (product, size) and creates one
// order per group inside a single transaction: stock is decremented (floored
// at zero), the order and its journal-backed notification and event are
// written, and the ordered lines leave the cart.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*PlaceOrderResult, error) {
	recipient := strings.TrimSpace(input.RecipientName)
	address := strings.TrimSpace(input.Address)
	if recipient == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient name is required")
	}
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}

	var created []models.Order

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txCart := s.cartRepo.WithTx(tx)
		txProducts := s.productRepo.WithTx(tx)
		txOrders := s.orderRepo.WithTx(tx)

		lines, err := txCart.ListSelected(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "no cart lines selected for checkout")
		}

		groups := helpers.GroupLines(toCheckoutLines(lines))
		orderedCartIDs := make([]uuid.UUID, 0, len(lines))

		for _, group := range groups {
			if _, err := txProducts.DecrementStock(ctx, group.ProductID, group.Size, group.Quantity); err != nil {
				return err
			}

			subtotal := group.Subtotal()
			productID := group.ProductID
			order := &models.Order{
				ID:            uuid.New(),
				OrderNumber:   newOrderNumber(),
				UserID:        userID,
				RecipientName: recipient,
				Address:       address,
				Status:        enums.OrderStatusPending,
				Subtotal:      subtotal,
				DeliveryFee:   s.deliveryFee,
				Total:         subtotal.Add(s.deliveryFee),
				Items: []models.OrderItem{{
					ID:          uuid.New(),
					ProductID:   &productID,
					ProductName: group.ProductName,
					Size:        group.Size,
					Quantity:    group.Quantity,
					UnitPrice:   group.UnitPrice,
					ImageURL:    group.ImageURL,
				}},
			}
			if _, err := txOrders.CreateOrder(ctx, order); err != nil {
				return err
			}

			orderRef := order.ID
			if err := s.notifications.CreateInTx(ctx, tx, &models.Notification{
				ID:      uuid.New(),
				UserID:  userID,
				Type:    enums.NotificationTypeOrderPlaced,
				Title:   "Order placed",
				Message: fmt.Sprintf("Order %s was placed successfully.", order.OrderNumber),
				OrderID: &orderRef,
			}); err != nil {
				return err
			}

			if err := s.events.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventOrderPlaced,
				AggregateType: enums.AggregateOrder,
				AggregateID:   order.ID,
				Actor:         &outbox.ActorRef{UserID: userID},
				Version:       1,
				Data: map[string]any{
					"orderId":     order.ID,
					"orderNumber": order.OrderNumber,
					"productId":   group.ProductID,
					"size":        group.Size,
					"quantity":    group.Quantity,
					"total":       order.Total,
				},
			}); err != nil {
				return err
			}

			created = append(created, *order)
			orderedCartIDs = append(orderedCartIDs, group.CartItemIDs...)
		}

		return txCart.DeleteByIDs(ctx, orderedCartIDs)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "placing order")
	}

	for range created {
		s.metrics.IncPlacement()
	}
	if s.logg != nil {
		logCtx := s.logg.WithUserID(ctx, userID.String())
		logCtx = s.logg.WithField(logCtx, "orders_created", len(created))
		s.logg.Info(logCtx, "checkout confirmed")
	}

	result := &PlaceOrderResult{Orders: make([]orders.OrderDTO, 0, len(created))}
	for _, order := range created {
		result.Orders = append(result.Orders, orders.ToOrderDTO(order))
	}
	return result, nil
}

func toCheckoutLines(items []models.CartItem) []helpers.Line {
	lines := make([]helpers.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, helpers.Line{
			CartItemID:  item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ImageURL:    item.ImageURL,
			Size:        item.Size,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Delivery:    item.Delivery,
		})
	}
	return lines
}

// newOrderNumber builds the human-facing order id, e.g. ORD-1722600000000-483920.
func newOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%06d", time.Now().UnixMilli(), rand.IntN(1_000_000))
}
