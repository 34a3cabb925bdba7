package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/just-aly/tryfit-backend/pkg/db"
	"github.com/just-aly/tryfit-backend/pkg/db/models"
	"github.com/just-aly/tryfit-backend/pkg/enums"
	pkgerrors "github.com/just-aly/tryfit-backend/pkg/errors"
	"github.com/just-aly/tryfit-backend/pkg/logger"
	"github.com/just-aly/tryfit-backend/pkg/metrics"
	"github.com/just-aly/tryfit-backend/pkg/outbox"
	"github.com/just-aly/tryfit-backend/pkg/pagination"
)

// Actor identifies who is driving a transition.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// Service exposes the order lifecycle operations.
type Service interface {
	ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderListResult, error)
	ListQueue(ctx context.Context, actor Actor, status enums.OrderStatus, params pagination.Params) (*OrderListResult, error)
	GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDetailDTO, error)
	Cancel(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error)
	MarkPacked(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error)
	MarkShipped(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error)
	MarkReceived(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error)
}

// StockRestorer mutates product stock within the caller's transaction.
type StockRestorer interface {
	RestoreStock(ctx context.Context, productID uuid.UUID, size string, qty int) error
	IncrementSold(ctx context.Context, productID uuid.UUID, qty int) error
}

// StockAccessFunc binds a stock mutator to a transaction.
type StockAccessFunc func(tx *gorm.DB) StockRestorer

type notificationWriter interface {
	CreateInTx(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo          Repository
	dbClient      *db.Client
	stock         StockAccessFunc
	notifications notificationWriter
	events        eventEmitter
	metrics       *metrics.OrderMetrics
	logg          *logger.Logger
}

// NewService constructs an order lifecycle service.
func NewService(
	repo Repository,
	dbClient *db.Client,
	stock StockAccessFunc,
	notifications notificationWriter,
	events eventEmitter,
	orderMetrics *metrics.OrderMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock access required")
	}
	if notifications == nil {
		return nil, fmt.Errorf("notification writer required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{
		repo:          repo,
		dbClient:      dbClient,
		stock:         stock,
		notifications: notifications,
		events:        events,
		metrics:       orderMetrics,
		logg:          logg,
	}, nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderListResult, error) {
	rows, err := s.repo.ListByUser(ctx, userID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return buildListResult(rows, params.Limit), nil
}

func (s *service) ListQueue(ctx context.Context, actor Actor, status enums.OrderStatus, params pagination.Params) (*OrderListResult, error) {
	if actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	rows, err := s.repo.ListByStatus(ctx, status, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing order queue")
	}
	return buildListResult(rows, params.Limit), nil
}

func (s *service) GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDetailDTO, error) {
	order, err := s.repo.FindDetail(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order.UserID != actor.UserID && actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	detail := toOrderDetailDTO(*order)
	return &detail, nil
}

// transitionSpec drives the shared conditional-update flow.
type transitionSpec struct {
	from             enums.OrderStatus
	to               enums.OrderStatus
	stampColumn      string
	adminOnly        bool
	ownerOnly        bool
	notificationType enums.NotificationType
	notificationMsg  string
	eventType        enums.OutboxEventType
	sideEffects      func(ctx context.Context, tx *gorm.DB, order *models.Order) error
}

func (s *service) Cancel(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error) {
	return s.applyTransition(ctx, actor, orderID, transitionSpec{
		from:             enums.OrderStatusPending,
		to:               enums.OrderStatusCancelled,
		stampColumn:      "cancelled_at",
		ownerOnly:        true,
		notificationType: enums.NotificationTypeOrderCancelled,
		notificationMsg:  "Your order %s has been cancelled and stock was returned.",
		eventType:        enums.EventOrderCancelled,
		sideEffects:      s.restoreStockForOrder,
	})
}

func (s *service) MarkPacked(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error) {
	return s.applyTransition(ctx, actor, orderID, transitionSpec{
		from:             enums.OrderStatusPending,
		to:               enums.OrderStatusToShip,
		stampColumn:      "packed_at",
		adminOnly:        true,
		notificationType: enums.NotificationTypeOrderPacked,
		notificationMsg:  "Your order %s has been packed and is ready to ship.",
		eventType:        enums.EventOrderPacked,
	})
}

func (s *service) MarkShipped(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error) {
	return s.applyTransition(ctx, actor, orderID, transitionSpec{
		from:             enums.OrderStatusToShip,
		to:               enums.OrderStatusToReceive,
		stampColumn:      "shipped_at",
		adminOnly:        true,
		notificationType: enums.NotificationTypeOrderShipped,
		notificationMsg:  "Your order %s is on its way.",
		eventType:        enums.EventOrderShipped,
	})
}

func (s *service) MarkReceived(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error) {
	return s.applyTransition(ctx, actor, orderID, transitionSpec{
		from:             enums.OrderStatusToReceive,
		to:               enums.OrderStatusCompleted,
		stampColumn:      "received_at",
		ownerOnly:        true,
		notificationType: enums.NotificationTypeOrderReceived,
		notificationMsg:  "Your order %s was delivered. Thanks for shopping!",
		eventType:        enums.EventOrderReceived,
		sideEffects:      s.recordSales,
	})
}

func (s *service) applyTransition(ctx context.Context, actor Actor, orderID uuid.UUID, spec transitionSpec) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	if spec.adminOnly && actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	if spec.ownerOnly && order.UserID != actor.UserID && actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	if order.Status != spec.from {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is %s, expected %s", order.Status, spec.from))
	}

	now := time.Now()
	actorID := actor.UserID

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		moved, err := txRepo.UpdateStatusIf(ctx, order.ID, spec.from, spec.to, map[string]any{
			spec.stampColumn: now,
		})
		if err != nil {
			return err
		}
		if !moved {
			// another session won the transition
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order was transitioned concurrently")
		}

		if err := txRepo.CreateTransition(ctx, &models.OrderTransition{
			ID:         uuid.New(),
			OrderID:    order.ID,
			FromStatus: spec.from,
			ToStatus:   spec.to,
			ActorID:    &actorID,
			OccurredAt: now,
		}); err != nil {
			return err
		}

		if spec.sideEffects != nil {
			if err := spec.sideEffects(ctx, tx, order); err != nil {
				return err
			}
		}

		orderRef := order.ID
		if err := s.notifications.CreateInTx(ctx, tx, &models.Notification{
			ID:      uuid.New(),
			UserID:  order.UserID,
			Type:    spec.notificationType,
			Title:   notificationTitle(spec.to),
			Message: fmt.Sprintf(spec.notificationMsg, order.OrderNumber),
			OrderID: &orderRef,
		}); err != nil {
			return err
		}

		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     spec.eventType,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: actor.UserID, Role: actor.Role.String()},
			Version:       1,
			Data: map[string]any{
				"orderId":     order.ID,
				"orderNumber": order.OrderNumber,
				"fromStatus":  spec.from,
				"toStatus":    spec.to,
			},
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "applying order transition")
	}

	s.metrics.IncTransition(spec.to.String())

	updated, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading order")
	}
	dto := ToOrderDTO(*updated)
	return &dto, nil
}

// restoreStockForOrder returns each line's quantity to product stock. Lines
// whose product left the catalog are skipped, not failed.
func (s *service) restoreStockForOrder(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	txStock := s.stock(tx)
	for _, item := range order.Items {
		if item.ProductID == nil {
			continue
		}
		if err := txStock.RestoreStock(ctx, *item.ProductID, item.Size, item.Quantity); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if s.logg != nil {
					logCtx := s.logg.WithOrderID(ctx, order.ID.String())
					s.logg.Warn(logCtx, "skipping stock restore for missing product")
				}
				continue
			}
			return err
		}
	}
	return nil
}

// recordSales moves the received quantities into the sold counters.
func (s *service) recordSales(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	txStock := s.stock(tx)
	for _, item := range order.Items {
		if item.ProductID == nil {
			continue
		}
		if err := txStock.IncrementSold(ctx, *item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}
	}
	return nil
}

func notificationTitle(status enums.OrderStatus) string {
	switch status {
	case enums.OrderStatusToShip:
		return "Order packed"
	case enums.OrderStatusToReceive:
		return "Order shipped"
	case enums.OrderStatusCompleted:
		return "Order delivered"
	case enums.OrderStatusCancelled:
		return "Order cancelled"
	default:
		return "Order update"
	}
}

func buildListResult(rows []models.Order, limit int) *OrderListResult {
	normalized := pagination.NormalizeLimit(limit)
	result := &OrderListResult{Orders: make([]OrderDTO, 0, len(rows))}
	if len(rows) > normalized {
		last := rows[normalized-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		rows = rows[:normalized]
	}
	for _, row := range rows {
		result.Orders = append(result.Orders, ToOrderDTO(row))
	}
	return result
}
