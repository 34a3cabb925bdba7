package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/just-aly/tryfit-backend/pkg/db"
	"github.com/just-aly/tryfit-backend/pkg/db/models"
	"github.com/just-aly/tryfit-backend/pkg/enums"
	pkgerrors "github.com/just-aly/tryfit-backend/pkg/errors"
	"github.com/just-aly/tryfit-backend/pkg/logger"
	"github.com/just-aly/tryfit-backend/pkg/outbox"
)

// AddItemInput is the validated payload to add a product to the cart.
type AddItemInput struct {
	ProductID uuid.UUID
	Size      string
	Quantity  int
}

// Service exposes cart management operations.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartItemDTO, error)
	ChangeQuantity(ctx context.Context, userID, itemID uuid.UUID, delta int) (*CartItemDTO, error)
	SetSelected(ctx context.Context, userID, itemID uuid.UUID, selected bool) error
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type notificationWriter interface {
	CreateInTx(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo          *Repository
	dbClient      *db.Client
	products      productReader
	notifications notificationWriter
	events        eventEmitter
	logg          *logger.Logger
	deliveryFee   decimal.Decimal
}

// NewService constructs a cart service instance.
func NewService(
	repo *Repository,
	dbClient *db.Client,
	products productReader,
	notifications notificationWriter,
	events eventEmitter,
	logg *logger.Logger,
	deliveryFee int,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
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
		products:      products,
		notifications: notifications,
		events:        events,
		logg:          logg,
		deliveryFee:   decimal.NewFromInt(int64(deliveryFee)),
	}, nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartItemDTO, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if !sizeOffered(product.Sizes, input.Size) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size not offered for this product")
	}
	available := product.Stock.Qty(input.Size)
	if available == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "selected size is out of stock")
	}
	if input.Quantity > available {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds available stock")
	}

	var line *models.CartItem
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		existing, err := txRepo.FindLine(ctx, userID, product.ID, input.Size)
		switch {
		case err == nil:
			// merge into the existing line instead of duplicating it
			existing.Quantity += input.Quantity
			if err := txRepo.UpdateQuantity(ctx, existing.ID, existing.Quantity); err != nil {
				return err
			}
			line = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			line = &models.CartItem{
				ID:          uuid.New(),
				UserID:      userID,
				ProductID:   product.ID,
				ProductCode: product.ProductCode,
				ProductName: product.Name,
				ImageURL:    product.ImageURL,
				Size:        input.Size,
				Quantity:    input.Quantity,
				UnitPrice:   product.Price,
				Selected:    true,
				Delivery:    product.Delivery,
			}
			if err := txRepo.Create(ctx, line); err != nil {
				return err
			}
		default:
			return err
		}

		notification := &models.Notification{
			ID:      uuid.New(),
			UserID:  userID,
			Type:    enums.NotificationTypeCartAdded,
			Title:   "Added to cart",
			Message: fmt.Sprintf("%s (%s) x%d was added to your cart.", product.Name, input.Size, input.Quantity),
		}
		if err := s.notifications.CreateInTx(ctx, tx, notification); err != nil {
			return err
		}

		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCartItemAdded,
			AggregateType: enums.AggregateCart,
			AggregateID:   line.ID,
			Actor:         &outbox.ActorRef{UserID: userID},
			Version:       1,
			Data: map[string]any{
				"userId":    userID,
				"productId": product.ID,
				"size":      input.Size,
				"quantity":  line.Quantity,
			},
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding cart item")
	}

	dto := toCartItemDTO(*line)
	return &dto, nil
}

func (s *service) ChangeQuantity(ctx context.Context, userID, itemID uuid.UUID, delta int) (*CartItemDTO, error) {
	item, err := s.repo.FindByID(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}

	// quantity never drops below 1; removal is an explicit action
	quantity := item.Quantity + delta
	if quantity < 1 {
		quantity = 1
	}

	if quantity != item.Quantity {
		if err := s.repo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart quantity")
		}
		item.Quantity = quantity
	}

	dto := toCartItemDTO(*item)
	return &dto, nil
}

func (s *service) SetSelected(ctx context.Context, userID, itemID uuid.UUID, selected bool) error {
	item, err := s.repo.FindByID(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}
	if item.Selected == selected {
		return nil
	}
	if err := s.repo.UpdateSelected(ctx, item.ID, selected); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart selection")
	}
	return nil
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, userID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}
	if err := s.repo.Delete(ctx, userID, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
	}
	return nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cart")
	}
	return buildCartView(items, s.deliveryFee), nil
}

func sizeOffered(sizes []string, size string) bool {
	for _, s := range sizes {
		if s == size {
			return true
		}
	}
	return false
}
