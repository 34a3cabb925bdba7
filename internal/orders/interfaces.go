package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/just-aly/tryfit-backend/pkg/db/models"
	"github.com/just-aly/tryfit-backend/pkg/enums"
	"github.com/just-aly/tryfit-backend/pkg/pagination"
)

// ListFilters narrows order listings by lifecycle stage.
type ListFilters struct {
	Status *enums.OrderStatus
}

// Repository defines persistence operations for orders and their journal.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateTransition(ctx context.Context, transition *models.OrderTransition) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindDetail(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Order, error)
	ListByStatus(ctx context.Context, status enums.OrderStatus, params pagination.Params) ([]models.Order, error)
	// UpdateStatusIf flips status only when the current value still matches
	// from, reporting whether the row moved. Concurrent transitions lose.
	UpdateStatusIf(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, updates map[string]any) (bool, error)
}
