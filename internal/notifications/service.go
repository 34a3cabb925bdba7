package notifications

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/just-aly/tryfit-backend/pkg/db/models"
	"github.com/just-aly/tryfit-backend/pkg/enums"
	pkgerrors "github.com/just-aly/tryfit-backend/pkg/errors"
	"github.com/just-aly/tryfit-backend/pkg/logger"
	"github.com/just-aly/tryfit-backend/pkg/pagination"
	redispkg "github.com/just-aly/tryfit-backend/pkg/redis"
)

const unreadCacheScope = "notifications:unread"

// NotificationDTO is the read model returned to clients.
type NotificationDTO struct {
	ID        uuid.UUID              `json:"id"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	OrderID   *uuid.UUID             `json:"orderId,omitempty"`
	Read      bool                   `json:"read"`
	ReadAt    *time.Time             `json:"readAt,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// ListResult is a cursor-paginated page of notifications.
type ListResult struct {
	Notifications []NotificationDTO `json:"notifications"`
	NextCursor    string            `json:"nextCursor,omitempty"`
}

// Service exposes notification inbox operations.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	ClearAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

type cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(scope, id string) string
}

type service struct {
	repo      *Repository
	cache     cache
	logg      *logger.Logger
	unreadTTL time.Duration
}

// NewService constructs the notifications service. The cache is optional; a
// nil cache disables the unread-count shortcut.
func NewService(repo *Repository, cacheClient cache, logg *logger.Logger, unreadTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	return &service{
		repo:      repo,
		cache:     cacheClient,
		logg:      logg,
		unreadTTL: unreadTTL,
	}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	rows, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing notifications")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	result := &ListResult{Notifications: make([]NotificationDTO, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		rows = rows[:limit]
	}
	for _, row := range rows {
		result.Notifications = append(result.Notifications, toNotificationDTO(row))
	}
	return result, nil
}

// UnreadCount serves the badge counter, cached briefly to keep polling cheap.
func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, s.cache.CacheKey(unreadCacheScope, userID.String()))
		if err == nil {
			if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return count, nil
			}
		} else if !errors.Is(err, redispkg.Nil) && s.logg != nil {
			s.logg.Warn(ctx, "unread count cache read failed")
		}
	}

	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting unread notifications")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.cache.CacheKey(unreadCacheScope, userID.String()), count, s.unreadTTL); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "unread count cache write failed")
		}
	}
	return count, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	marked, err := s.repo.MarkRead(ctx, userID, notificationID, time.Now())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking notification read")
	}
	if !marked {
		// either missing or already read; distinguish for the client
		if _, err := s.repo.FindByID(ctx, userID, notificationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading notification")
		}
		return nil
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.MarkAllRead(ctx, userID, time.Now())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking notifications read")
	}
	s.invalidateUnread(ctx, userID)
	return count, nil
}

func (s *service) ClearAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.ClearAll(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing notifications")
	}
	s.invalidateUnread(ctx, userID)
	return count, nil
}

func (s *service) invalidateUnread(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.CacheKey(unreadCacheScope, userID.String())); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "unread count cache invalidation failed")
	}
}

func toNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		OrderID:   n.OrderID,
		Read:      n.ReadAt != nil,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
