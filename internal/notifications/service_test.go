package notifications

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/just-aly/tryfit-backend/pkg/db/models"
	"github.com/just-aly/tryfit-backend/pkg/enums"
	pkgerrors "github.com/just-aly/tryfit-backend/pkg/errors"
	"github.com/just-aly/tryfit-backend/pkg/pagination"
	redispkg "github.com/just-aly/tryfit-backend/pkg/redis"
)

type fakeCache struct {
	values map[string]string
	sets   int
	dels   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", redispkg.Nil
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.sets++
	f.values[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	f.dels++
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeCache) CacheKey(scope, id string) string {
	return "tryfit:" + scope + ":" + id
}

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL DEFAULT '',
  order_id TEXT,
  read_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedNotification(t *testing.T, db *gorm.DB, userID uuid.UUID, createdAt time.Time, read bool) *models.Notification {
	t.Helper()

	n := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      enums.NotificationTypeOrderPlaced,
		Title:     "Order placed",
		Message:   "Order ORD-1-000001 was placed successfully.",
		CreatedAt: createdAt,
	}
	if read {
		at := createdAt.Add(time.Minute)
		n.ReadAt = &at
	}
	require.NoError(t, db.Create(n).Error)
	return n
}

func TestListNewestFirstWithCursor(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc, err := NewService(NewRepository(db), nil, nil, time.Second)
	require.NoError(t, err)
	ctx := context.Background()
	userID := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		seedNotification(t, db, userID, base.Add(time.Duration(i)*time.Minute), false)
	}

	page, err := svc.List(ctx, userID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Notifications, 2)
	require.NotEmpty(t, page.NextCursor)
	assert.True(t, page.Notifications[0].CreatedAt.After(page.Notifications[1].CreatedAt))

	rest, err := svc.List(ctx, userID, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest.Notifications, 1)
	assert.Empty(t, rest.NextCursor)
}

func TestUnreadCountUsesCache(t *testing.T) {
	db := setupNotificationsTestDB(t)
	cache := newFakeCache()
	svc, err := NewService(NewRepository(db), cache, nil, 30*time.Second)
	require.NoError(t, err)
	ctx := context.Background()
	userID := uuid.New()

	seedNotification(t, db, userID, time.Now(), false)
	seedNotification(t, db, userID, time.Now(), false)
	seedNotification(t, db, userID, time.Now(), true)

	count, err := svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Equal(t, 1, cache.sets)

	// second read is served from the cache
	cache.values[cache.CacheKey(unreadCacheScope, userID.String())] = "7"
	count, err = svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 7, count)
}

func TestMarkReadInvalidatesCache(t *testing.T) {
	db := setupNotificationsTestDB(t)
	cache := newFakeCache()
	svc, err := NewService(NewRepository(db), cache, nil, 30*time.Second)
	require.NoError(t, err)
	ctx := context.Background()
	userID := uuid.New()

	n := seedNotification(t, db, userID, time.Now(), false)

	require.NoError(t, svc.MarkRead(ctx, userID, n.ID))
	assert.Equal(t, 1, cache.dels)

	// idempotent: already-read notification is not an error
	require.NoError(t, svc.MarkRead(ctx, userID, n.ID))

	err = svc.MarkRead(ctx, userID, uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestMarkAllReadAndClearAll(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc, err := NewService(NewRepository(db), nil, nil, time.Second)
	require.NoError(t, err)
	ctx := context.Background()
	userID := uuid.New()

	seedNotification(t, db, userID, time.Now(), false)
	seedNotification(t, db, userID, time.Now(), false)
	seedNotification(t, db, uuid.New(), time.Now(), false)

	marked, err := svc.MarkAllRead(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, marked)

	count, err := svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, count)

	cleared, err := svc.ClearAll(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cleared)

	page, err := svc.List(ctx, userID, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, page.Notifications)
}

func TestDeleteOlderThanPrunesReadOnly(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	old := time.Now().Add(-40 * 24 * time.Hour)
	seedNotification(t, db, userID, old, true)
	seedNotification(t, db, userID, old, false)
	seedNotification(t, db, userID, time.Now(), true)

	removed, err := repo.DeleteOlderThan(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	count, err := repo.CountUnread(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
