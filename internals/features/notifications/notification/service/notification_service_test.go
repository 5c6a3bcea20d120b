package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gigstage_backend/internals/apperr"
	database "gigstage_backend/internals/databases"
	"gigstage_backend/internals/features/notifications/notification/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func TestNotifyAndList(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewNotificationService(db)
	userID := uuid.New()

	require.NoError(t, svc.Notify(ctx, userID, "Application approved", "You are on the crew", model.TypeApplicationApproved, nil, nil))
	require.NoError(t, svc.Notify(ctx, userID, "New rating received", "Someone rated you", model.TypeRatingReceived, nil, nil))
	require.NoError(t, svc.Notify(ctx, uuid.New(), "Other user's", "not yours", model.TypeNewMessage, nil, nil))

	items, total, err := svc.List(ctx, userID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)
}

func TestMarkReadOwnershipEnforced(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewNotificationService(db)

	owner := uuid.New()
	stranger := uuid.New()
	require.NoError(t, svc.Notify(ctx, owner, "hi", "body", model.TypeNewMessage, nil, nil))

	var n model.NotificationModel
	require.NoError(t, db.First(&n, "user_id = ?", owner).Error)

	// someone else's id: indistinguishable from a missing notification
	err := svc.MarkRead(ctx, stranger, n.NotificationID)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	require.NoError(t, svc.MarkRead(ctx, owner, n.NotificationID))

	count, err := svc.UnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestMarkAllRead(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewNotificationService(db)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Notify(ctx, userID, "n", "body", model.TypeEventReminder, nil, nil))
	}

	count, err := svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	updated, err := svc.MarkAllRead(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, updated)

	count, err = svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// idempotent second pass touches nothing
	updated, err = svc.MarkAllRead(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, updated)
}
