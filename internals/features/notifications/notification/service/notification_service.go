package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gigstage_backend/internals/apperr"
	"gigstage_backend/internals/features/notifications/notification/model"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Notify writes one notification row. Callers treat failures as
// best-effort: a missed notification never fails the owning mutation.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, title, message, ntype string, relatedEventID, relatedUserID *uuid.UUID) error {
	n := &model.NotificationModel{
		UserID:         userID,
		Title:          title,
		Message:        message,
		Type:           ntype,
		RelatedEventID: relatedEventID,
		RelatedUserID:  relatedUserID,
	}
	return s.DB.WithContext(ctx).Create(n).Error
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.NotificationModel, int64, error) {
	if limit <= 0 {
		limit = 20
	}

	var total int64
	if err := s.DB.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.NotificationModel
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	var n model.NotificationModel
	err := s.DB.WithContext(ctx).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("notification not found")
		}
		return err
	}
	return s.DB.WithContext(ctx).Model(&n).UpdateColumn("is_read", true).Error
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := s.DB.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		UpdateColumn("is_read", true)
	return res.RowsAffected, res.Error
}
