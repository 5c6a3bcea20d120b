package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeApplicationReceived = "application_received"
	TypeApplicationApproved = "application_approved"
	TypeApplicationRejected = "application_rejected"
	TypeEventReminder       = "event_reminder"
	TypePaymentReceived     = "payment_received"
	TypeRatingReceived      = "rating_received"
	TypeNewMessage          = "new_message"
)

// NotificationModel: in-app notification rows emitted by the workflows.
type NotificationModel struct {
	NotificationID uuid.UUID `gorm:"column:notification_id;type:uuid;primaryKey" json:"notification_id"`
	UserID         uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_notifications_user_read,priority:1" json:"user_id"`

	Title   string `gorm:"column:title;size:255;not null" json:"title"`
	Message string `gorm:"column:message;type:text;not null" json:"message"`
	Type    string `gorm:"column:type;type:varchar(40);not null" json:"type"`

	RelatedEventID *uuid.UUID `gorm:"column:related_event_id;type:uuid" json:"related_event_id,omitempty"`
	RelatedUserID  *uuid.UUID `gorm:"column:related_user_id;type:uuid" json:"related_user_id,omitempty"`

	IsRead    bool      `gorm:"column:is_read;not null;default:false;index:idx_notifications_user_read,priority:2" json:"is_read"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func (n *NotificationModel) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return nil
}
