package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ApplicationModel: one participant's request to work an event. The
// composite unique index makes "at most one application per (event, user)"
// hold even under concurrent applies; the service also pre-checks so the
// common case gets a friendly conflict message.
type ApplicationModel struct {
	ApplicationID uuid.UUID `gorm:"column:application_id;type:uuid;primaryKey" json:"application_id"`
	EventID       uuid.UUID `gorm:"column:event_id;type:uuid;not null;index:idx_applications_event;uniqueIndex:ux_applications_event_user" json:"event_id"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_applications_user;uniqueIndex:ux_applications_event_user" json:"user_id"`

	Status string `gorm:"column:status;type:varchar(20);not null;default:'pending';index:idx_applications_status" json:"status"`

	Message        *string `gorm:"column:message;type:text" json:"message,omitempty"`
	OrganizerNotes *string `gorm:"column:organizer_notes;type:text" json:"organizer_notes,omitempty"`

	AppliedAt   time.Time  `gorm:"column:applied_at;not null" json:"applied_at"`
	RespondedAt *time.Time `gorm:"column:responded_at" json:"responded_at,omitempty"`
}

func (ApplicationModel) TableName() string {
	return "applications"
}

func (a *ApplicationModel) BeforeCreate(tx *gorm.DB) error {
	if a.ApplicationID == uuid.Nil {
		a.ApplicationID = uuid.New()
	}
	return nil
}
