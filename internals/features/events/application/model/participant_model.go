package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentPending  = "pending"
	PaymentLocked   = "locked"
	PaymentReleased = "released"
	PaymentRefunded = "refunded"
)

// ParticipantModel is the materialized roster row created when an
// application is approved; exactly one per approved application.
type ParticipantModel struct {
	ParticipantID uuid.UUID `gorm:"column:participant_id;type:uuid;primaryKey" json:"participant_id"`
	EventID       uuid.UUID `gorm:"column:event_id;type:uuid;not null;index:idx_participants_event;uniqueIndex:ux_participants_event_user" json:"event_id"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_participants_user;uniqueIndex:ux_participants_event_user" json:"user_id"`

	Role *string `gorm:"column:role;size:100" json:"role,omitempty"`

	PaymentStatus string  `gorm:"column:payment_status;type:varchar(20);not null;default:'pending';index:idx_participants_payment_status" json:"payment_status"`
	PaymentAmount float64 `gorm:"column:payment_amount;not null" json:"payment_amount"`

	AttendanceConfirmed bool `gorm:"column:attendance_confirmed;not null;default:false" json:"attendance_confirmed"`

	JoinedAt time.Time `gorm:"column:joined_at;not null" json:"joined_at"`
}

func (ParticipantModel) TableName() string {
	return "participants"
}

func (p *ParticipantModel) BeforeCreate(tx *gorm.DB) error {
	if p.ParticipantID == uuid.Nil {
		p.ParticipantID = uuid.New()
	}
	return nil
}
