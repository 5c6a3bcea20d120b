package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusDraft      = "draft"
	StatusPublished  = "published"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// EventModel is an organizer-owned gig posting. AppliedCount and
// ApprovedCount are denormalized counters kept consistent with the
// applications/participants tables; they are only ever changed through
// atomic SQL increments inside the owning mutation's transaction.
//
// Invariants: approved_count <= required_people (unless the service's
// over-capacity policy is enabled) and applied_count >= approved_count.
type EventModel struct {
	EventID          uuid.UUID `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	EventTitle       string    `gorm:"column:event_title;size:255;not null" json:"event_title"`
	EventDescription string    `gorm:"column:event_description;type:text;not null" json:"event_description"`
	OrganizerID      uuid.UUID `gorm:"column:organizer_id;type:uuid;not null;index:idx_events_organizer" json:"organizer_id"`

	DateTime    time.Time  `gorm:"column:date_time;not null;index:idx_events_date_time" json:"date_time"`
	EndDateTime *time.Time `gorm:"column:end_date_time" json:"end_date_time,omitempty"`
	Location    string     `gorm:"column:location;size:255;not null" json:"location"`
	Latitude    *float64   `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude   *float64   `gorm:"column:longitude" json:"longitude,omitempty"`

	RequiredPeople int `gorm:"column:required_people;not null" json:"required_people"`
	AppliedCount   int `gorm:"column:applied_count;not null;default:0" json:"applied_count"`
	ApprovedCount  int `gorm:"column:approved_count;not null;default:0" json:"approved_count"`

	PaymentPerPerson float64 `gorm:"column:payment_per_person;not null" json:"payment_per_person"`
	PaymentDetails   string  `gorm:"column:payment_details;size:255" json:"payment_details"`

	Category string         `gorm:"column:category;size:100;not null;index:idx_events_category" json:"category"`
	Skills   datatypes.JSON `gorm:"column:skills;type:jsonb" json:"skills"`

	Status             string     `gorm:"column:status;type:varchar(20);not null;default:'published';index:idx_events_status" json:"status"`
	IsHighlighted      bool       `gorm:"column:is_highlighted;not null;default:false;index:idx_events_highlighted" json:"is_highlighted"`
	HighlightExpiresAt *time.Time `gorm:"column:highlight_expires_at" json:"highlight_expires_at,omitempty"`

	ExtraNotes *string `gorm:"column:extra_notes;type:text" json:"extra_notes,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (EventModel) TableName() string {
	return "events"
}

func (e *EventModel) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
