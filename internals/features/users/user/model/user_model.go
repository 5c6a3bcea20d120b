package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	UserTypeOrganizer   = "organizer"
	UserTypeParticipant = "participant"
	UserTypeBoth        = "both"
)

// UserModel is the users table: both organizers and gig workers. Rating is a
// running average over the ratings table; TotalRatings is the matching count.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"size:20;index" json:"phone"`
	Password     string    `gorm:"not null" json:"-"`
	UserType     string    `gorm:"type:varchar(20);not null;default:'participant';index" json:"user_type"`
	Skills       datatypes.JSON `gorm:"type:jsonb" json:"skills"`
	Bio          *string   `gorm:"type:text" json:"bio,omitempty"`
	Location     *string   `gorm:"size:255" json:"location,omitempty"`
	ProfileImage *string   `gorm:"size:512" json:"profile_image,omitempty"`

	Rating          float64 `gorm:"not null;default:5;index" json:"rating"`
	TotalRatings    int     `gorm:"not null;default:0" json:"total_ratings"`
	EventsAttended  int     `gorm:"not null;default:0" json:"events_attended"`
	EventsOrganized int     `gorm:"not null;default:0" json:"events_organized"`

	IsVerified       bool       `gorm:"not null;default:false" json:"is_verified"`
	IsPremium        bool       `gorm:"not null;default:false" json:"is_premium"`
	PremiumExpiresAt *time.Time `json:"premium_expires_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
