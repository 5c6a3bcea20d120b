package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeOrganizerToParticipant = "organizer_to_participant"
	TypeParticipantToOrganizer = "participant_to_organizer"

	MinRating = 1
	MaxRating = 5
)

// RatingModel: one immutable rating per (event, rater, rated user) triple.
// The composite unique index backs the duplicate-rating conflict.
type RatingModel struct {
	RatingID    uuid.UUID `gorm:"column:rating_id;type:uuid;primaryKey" json:"rating_id"`
	EventID     uuid.UUID `gorm:"column:event_id;type:uuid;not null;index:idx_ratings_event;uniqueIndex:ux_ratings_event_rater_rated" json:"event_id"`
	RaterID     uuid.UUID `gorm:"column:rater_id;type:uuid;not null;index:idx_ratings_rater;uniqueIndex:ux_ratings_event_rater_rated" json:"rater_id"`
	RatedUserID uuid.UUID `gorm:"column:rated_user_id;type:uuid;not null;index:idx_ratings_rated_user;uniqueIndex:ux_ratings_event_rater_rated" json:"rated_user_id"`

	Rating     float64 `gorm:"column:rating;not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Review     *string `gorm:"column:review;type:text" json:"review,omitempty"`
	RatingType string  `gorm:"column:rating_type;type:varchar(40);not null" json:"rating_type"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RatingModel) TableName() string {
	return "ratings"
}

func (r *RatingModel) BeforeCreate(tx *gorm.DB) error {
	if r.RatingID == uuid.Nil {
		r.RatingID = uuid.New()
	}
	return nil
}
