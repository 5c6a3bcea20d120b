package dto

import (
	"time"

	"github.com/google/uuid"

	"gigstage_backend/internals/features/ratings/rating/model"
)

type RateUserRequest struct {
	EventID     uuid.UUID `json:"event_id" validate:"required"`
	RatedUserID uuid.UUID `json:"rated_user_id" validate:"required"`
	Rating      float64   `json:"rating" validate:"required"`
	RatingType  string    `json:"rating_type" validate:"required,oneof=organizer_to_participant participant_to_organizer"`
	Review      *string   `json:"review" validate:"omitempty,max=2000"`
}

type RatingResponse struct {
	RatingID    uuid.UUID `json:"rating_id"`
	EventID     uuid.UUID `json:"event_id"`
	RaterID     uuid.UUID `json:"rater_id"`
	RatedUserID uuid.UUID `json:"rated_user_id"`
	Rating      float64   `json:"rating"`
	Review      *string   `json:"review,omitempty"`
	RatingType  string    `json:"rating_type"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToRatingResponse(m *model.RatingModel) *RatingResponse {
	return &RatingResponse{
		RatingID:    m.RatingID,
		EventID:     m.EventID,
		RaterID:     m.RaterID,
		RatedUserID: m.RatedUserID,
		Rating:      m.Rating,
		Review:      m.Review,
		RatingType:  m.RatingType,
		CreatedAt:   m.CreatedAt,
	}
}

func ToRatingResponseList(models []model.RatingModel) []RatingResponse {
	out := make([]RatingResponse, 0, len(models))
	for i := range models {
		out = append(out, *ToRatingResponse(&models[i]))
	}
	return out
}
