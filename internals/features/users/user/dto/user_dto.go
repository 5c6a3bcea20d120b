package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"gigstage_backend/internals/features/users/user/model"
)

type UpdateProfileRequest struct {
	Name         *string   `json:"name" validate:"omitempty,min=2,max=100"`
	Bio          *string   `json:"bio" validate:"omitempty,max=1000"`
	Location     *string   `json:"location" validate:"omitempty,max=255"`
	Skills       *[]string `json:"skills" validate:"omitempty,dive,min=1"`
	ProfileImage *string   `json:"profile_image" validate:"omitempty,max=512"`
}

type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	UserType        string    `json:"user_type"`
	Skills          []string  `json:"skills"`
	Bio             *string   `json:"bio,omitempty"`
	Location        *string   `json:"location,omitempty"`
	ProfileImage    *string   `json:"profile_image,omitempty"`
	Rating          float64   `json:"rating"`
	TotalRatings    int       `json:"total_ratings"`
	EventsAttended  int       `json:"events_attended"`
	EventsOrganized int       `json:"events_organized"`
	IsVerified      bool      `json:"is_verified"`
	IsPremium       bool      `json:"is_premium"`
	CreatedAt       time.Time `json:"created_at"`
}

// UserPreview is the compact shape embedded in event/message payloads.
type UserPreview struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Rating       float64   `json:"rating"`
	IsVerified   bool      `json:"is_verified"`
	ProfileImage *string   `json:"profile_image,omitempty"`
}

func SkillsToJSON(skills []string) datatypes.JSON {
	if skills == nil {
		skills = []string{}
	}
	b, _ := json.Marshal(skills)
	return datatypes.JSON(b)
}

func SkillsFromJSON(raw datatypes.JSON) []string {
	var skills []string
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &skills)
	}
	if skills == nil {
		skills = []string{}
	}
	return skills
}

func ToUserResponse(m *model.UserModel) *UserResponse {
	return &UserResponse{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		UserType:        m.UserType,
		Skills:          SkillsFromJSON(m.Skills),
		Bio:             m.Bio,
		Location:        m.Location,
		ProfileImage:    m.ProfileImage,
		Rating:          m.Rating,
		TotalRatings:    m.TotalRatings,
		EventsAttended:  m.EventsAttended,
		EventsOrganized: m.EventsOrganized,
		IsVerified:      m.IsVerified,
		IsPremium:       m.IsPremium,
		CreatedAt:       m.CreatedAt,
	}
}

func ToUserPreview(m *model.UserModel) *UserPreview {
	if m == nil {
		return nil
	}
	return &UserPreview{
		ID:           m.ID,
		Name:         m.Name,
		Rating:       m.Rating,
		IsVerified:   m.IsVerified,
		ProfileImage: m.ProfileImage,
	}
}

func ToUserResponseList(models []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(models))
	for i := range models {
		out = append(out, *ToUserResponse(&models[i]))
	}
	return out
}
