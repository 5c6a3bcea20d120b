package dto

import (
	"time"

	"github.com/google/uuid"

	"gigstage_backend/internals/features/events/event/model"
	userDTO "gigstage_backend/internals/features/users/user/dto"
)

type CreateEventRequest struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	DateTime         time.Time  `json:"date_time"`
	EndDateTime      *time.Time `json:"end_date_time"`
	Location         string     `json:"location"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	RequiredPeople   int        `json:"required_people"`
	PaymentPerPerson float64    `json:"payment_per_person"`
	PaymentDetails   string     `json:"payment_details"`
	Category         string     `json:"category"`
	Skills           []string   `json:"skills"`
	ExtraNotes       *string    `json:"extra_notes"`
}

type HighlightEventRequest struct {
	ExpiresAt *time.Time `json:"expires_at"`
}

type EventResponse struct {
	EventID          uuid.UUID            `json:"event_id"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	OrganizerID      uuid.UUID            `json:"organizer_id"`
	Organizer        *userDTO.UserPreview `json:"organizer,omitempty"`
	DateTime         time.Time            `json:"date_time"`
	EndDateTime      *time.Time           `json:"end_date_time,omitempty"`
	Location         string               `json:"location"`
	Latitude         *float64             `json:"latitude,omitempty"`
	Longitude        *float64             `json:"longitude,omitempty"`
	RequiredPeople   int                  `json:"required_people"`
	AppliedCount     int                  `json:"applied_count"`
	ApprovedCount    int                  `json:"approved_count"`
	PaymentPerPerson float64              `json:"payment_per_person"`
	PaymentDetails   string               `json:"payment_details"`
	Category         string               `json:"category"`
	Skills           []string             `json:"skills"`
	Status           string               `json:"status"`
	IsHighlighted    bool                 `json:"is_highlighted"`
	ExtraNotes       *string              `json:"extra_notes,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

func (r *CreateEventRequest) ToModel(organizerID uuid.UUID) *model.EventModel {
	return &model.EventModel{
		EventTitle:       r.Title,
		EventDescription: r.Description,
		OrganizerID:      organizerID,
		DateTime:         r.DateTime,
		EndDateTime:      r.EndDateTime,
		Location:         r.Location,
		Latitude:         r.Latitude,
		Longitude:        r.Longitude,
		RequiredPeople:   r.RequiredPeople,
		PaymentPerPerson: r.PaymentPerPerson,
		PaymentDetails:   r.PaymentDetails,
		Category:         r.Category,
		Skills:           userDTO.SkillsToJSON(r.Skills),
		Status:           model.StatusPublished,
		ExtraNotes:       r.ExtraNotes,
	}
}

func ToEventResponse(m *model.EventModel) *EventResponse {
	return &EventResponse{
		EventID:          m.EventID,
		Title:            m.EventTitle,
		Description:      m.EventDescription,
		OrganizerID:      m.OrganizerID,
		DateTime:         m.DateTime,
		EndDateTime:      m.EndDateTime,
		Location:         m.Location,
		Latitude:         m.Latitude,
		Longitude:        m.Longitude,
		RequiredPeople:   m.RequiredPeople,
		AppliedCount:     m.AppliedCount,
		ApprovedCount:    m.ApprovedCount,
		PaymentPerPerson: m.PaymentPerPerson,
		PaymentDetails:   m.PaymentDetails,
		Category:         m.Category,
		Skills:           userDTO.SkillsFromJSON(m.Skills),
		Status:           m.Status,
		IsHighlighted:    m.IsHighlighted,
		ExtraNotes:       m.ExtraNotes,
		CreatedAt:        m.CreatedAt,
	}
}

func ToEventResponseList(models []model.EventModel) []EventResponse {
	out := make([]EventResponse, 0, len(models))
	for i := range models {
		out = append(out, *ToEventResponse(&models[i]))
	}
	return out
}
