package dto

import (
	"time"

	"github.com/google/uuid"

	"gigstage_backend/internals/features/events/application/model"
)

type ApplyRequest struct {
	Message *string `json:"message"`
}

type RespondRequest struct {
	Status         string  `json:"status" validate:"required,oneof=approved rejected"`
	OrganizerNotes *string `json:"organizer_notes"`
}

type ApplicationResponse struct {
	ApplicationID  uuid.UUID  `json:"application_id"`
	EventID        uuid.UUID  `json:"event_id"`
	UserID         uuid.UUID  `json:"user_id"`
	Status         string     `json:"status"`
	Message        *string    `json:"message,omitempty"`
	OrganizerNotes *string    `json:"organizer_notes,omitempty"`
	AppliedAt      time.Time  `json:"applied_at"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`
}

type ParticipantResponse struct {
	ParticipantID       uuid.UUID `json:"participant_id"`
	EventID             uuid.UUID `json:"event_id"`
	UserID              uuid.UUID `json:"user_id"`
	Role                *string   `json:"role,omitempty"`
	PaymentStatus       string    `json:"payment_status"`
	PaymentAmount       float64   `json:"payment_amount"`
	AttendanceConfirmed bool      `json:"attendance_confirmed"`
	JoinedAt            time.Time `json:"joined_at"`
}

func ToApplicationResponse(a *model.ApplicationModel) ApplicationResponse {
	return ApplicationResponse{
		ApplicationID:  a.ApplicationID,
		EventID:        a.EventID,
		UserID:         a.UserID,
		Status:         a.Status,
		Message:        a.Message,
		OrganizerNotes: a.OrganizerNotes,
		AppliedAt:      a.AppliedAt,
		RespondedAt:    a.RespondedAt,
	}
}

func ToParticipantResponse(p *model.ParticipantModel) ParticipantResponse {
	return ParticipantResponse{
		ParticipantID:       p.ParticipantID,
		EventID:             p.EventID,
		UserID:              p.UserID,
		Role:                p.Role,
		PaymentStatus:       p.PaymentStatus,
		PaymentAmount:       p.PaymentAmount,
		AttendanceConfirmed: p.AttendanceConfirmed,
		JoinedAt:            p.JoinedAt,
	}
}

func ToParticipantResponseList(list []model.ParticipantModel) []ParticipantResponse {
	out := make([]ParticipantResponse, 0, len(list))
	for i := range list {
		out = append(out, ToParticipantResponse(&list[i]))
	}
	return out
}
