package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"gigstage_backend/internals/features/messages/message/model"
	userDTO "gigstage_backend/internals/features/users/user/dto"
)

type SendMessageRequest struct {
	EventID        uuid.UUID  `json:"event_id" validate:"required"`
	Content        string     `json:"content" validate:"required"`
	MessageType    string     `json:"message_type" validate:"omitempty,oneof=text image location announcement poll"`
	IsAnnouncement bool       `json:"is_announcement"`
	ReplyTo        *uuid.UUID `json:"reply_to"`
	// Poll is only meaningful when message_type is poll.
	Poll *PollPayload `json:"poll"`
}

type PollPayload struct {
	Options []string `json:"options" validate:"required,min=2,dive,min=1"`
}

type VoteRequest struct {
	Option string `json:"option" validate:"required"`
}

type EditMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// ReplyPreview is the quoted fragment shown above a reply.
type ReplyPreview struct {
	MessageID uuid.UUID            `json:"message_id"`
	Content   string               `json:"content"`
	Sender    *userDTO.UserPreview `json:"sender,omitempty"`
}

type MessageResponse struct {
	MessageID      uuid.UUID            `json:"message_id"`
	EventID        uuid.UUID            `json:"event_id"`
	SenderID       uuid.UUID            `json:"sender_id"`
	Sender         *userDTO.UserPreview `json:"sender,omitempty"`
	Content        string               `json:"content"`
	MessageType    string               `json:"message_type"`
	IsAnnouncement bool                 `json:"is_announcement"`
	ReplyTo        *ReplyPreview        `json:"reply_to,omitempty"`
	PollOptions    []string             `json:"poll_options,omitempty"`
	PollVotes      model.PollVotes      `json:"poll_votes,omitempty"`
	SentAt         time.Time            `json:"sent_at"`
	EditedAt       *time.Time           `json:"edited_at,omitempty"`
	IsDeleted      bool                 `json:"is_deleted"`
}

func OptionsToJSON(options []string) datatypes.JSON {
	b, _ := json.Marshal(options)
	return datatypes.JSON(b)
}

func OptionsFromJSON(raw datatypes.JSON) []string {
	var options []string
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &options)
	}
	return options
}

func ToMessageResponse(m *model.MessageModel) *MessageResponse {
	resp := &MessageResponse{
		MessageID:      m.MessageID,
		EventID:        m.EventID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		MessageType:    m.MessageType,
		IsAnnouncement: m.IsAnnouncement,
		SentAt:         m.SentAt,
		EditedAt:       m.EditedAt,
		IsDeleted:      m.IsDeleted,
	}
	if m.MessageType == model.TypePoll {
		resp.PollOptions = OptionsFromJSON(m.PollOptions)
		if m.PollVotes != nil {
			resp.PollVotes = m.PollVotes.Data()
		}
	}
	return resp
}
