package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TypeText         = "text"
	TypeImage        = "image"
	TypeLocation     = "location"
	TypeAnnouncement = "announcement"
	TypePoll         = "poll"
)

// DeletedPlaceholder replaces the content of tombstoned messages; the row
// itself stays so reply_to references keep resolving.
const DeletedPlaceholder = "This message was deleted"

// PollVotes maps each declared option to the ids of the users currently
// voting for it. A user appears in at most one option's slice; voting again
// moves the vote.
type PollVotes map[string][]uuid.UUID

// MessageModel: per-event chat. The message_type column plus the two poll
// columns act as a tagged union; the service layer rejects rows that would
// mix variants (poll payload on a non-poll, poll without options).
type MessageModel struct {
	MessageID uuid.UUID `gorm:"column:message_id;type:uuid;primaryKey" json:"message_id"`
	EventID   uuid.UUID `gorm:"column:event_id;type:uuid;not null;index:idx_messages_event_time,priority:1" json:"event_id"`
	SenderID  uuid.UUID `gorm:"column:sender_id;type:uuid;not null;index:idx_messages_sender" json:"sender_id"`

	Content     string `gorm:"column:content;type:text;not null" json:"content"`
	MessageType string `gorm:"column:message_type;type:varchar(20);not null;default:'text'" json:"message_type"`

	IsAnnouncement bool       `gorm:"column:is_announcement;not null;default:false" json:"is_announcement"`
	ReplyTo        *uuid.UUID `gorm:"column:reply_to;type:uuid" json:"reply_to,omitempty"`

	PollOptions datatypes.JSON                 `gorm:"column:poll_options;type:jsonb" json:"poll_options,omitempty"`
	PollVotes   *datatypes.JSONType[PollVotes] `gorm:"column:poll_votes;type:jsonb" json:"poll_votes,omitempty"`

	SentAt    time.Time  `gorm:"column:sent_at;not null;index:idx_messages_event_time,priority:2" json:"sent_at"`
	EditedAt  *time.Time `gorm:"column:edited_at" json:"edited_at,omitempty"`
	IsDeleted bool       `gorm:"column:is_deleted;not null;default:false" json:"is_deleted"`
}

func (MessageModel) TableName() string {
	return "messages"
}

func (m *MessageModel) BeforeCreate(tx *gorm.DB) error {
	if m.MessageID == uuid.Nil {
		m.MessageID = uuid.New()
	}
	return nil
}
