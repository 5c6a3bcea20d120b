package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gigstage_backend/internals/apperr"
	applicationModel "gigstage_backend/internals/features/events/application/model"
	eventModel "gigstage_backend/internals/features/events/event/model"
	"gigstage_backend/internals/features/messages/message/dto"
	"gigstage_backend/internals/features/messages/message/model"
	userDTO "gigstage_backend/internals/features/users/user/dto"
	userModel "gigstage_backend/internals/features/users/user/model"
)

// editWindow is how long a sender may still edit their own message.
const editWindow = 24 * time.Hour

type MessageService struct {
	DB *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{DB: db}
}

// membership resolves whether userID may talk in eventID's thread: the
// organizer always may, everyone else needs a roster (approved participant)
// row.
func (s *MessageService) membership(ctx context.Context, eventID, userID uuid.UUID) (isOrganizer bool, isMember bool, err error) {
	var ev eventModel.EventModel
	if err := s.DB.WithContext(ctx).First(&ev, "event_id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, false, apperr.NotFound("event not found")
		}
		return false, false, err
	}
	if ev.OrganizerID == userID {
		return true, true, nil
	}

	var count int64
	if err := s.DB.WithContext(ctx).
		Model(&applicationModel.ParticipantModel{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error; err != nil {
		return false, false, err
	}
	return false, count > 0, nil
}

// Send posts a message into an event thread. Announcements from anyone but
// the organizer are quietly downgraded to plain messages; poll messages must
// declare at least two distinct options and non-polls may not carry a poll
// payload.
func (s *MessageService) Send(ctx context.Context, senderID uuid.UUID, req dto.SendMessageRequest) (*model.MessageModel, error) {
	messageType := req.MessageType
	if messageType == "" {
		messageType = model.TypeText
	}
	switch messageType {
	case model.TypeText, model.TypeImage, model.TypeLocation, model.TypeAnnouncement, model.TypePoll:
	default:
		return nil, apperr.ValidationMsg("message_type", "unknown message type")
	}

	isOrganizer, isMember, err := s.membership(ctx, req.EventID, senderID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperr.Authorization("you are not part of this event")
	}

	msg := &model.MessageModel{
		EventID:        req.EventID,
		SenderID:       senderID,
		Content:        req.Content,
		MessageType:    messageType,
		IsAnnouncement: req.IsAnnouncement && isOrganizer,
		SentAt:         time.Now().UTC(),
	}

	if req.ReplyTo != nil {
		var original model.MessageModel
		if err := s.DB.WithContext(ctx).First(&original, "message_id = ?", *req.ReplyTo).Error; err != nil {
			return nil, apperr.ValidationMsg("reply_to", "replied-to message does not exist")
		}
		if original.EventID != req.EventID {
			return nil, apperr.ValidationMsg("reply_to", "cannot reply across events")
		}
		msg.ReplyTo = req.ReplyTo
	}

	if messageType == model.TypePoll {
		if req.Poll == nil || len(req.Poll.Options) < 2 {
			return nil, apperr.ValidationMsg("poll.options", "a poll needs at least two options")
		}
		seen := map[string]bool{}
		for _, opt := range req.Poll.Options {
			if opt == "" {
				return nil, apperr.ValidationMsg("poll.options", "poll options cannot be empty")
			}
			if seen[opt] {
				return nil, apperr.ValidationMsg("poll.options", "poll options must be distinct")
			}
			seen[opt] = true
		}

		votes := model.PollVotes{}
		for _, opt := range req.Poll.Options {
			votes[opt] = []uuid.UUID{}
		}
		msg.PollOptions = dto.OptionsToJSON(req.Poll.Options)
		jt := datatypes.NewJSONType(votes)
		msg.PollVotes = &jt
	} else if req.Poll != nil {
		return nil, apperr.ValidationMsg("poll", "poll payload is only valid on poll messages")
	}

	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// Vote records userID's vote. A user holds at most one active vote per
// poll: the previous one is removed before the new one lands.
func (s *MessageService) Vote(ctx context.Context, userID, messageID uuid.UUID, option string) (*model.MessageModel, error) {
	var msg model.MessageModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&msg, "message_id = ?", messageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("message not found")
			}
			return err
		}
		if msg.MessageType != model.TypePoll || msg.PollVotes == nil {
			return apperr.ValidationMsg("message_id", "message is not a poll")
		}

		_, isMember, err := s.membership(ctx, msg.EventID, userID)
		if err != nil {
			return err
		}
		if !isMember {
			return apperr.Authorization("you are not part of this event")
		}

		votes := msg.PollVotes.Data()
		if _, declared := votes[option]; !declared {
			return apperr.ValidationMsg("option", "option is not part of this poll")
		}

		for opt, voters := range votes {
			kept := voters[:0]
			for _, v := range voters {
				if v != userID {
					kept = append(kept, v)
				}
			}
			votes[opt] = kept
		}
		votes[option] = append(votes[option], userID)

		jt := datatypes.NewJSONType(votes)
		msg.PollVotes = &jt
		return tx.Model(&model.MessageModel{}).
			Where("message_id = ?", messageID).
			Update("poll_votes", &jt).Error
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Edit rewrites a message's content. Sender-only, and only within the edit
// window measured from sentAt.
func (s *MessageService) Edit(ctx context.Context, userID, messageID uuid.UUID, content string) (*model.MessageModel, error) {
	var msg model.MessageModel
	if err := s.DB.WithContext(ctx).First(&msg, "message_id = ?", messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("message not found")
		}
		return nil, err
	}
	if msg.SenderID != userID {
		return nil, apperr.Authorization("you can only edit your own messages")
	}
	if msg.IsDeleted {
		return nil, apperr.Conflict("deleted messages cannot be edited")
	}
	if time.Since(msg.SentAt) > editWindow {
		return nil, apperr.ValidationMsg("message_id", "messages older than 24 hours cannot be edited")
	}

	now := time.Now().UTC()
	if err := s.DB.WithContext(ctx).Model(&msg).Updates(map[string]any{
		"content":   content,
		"edited_at": now,
	}).Error; err != nil {
		return nil, err
	}
	msg.Content = content
	msg.EditedAt = &now
	return &msg, nil
}

// Delete tombstones a message: the content is redacted and the row kept so
// replies pointing at it keep resolving. Allowed for the sender and the
// event's organizer.
func (s *MessageService) Delete(ctx context.Context, userID, messageID uuid.UUID) (*model.MessageModel, error) {
	var msg model.MessageModel
	if err := s.DB.WithContext(ctx).First(&msg, "message_id = ?", messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("message not found")
		}
		return nil, err
	}

	canDelete := msg.SenderID == userID
	if !canDelete {
		var ev eventModel.EventModel
		if err := s.DB.WithContext(ctx).First(&ev, "event_id = ?", msg.EventID).Error; err == nil {
			canDelete = ev.OrganizerID == userID
		}
	}
	if !canDelete {
		return nil, apperr.Authorization("you cannot delete this message")
	}

	if err := s.DB.WithContext(ctx).Model(&msg).Updates(map[string]any{
		"is_deleted": true,
		"content":    model.DeletedPlaceholder,
	}).Error; err != nil {
		return nil, err
	}
	msg.IsDeleted = true
	msg.Content = model.DeletedPlaceholder
	return &msg, nil
}

/* ===============================
   Read side
=================================*/

// ListEventMessages returns the thread in chronological order with sender
// and reply previews, tombstones filtered out.
func (s *MessageService) ListEventMessages(ctx context.Context, eventID uuid.UUID, limit int) ([]dto.MessageResponse, error) {
	if limit <= 0 {
		limit = 50
	}

	var messages []model.MessageModel
	if err := s.DB.WithContext(ctx).
		Where("event_id = ? AND is_deleted = ?", eventID, false).
		Order("sent_at DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}

	out := make([]dto.MessageResponse, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- { // reverse into chronological order
		resp := dto.ToMessageResponse(&messages[i])
		resp.Sender = s.senderPreview(ctx, messages[i].SenderID)

		if messages[i].ReplyTo != nil {
			var original model.MessageModel
			if err := s.DB.WithContext(ctx).First(&original, "message_id = ?", *messages[i].ReplyTo).Error; err == nil {
				resp.ReplyTo = &dto.ReplyPreview{
					MessageID: original.MessageID,
					Content:   original.Content,
					Sender:    s.senderPreview(ctx, original.SenderID),
				}
			}
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *MessageService) Announcements(ctx context.Context, eventID uuid.UUID, limit int) ([]dto.MessageResponse, error) {
	if limit <= 0 {
		limit = 10
	}

	var messages []model.MessageModel
	if err := s.DB.WithContext(ctx).
		Where("event_id = ? AND is_announcement = ? AND is_deleted = ?", eventID, true, false).
		Order("sent_at DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}

	out := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		resp := dto.ToMessageResponse(&messages[i])
		resp.Sender = s.senderPreview(ctx, messages[i].SenderID)
		out = append(out, *resp)
	}
	return out, nil
}

// UnreadCount approximates unread messages as "messages from others in the
// last 24h across the user's events". Real read receipts would need a
// last-read marker per thread.
func (s *MessageService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	eventIDs := []uuid.UUID{}

	var organized []eventModel.EventModel
	if err := s.DB.WithContext(ctx).
		Select("event_id").
		Where("organizer_id = ?", userID).
		Find(&organized).Error; err != nil {
		return 0, err
	}
	for i := range organized {
		eventIDs = append(eventIDs, organized[i].EventID)
	}

	var joined []applicationModel.ParticipantModel
	if err := s.DB.WithContext(ctx).
		Select("event_id").
		Where("user_id = ?", userID).
		Find(&joined).Error; err != nil {
		return 0, err
	}
	for i := range joined {
		eventIDs = append(eventIDs, joined[i].EventID)
	}

	if len(eventIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := s.DB.WithContext(ctx).
		Model(&model.MessageModel{}).
		Where("event_id IN ?", eventIDs).
		Where("sender_id <> ? AND is_deleted = ?", userID, false).
		Where("sent_at > ?", time.Now().UTC().Add(-24*time.Hour)).
		Count(&count).Error
	return count, err
}

func (s *MessageService) senderPreview(ctx context.Context, senderID uuid.UUID) *userDTO.UserPreview {
	var u userModel.UserModel
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", senderID).Error; err != nil {
		return nil
	}
	return userDTO.ToUserPreview(&u)
}
