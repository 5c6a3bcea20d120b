package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gigstage_backend/internals/apperr"
	database "gigstage_backend/internals/databases"
	applicationModel "gigstage_backend/internals/features/events/application/model"
	eventModel "gigstage_backend/internals/features/events/event/model"
	"gigstage_backend/internals/features/messages/message/dto"
	"gigstage_backend/internals/features/messages/message/model"
	userModel "gigstage_backend/internals/features/users/user/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

type chatFixture struct {
	organizer *userModel.UserModel
	member    *userModel.UserModel
	outsider  *userModel.UserModel
	event     *eventModel.EventModel
}

func newChatFixture(t *testing.T, db *gorm.DB) chatFixture {
	t.Helper()
	mkUser := func(name string) *userModel.UserModel {
		u := &userModel.UserModel{
			Name:     name,
			Email:    name + "@example.com",
			Phone:    "0800000000",
			Password: "x",
			UserType: userModel.UserTypeBoth,
			Rating:   5.0,
		}
		require.NoError(t, db.Create(u).Error)
		return u
	}

	f := chatFixture{
		organizer: mkUser("organizer"),
		member:    mkUser("member"),
		outsider:  mkUser("outsider"),
	}

	f.event = &eventModel.EventModel{
		EventTitle:       "Street festival",
		EventDescription: "Setup crew",
		OrganizerID:      f.organizer.ID,
		DateTime:         time.Now().Add(24 * time.Hour),
		Location:         "Yogyakarta",
		RequiredPeople:   2,
		PaymentPerPerson: 250,
		Category:         "crew",
		Status:           eventModel.StatusPublished,
	}
	require.NoError(t, db.Create(f.event).Error)

	p := &applicationModel.ParticipantModel{
		EventID:       f.event.EventID,
		UserID:        f.member.ID,
		PaymentStatus: applicationModel.PaymentPending,
		PaymentAmount: 250,
		JoinedAt:      time.Now().UTC(),
	}
	require.NoError(t, db.Create(p).Error)
	return f
}

func TestSendNonMemberRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	f := newChatFixture(t, db)

	_, err := svc.Send(context.Background(), f.outsider.ID, dto.SendMessageRequest{
		EventID: f.event.EventID,
		Content: "let me in",
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeAuthorization))

	var rows int64
	require.NoError(t, db.Model(&model.MessageModel{}).Count(&rows).Error)
	assert.EqualValues(t, 0, rows)
}

func TestAnnouncementDowngradeForNonOrganizer(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewMessageService(db)
	f := newChatFixture(t, db)

	fromMember, err := svc.Send(ctx, f.member.ID, dto.SendMessageRequest{
		EventID:        f.event.EventID,
		Content:        "big news",
		IsAnnouncement: true,
	})
	require.NoError(t, err)
	assert.False(t, fromMember.IsAnnouncement) // silently downgraded

	fromOrganizer, err := svc.Send(ctx, f.organizer.ID, dto.SendMessageRequest{
		EventID:        f.event.EventID,
		Content:        "call time moved to 7",
		IsAnnouncement: true,
	})
	require.NoError(t, err)
	assert.True(t, fromOrganizer.IsAnnouncement)

	announcements, err := svc.Announcements(ctx, f.event.EventID, 10)
	require.NoError(t, err)
	require.Len(t, announcements, 1)
	assert.Equal(t, fromOrganizer.MessageID, announcements[0].MessageID)
}

func TestPollVoteReplacement(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewMessageService(db)
	f := newChatFixture(t, db)

	poll, err := svc.Send(ctx, f.organizer.ID, dto.SendMessageRequest{
		EventID:     f.event.EventID,
		Content:     "Which shift?",
		MessageType: model.TypePoll,
		Poll:        &dto.PollPayload{Options: []string{"morning", "evening"}},
	})
	require.NoError(t, err)

	_, err = svc.Vote(ctx, f.member.ID, poll.MessageID, "morning")
	require.NoError(t, err)

	voted, err := svc.Vote(ctx, f.member.ID, poll.MessageID, "evening")
	require.NoError(t, err)

	votes := voted.PollVotes.Data()
	assert.Empty(t, votes["morning"])
	require.Len(t, votes["evening"], 1)
	assert.Equal(t, f.member.ID, votes["evening"][0])
}

func TestVoteUndeclaredOption(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewMessageService(db)
	f := newChatFixture(t, db)

	poll, err := svc.Send(ctx, f.organizer.ID, dto.SendMessageRequest{
		EventID:     f.event.EventID,
		Content:     "Which shift?",
		MessageType: model.TypePoll,
		Poll:        &dto.PollPayload{Options: []string{"morning", "evening"}},
	})
	require.NoError(t, err)

	_, err = svc.Vote(ctx, f.member.ID, poll.MessageID, "night")
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestVoteOnNonPoll(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewMessageService(db)
	f := newChatFixture(t, db)

	msg, err := svc.Send(ctx, f.member.ID, dto.SendMessageRequest{
		EventID: f.event.EventID,
		Content: "hello",
	})
	require.NoError(t, err)

	_, err = svc.Vote(ctx, f.member.ID, msg.MessageID, "yes")
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestPollPayloadValidation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewMessageService(db)
	f := newChatFixture(t, db)

	// fewer than two options
	_, err := svc.Send(ctx, f.organizer.ID, dto.SendMessageRequest{
		EventID:     f.event.EventID,
		Content:     "poll",
		MessageType: model.TypePoll,
		Poll:        &dto.PollPayload{Options: []string{"only"}},
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	// duplicate options
	_, err = svc.Send(ctx, f.organizer.ID, dto.SendMessageRequest{
		EventID:     f.event.EventID,
		Content:     "poll",
		MessageType: model.TypePoll,
		Poll:        &dto.PollPayload{Options: []string{"a", "a"}},
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	// poll payload on a plain text message
	_, err = svc.Send(ctx, f.organizer.ID, dto.SendMessageRequest{
		EventID: f.event.EventID,
		Content: "not a poll",
		Poll:    &dto.PollPayload{Options: []string{"a", "b"}},
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestEditWithinWindowOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewMessageService(db)
	f := newChatFixture(t, db)

	msg, err := svc.Send(ctx, f.member.ID, dto.SendMessageRequest{
		EventID: f.event.EventID,
		Content: "draft",
	})
	require.NoError(t, err)

	edited, err := svc.Edit(ctx, f.member.ID, msg.MessageID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", edited.Content)
	assert.NotNil(t, edited.EditedAt)

	// age the message past the window
	stale := time.Now().UTC().Add(-25 * time.Hour)
	require.NoError(t, db.Model(&model.MessageModel{}).
		Where("message_id = ?", msg.MessageID).
		Update("sent_at", stale).Error)

	_, err = svc.Edit(ctx, f.member.ID, msg.MessageID, "too late")
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestEditOnlyBySender(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewMessageService(db)
	f := newChatFixture(t, db)

	msg, err := svc.Send(ctx, f.member.ID, dto.SendMessageRequest{
		EventID: f.event.EventID,
		Content: "mine",
	})
	require.NoError(t, err)

	// even the organizer cannot edit someone else's message
	_, err = svc.Edit(ctx, f.organizer.ID, msg.MessageID, "hijacked")
	assert.True(t, apperr.IsCode(err, apperr.CodeAuthorization))
}

func TestDeleteTombstones(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewMessageService(db)
	f := newChatFixture(t, db)

	msg, err := svc.Send(ctx, f.member.ID, dto.SendMessageRequest{
		EventID: f.event.EventID,
		Content: "oops",
	})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, f.member.ID, msg.MessageID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	assert.Equal(t, model.DeletedPlaceholder, deleted.Content)

	// the row survives as a tombstone
	var got model.MessageModel
	require.NoError(t, db.First(&got, "message_id = ?", msg.MessageID).Error)
	assert.True(t, got.IsDeleted)

	// but the thread listing filters it out
	list, err := svc.ListEventMessages(ctx, f.event.EventID, 50)
	require.NoError(t, err)
	assert.Empty(t, list)

	// deleted messages cannot be edited
	_, err = svc.Edit(ctx, f.member.ID, msg.MessageID, "revive")
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
}

func TestOrganizerMayDeleteOthersMessages(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewMessageService(db)
	f := newChatFixture(t, db)

	msg, err := svc.Send(ctx, f.member.ID, dto.SendMessageRequest{
		EventID: f.event.EventID,
		Content: "spam",
	})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, f.outsider.ID, msg.MessageID)
	assert.True(t, apperr.IsCode(err, apperr.CodeAuthorization))

	deleted, err := svc.Delete(ctx, f.organizer.ID, msg.MessageID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
}

func TestReplyMustStayInEvent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewMessageService(db)
	f := newChatFixture(t, db)

	other := &eventModel.EventModel{
		EventTitle:       "Other event",
		EventDescription: "elsewhere",
		OrganizerID:      f.organizer.ID,
		DateTime:         time.Now().Add(24 * time.Hour),
		Location:         "Medan",
		RequiredPeople:   1,
		PaymentPerPerson: 100,
		Category:         "crew",
		Status:           eventModel.StatusPublished,
	}
	require.NoError(t, db.Create(other).Error)

	foreign, err := svc.Send(ctx, f.organizer.ID, dto.SendMessageRequest{
		EventID: other.EventID,
		Content: "in the other thread",
	})
	require.NoError(t, err)

	_, err = svc.Send(ctx, f.member.ID, dto.SendMessageRequest{
		EventID: f.event.EventID,
		Content: "replying across threads",
		ReplyTo: &foreign.MessageID,
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	missing := uuid.New()
	_, err = svc.Send(ctx, f.member.ID, dto.SendMessageRequest{
		EventID: f.event.EventID,
		Content: "replying to nothing",
		ReplyTo: &missing,
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestListEventMessagesChronologicalWithReplies(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewMessageService(db)
	f := newChatFixture(t, db)

	first, err := svc.Send(ctx, f.organizer.ID, dto.SendMessageRequest{
		EventID: f.event.EventID,
		Content: "first",
	})
	require.NoError(t, err)
	// keep ordering deterministic
	require.NoError(t, db.Model(&model.MessageModel{}).
		Where("message_id = ?", first.MessageID).
		Update("sent_at", time.Now().UTC().Add(-time.Minute)).Error)

	_, err = svc.Send(ctx, f.member.ID, dto.SendMessageRequest{
		EventID: f.event.EventID,
		Content: "second",
		ReplyTo: &first.MessageID,
	})
	require.NoError(t, err)

	list, err := svc.ListEventMessages(ctx, f.event.EventID, 50)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Content)
	assert.Equal(t, "second", list[1].Content)
	require.NotNil(t, list[1].ReplyTo)
	assert.Equal(t, first.MessageID, list[1].ReplyTo.MessageID)
	require.NotNil(t, list[0].Sender)
	assert.Equal(t, f.organizer.ID, list[0].Sender.ID)
}

func TestUnreadCountSkipsOwnAndOldMessages(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewMessageService(db)
	f := newChatFixture(t, db)

	_, err := svc.Send(ctx, f.organizer.ID, dto.SendMessageRequest{
		EventID: f.event.EventID,
		Content: "fresh",
	})
	require.NoError(t, err)

	old, err := svc.Send(ctx, f.organizer.ID, dto.SendMessageRequest{
		EventID: f.event.EventID,
		Content: "ancient",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.MessageModel{}).
		Where("message_id = ?", old.MessageID).
		Update("sent_at", time.Now().UTC().Add(-48*time.Hour)).Error)

	count, err := svc.UnreadCount(ctx, f.member.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// the sender's own messages never count
	count, err = svc.UnreadCount(ctx, f.organizer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}
