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
	"gigstage_backend/internals/features/events/application/model"
	eventModel "gigstage_backend/internals/features/events/event/model"
	eventService "gigstage_backend/internals/features/events/event/service"
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
	sqlDB.SetMaxOpenConns(1) // keep the in-memory DB on one connection

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *userModel.UserModel {
	t.Helper()
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

func seedEvent(t *testing.T, db *gorm.DB, organizerID uuid.UUID, requiredPeople int, payment float64) *eventModel.EventModel {
	t.Helper()
	ev := &eventModel.EventModel{
		EventTitle:       "Warehouse gig",
		EventDescription: "Load-in crew",
		OrganizerID:      organizerID,
		DateTime:         time.Now().Add(48 * time.Hour),
		Location:         "Jakarta",
		RequiredPeople:   requiredPeople,
		PaymentPerPerson: payment,
		Category:         "crew",
		Status:           eventModel.StatusPublished,
	}
	require.NoError(t, db.Create(ev).Error)
	return ev
}

func TestApplyApproveCompleteFlow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	apps := NewApplicationService(db, nil)
	events := eventService.NewEventService(db)

	organizer := seedUser(t, db, "organizer")
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	ev := seedEvent(t, db, organizer.ID, 2, 800)

	appA, err := apps.Apply(ctx, alice.ID, ev.EventID, nil)
	require.NoError(t, err)
	appB, err := apps.Apply(ctx, bob.ID, ev.EventID, nil)
	require.NoError(t, err)

	var got eventModel.EventModel
	require.NoError(t, db.First(&got, "event_id = ?", ev.EventID).Error)
	assert.Equal(t, 2, got.AppliedCount)
	assert.Equal(t, 0, got.ApprovedCount)

	_, err = apps.Respond(ctx, organizer.ID, appA.ApplicationID, model.StatusApproved, nil)
	require.NoError(t, err)
	_, err = apps.Respond(ctx, organizer.ID, appB.ApplicationID, model.StatusApproved, nil)
	require.NoError(t, err)

	require.NoError(t, db.First(&got, "event_id = ?", ev.EventID).Error)
	assert.Equal(t, 2, got.ApprovedCount)

	roster, err := apps.Roster(ctx, ev.EventID)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	for _, p := range roster {
		assert.Equal(t, model.PaymentPending, p.PaymentStatus)
		assert.Equal(t, 800.0, p.PaymentAmount)
	}

	_, err = events.Complete(ctx, organizer.ID, ev.EventID)
	require.NoError(t, err)

	roster, err = apps.Roster(ctx, ev.EventID)
	require.NoError(t, err)
	for _, p := range roster {
		assert.Equal(t, model.PaymentReleased, p.PaymentStatus)
	}
}

func TestApplyDuplicateConflict(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	apps := NewApplicationService(db, nil)

	organizer := seedUser(t, db, "organizer")
	alice := seedUser(t, db, "alice")
	ev := seedEvent(t, db, organizer.ID, 3, 100)

	_, err := apps.Apply(ctx, alice.ID, ev.EventID, nil)
	require.NoError(t, err)

	_, err = apps.Apply(ctx, alice.ID, ev.EventID, nil)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))

	// the failed apply must not have bumped the counter
	var got eventModel.EventModel
	require.NoError(t, db.First(&got, "event_id = ?", ev.EventID).Error)
	assert.Equal(t, 1, got.AppliedCount)

	var rows int64
	require.NoError(t, db.Model(&model.ApplicationModel{}).
		Where("event_id = ?", ev.EventID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestApplyOrganizerOwnEvent(t *testing.T) {
	db := newTestDB(t)
	apps := NewApplicationService(db, nil)

	organizer := seedUser(t, db, "organizer")
	ev := seedEvent(t, db, organizer.ID, 2, 100)

	_, err := apps.Apply(context.Background(), organizer.ID, ev.EventID, nil)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
}

func TestApplyUnpublishedEvent(t *testing.T) {
	db := newTestDB(t)
	apps := NewApplicationService(db, nil)

	organizer := seedUser(t, db, "organizer")
	alice := seedUser(t, db, "alice")
	ev := seedEvent(t, db, organizer.ID, 2, 100)
	require.NoError(t, db.Model(ev).Update("status", eventModel.StatusCancelled).Error)

	_, err := apps.Apply(context.Background(), alice.ID, ev.EventID, nil)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
}

func TestRespondCapacityExceeded(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	apps := NewApplicationService(db, nil)

	organizer := seedUser(t, db, "organizer")
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	ev := seedEvent(t, db, organizer.ID, 1, 100)

	appA, err := apps.Apply(ctx, alice.ID, ev.EventID, nil)
	require.NoError(t, err)
	appB, err := apps.Apply(ctx, bob.ID, ev.EventID, nil)
	require.NoError(t, err)

	_, err = apps.Respond(ctx, organizer.ID, appA.ApplicationID, model.StatusApproved, nil)
	require.NoError(t, err)

	_, err = apps.Respond(ctx, organizer.ID, appB.ApplicationID, model.StatusApproved, nil)
	assert.True(t, apperr.IsCode(err, apperr.CodeCapacityExceeded))

	var got eventModel.EventModel
	require.NoError(t, db.First(&got, "event_id = ?", ev.EventID).Error)
	assert.Equal(t, 1, got.ApprovedCount)

	var rows int64
	require.NoError(t, db.Model(&model.ParticipantModel{}).
		Where("event_id = ?", ev.EventID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	// the failed response must have left the application pending
	var appGot model.ApplicationModel
	require.NoError(t, db.First(&appGot, "application_id = ?", appB.ApplicationID).Error)
	assert.Equal(t, model.StatusPending, appGot.Status)
}

func TestRespondOverCapacityAllowed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	apps := NewApplicationService(db, nil)
	apps.AllowOverCapacity = true

	organizer := seedUser(t, db, "organizer")
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	ev := seedEvent(t, db, organizer.ID, 1, 100)

	appA, _ := apps.Apply(ctx, alice.ID, ev.EventID, nil)
	appB, _ := apps.Apply(ctx, bob.ID, ev.EventID, nil)

	_, err := apps.Respond(ctx, organizer.ID, appA.ApplicationID, model.StatusApproved, nil)
	require.NoError(t, err)
	_, err = apps.Respond(ctx, organizer.ID, appB.ApplicationID, model.StatusApproved, nil)
	require.NoError(t, err)

	var got eventModel.EventModel
	require.NoError(t, db.First(&got, "event_id = ?", ev.EventID).Error)
	assert.Equal(t, 2, got.ApprovedCount)
}

func TestRespondTwiceConflict(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	apps := NewApplicationService(db, nil)

	organizer := seedUser(t, db, "organizer")
	alice := seedUser(t, db, "alice")
	ev := seedEvent(t, db, organizer.ID, 2, 100)

	app, err := apps.Apply(ctx, alice.ID, ev.EventID, nil)
	require.NoError(t, err)

	resolved, err := apps.Respond(ctx, organizer.ID, app.ApplicationID, model.StatusRejected, nil)
	require.NoError(t, err)
	require.NotNil(t, resolved.RespondedAt)

	_, err = apps.Respond(ctx, organizer.ID, app.ApplicationID, model.StatusApproved, nil)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
}

func TestRespondNotOrganizer(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	apps := NewApplicationService(db, nil)

	organizer := seedUser(t, db, "organizer")
	alice := seedUser(t, db, "alice")
	mallory := seedUser(t, db, "mallory")
	ev := seedEvent(t, db, organizer.ID, 2, 100)

	app, err := apps.Apply(ctx, alice.ID, ev.EventID, nil)
	require.NoError(t, err)

	_, err = apps.Respond(ctx, mallory.ID, app.ApplicationID, model.StatusApproved, nil)
	assert.True(t, apperr.IsCode(err, apperr.CodeAuthorization))
}

func TestRespondBadStatus(t *testing.T) {
	db := newTestDB(t)
	apps := NewApplicationService(db, nil)

	_, err := apps.Respond(context.Background(), uuid.New(), uuid.New(), "maybe", nil)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestConfirmAttendance(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	apps := NewApplicationService(db, nil)

	organizer := seedUser(t, db, "organizer")
	alice := seedUser(t, db, "alice")
	ev := seedEvent(t, db, organizer.ID, 2, 100)

	app, err := apps.Apply(ctx, alice.ID, ev.EventID, nil)
	require.NoError(t, err)
	_, err = apps.Respond(ctx, organizer.ID, app.ApplicationID, model.StatusApproved, nil)
	require.NoError(t, err)

	p, err := apps.ConfirmAttendance(ctx, alice.ID, ev.EventID)
	require.NoError(t, err)
	assert.True(t, p.AttendanceConfirmed)

	// not on the roster
	_, err = apps.ConfirmAttendance(ctx, organizer.ID, ev.EventID)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestUserApplicationsIncludesEvent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	apps := NewApplicationService(db, nil)

	organizer := seedUser(t, db, "organizer")
	alice := seedUser(t, db, "alice")
	ev := seedEvent(t, db, organizer.ID, 2, 100)

	_, err := apps.Apply(ctx, alice.ID, ev.EventID, nil)
	require.NoError(t, err)

	list, err := apps.UserApplications(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Event)
	assert.Equal(t, ev.EventID, list[0].Event.EventID)
}

func TestEventApplicationsOrganizerOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	apps := NewApplicationService(db, nil)

	organizer := seedUser(t, db, "organizer")
	alice := seedUser(t, db, "alice")
	ev := seedEvent(t, db, organizer.ID, 2, 100)

	_, err := apps.Apply(ctx, alice.ID, ev.EventID, nil)
	require.NoError(t, err)

	_, err = apps.EventApplications(ctx, alice.ID, ev.EventID)
	assert.True(t, apperr.IsCode(err, apperr.CodeAuthorization))

	list, err := apps.EventApplications(ctx, organizer.ID, ev.EventID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Applicant)
	assert.Equal(t, alice.ID, list[0].Applicant.ID)
}
