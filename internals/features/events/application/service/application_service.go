package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gigstage_backend/internals/apperr"
	"gigstage_backend/internals/features/events/application/model"
	eventModel "gigstage_backend/internals/features/events/event/model"
	notificationModel "gigstage_backend/internals/features/notifications/notification/model"
	notificationService "gigstage_backend/internals/features/notifications/notification/service"
	userModel "gigstage_backend/internals/features/users/user/model"
)

type ApplicationService struct {
	DB            *gorm.DB
	Notifications *notificationService.NotificationService

	// AllowOverCapacity lets organizers approve past requiredPeople. Off by
	// default: approving a full event fails with a capacity error.
	AllowOverCapacity bool
}

func NewApplicationService(db *gorm.DB, notifications *notificationService.NotificationService) *ApplicationService {
	return &ApplicationService{DB: db, Notifications: notifications}
}

func isUniqueErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}

// Apply files a pending application and bumps the event's applied counter.
// The counter change is a SQL-side increment inside the same transaction as
// the insert, and the composite unique index on (event_id, user_id) closes
// the race two concurrent applies would otherwise win together.
func (s *ApplicationService) Apply(ctx context.Context, userID, eventID uuid.UUID, message *string) (*model.ApplicationModel, error) {
	var app *model.ApplicationModel
	var organizerID uuid.UUID

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev eventModel.EventModel
		if err := tx.First(&ev, "event_id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("event not found")
			}
			return err
		}
		organizerID = ev.OrganizerID

		if ev.Status != eventModel.StatusPublished {
			return apperr.Conflict("event is not accepting applications")
		}
		if ev.OrganizerID == userID {
			return apperr.Conflict("organizers cannot apply to their own event")
		}

		var existing int64
		if err := tx.Model(&model.ApplicationModel{}).
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperr.Conflict("you have already applied to this event")
		}

		app = &model.ApplicationModel{
			EventID:   eventID,
			UserID:    userID,
			Status:    model.StatusPending,
			Message:   message,
			AppliedAt: time.Now().UTC(),
		}
		if err := tx.Create(app).Error; err != nil {
			if isUniqueErr(err) {
				return apperr.Conflict("you have already applied to this event")
			}
			return err
		}

		return tx.Model(&eventModel.EventModel{}).
			Where("event_id = ?", eventID).
			UpdateColumn("applied_count", gorm.Expr("applied_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, organizerID, "New application",
		"Someone applied to work your event", notificationModel.TypeApplicationReceived,
		&eventID, &userID)

	return app, nil
}

// Respond resolves a pending application. respondedAt is set exactly once:
// re-responding to a resolved application is a conflict. Approval creates
// the participant row and bumps the approved counter through a guarded
// update whose WHERE clause carries the capacity check, so check and
// increment are a single statement.
func (s *ApplicationService) Respond(ctx context.Context, organizerID, applicationID uuid.UUID, status string, organizerNotes *string) (*model.ApplicationModel, error) {
	if status != model.StatusApproved && status != model.StatusRejected {
		return nil, apperr.ValidationMsg("status", "status must be approved or rejected")
	}

	var app model.ApplicationModel
	var notifyType, notifyTitle, notifyBody string

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&app, "application_id = ?", applicationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("application not found")
			}
			return err
		}

		var ev eventModel.EventModel
		if err := tx.First(&ev, "event_id = ?", app.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("event not found")
			}
			return err
		}
		if ev.OrganizerID != organizerID {
			return apperr.Authorization("only the organizer can respond to applications")
		}
		if app.Status != model.StatusPending {
			return apperr.Conflict("application has already been responded to")
		}

		now := time.Now().UTC()

		if status == model.StatusApproved {
			q := tx.Model(&eventModel.EventModel{}).Where("event_id = ?", ev.EventID)
			if !s.AllowOverCapacity {
				q = q.Where("approved_count < required_people")
			}
			res := q.UpdateColumn("approved_count", gorm.Expr("approved_count + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.CapacityExceeded(fmt.Sprintf(
					"event already has %d approved people", ev.RequiredPeople))
			}

			participant := &model.ParticipantModel{
				EventID:       app.EventID,
				UserID:        app.UserID,
				PaymentStatus: model.PaymentPending,
				PaymentAmount: ev.PaymentPerPerson,
				JoinedAt:      now,
			}
			if err := tx.Create(participant).Error; err != nil {
				return err
			}

			notifyType = notificationModel.TypeApplicationApproved
			notifyTitle = "Application approved"
			notifyBody = "You are on the crew for " + ev.EventTitle
		} else {
			notifyType = notificationModel.TypeApplicationRejected
			notifyTitle = "Application update"
			notifyBody = "Your application for " + ev.EventTitle + " was not accepted"
		}

		updates := map[string]any{
			"status":       status,
			"responded_at": now,
		}
		if organizerNotes != nil {
			updates["organizer_notes"] = *organizerNotes
		}
		if err := tx.Model(&app).Updates(updates).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, app.UserID, notifyTitle, notifyBody, notifyType, &app.EventID, &organizerID)
	return &app, nil
}

// ConfirmAttendance lets a roster member mark themselves present.
func (s *ApplicationService) ConfirmAttendance(ctx context.Context, userID, eventID uuid.UUID) (*model.ParticipantModel, error) {
	var p model.ParticipantModel
	err := s.DB.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("you are not on this event's roster")
		}
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&p).UpdateColumn("attendance_confirmed", true).Error; err != nil {
		return nil, err
	}
	p.AttendanceConfirmed = true
	return &p, nil
}

/* ===============================
   Read side
=================================*/

// ApplicationWithEvent pairs an application with its event for the
// applicant's history screen.
type ApplicationWithEvent struct {
	Application model.ApplicationModel `json:"application"`
	Event       *eventModel.EventModel `json:"event"`
}

func (s *ApplicationService) UserApplications(ctx context.Context, userID uuid.UUID) ([]ApplicationWithEvent, error) {
	var apps []model.ApplicationModel
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("applied_at DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	out := make([]ApplicationWithEvent, 0, len(apps))
	for i := range apps {
		item := ApplicationWithEvent{Application: apps[i]}
		var ev eventModel.EventModel
		if err := s.DB.WithContext(ctx).First(&ev, "event_id = ?", apps[i].EventID).Error; err == nil {
			item.Event = &ev
		}
		out = append(out, item)
	}
	return out, nil
}

// ApplicationWithApplicant pairs an application with the applicant's profile
// bits the organizer reviews.
type ApplicationWithApplicant struct {
	Application model.ApplicationModel `json:"application"`
	Applicant   *userModel.UserModel   `json:"applicant"`
}

func (s *ApplicationService) EventApplications(ctx context.Context, organizerID, eventID uuid.UUID) ([]ApplicationWithApplicant, error) {
	var ev eventModel.EventModel
	if err := s.DB.WithContext(ctx).First(&ev, "event_id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event not found")
		}
		return nil, err
	}
	if ev.OrganizerID != organizerID {
		return nil, apperr.Authorization("only the organizer can review applications")
	}

	var apps []model.ApplicationModel
	if err := s.DB.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("applied_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	out := make([]ApplicationWithApplicant, 0, len(apps))
	for i := range apps {
		item := ApplicationWithApplicant{Application: apps[i]}
		var u userModel.UserModel
		if err := s.DB.WithContext(ctx).First(&u, "id = ?", apps[i].UserID).Error; err == nil {
			item.Applicant = &u
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *ApplicationService) Roster(ctx context.Context, eventID uuid.UUID) ([]model.ParticipantModel, error) {
	var participants []model.ParticipantModel
	err := s.DB.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("joined_at ASC").
		Find(&participants).Error
	return participants, err
}

func (s *ApplicationService) notify(ctx context.Context, userID uuid.UUID, title, body, ntype string, eventID, relatedUserID *uuid.UUID) {
	if s.Notifications == nil {
		return
	}
	if err := s.Notifications.Notify(ctx, userID, title, body, ntype, eventID, relatedUserID); err != nil {
		log.Printf("[WARN] notify %s failed: %v", ntype, err)
	}
}
