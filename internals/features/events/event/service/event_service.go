package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gigstage_backend/internals/apperr"
	applicationModel "gigstage_backend/internals/features/events/application/model"
	"gigstage_backend/internals/features/events/event/dto"
	"gigstage_backend/internals/features/events/event/model"
	userDTO "gigstage_backend/internals/features/users/user/dto"
	userModel "gigstage_backend/internals/features/users/user/model"
)

type EventService struct {
	DB *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{DB: db}
}

// Create validates the posting and publishes it with zeroed counters. Every
// violated constraint is reported, not just the first.
func (s *EventService) Create(ctx context.Context, organizerID uuid.UUID, req dto.CreateEventRequest) (*model.EventModel, error) {
	fields := apperr.FieldErrors{}

	if strings.TrimSpace(req.Title) == "" {
		fields.Add("title", "title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		fields.Add("description", "description is required")
	}
	if strings.TrimSpace(req.Location) == "" {
		fields.Add("location", "location is required")
	}
	if strings.TrimSpace(req.Category) == "" {
		fields.Add("category", "category is required")
	}
	if req.RequiredPeople < 1 {
		fields.Add("required_people", "at least one person is required")
	}
	if req.PaymentPerPerson < 0 {
		fields.Add("payment_per_person", "payment cannot be negative")
	}
	if !req.DateTime.After(time.Now()) {
		fields.Add("date_time", "event date must be in the future")
	}
	if req.EndDateTime != nil && !req.EndDateTime.After(req.DateTime) {
		fields.Add("end_date_time", "end time must be after the start time")
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	var organizer userModel.UserModel
	if err := s.DB.WithContext(ctx).First(&organizer, "id = ?", organizerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("organizer not found")
		}
		return nil, err
	}

	ev := req.ToModel(organizerID)
	if err := s.DB.WithContext(ctx).Create(ev).Error; err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *EventService) Get(ctx context.Context, eventID uuid.UUID) (*model.EventModel, error) {
	var ev model.EventModel
	if err := s.DB.WithContext(ctx).First(&ev, "event_id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event not found")
		}
		return nil, err
	}
	return &ev, nil
}

func (s *EventService) getOwned(ctx context.Context, organizerID, eventID uuid.UUID) (*model.EventModel, error) {
	ev, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.OrganizerID != organizerID {
		return nil, apperr.Authorization("only the organizer can manage this event")
	}
	return ev, nil
}

// Start moves a published event into in_progress. The lifecycle only moves
// forward: published -> in_progress -> completed, or cancelled from any
// non-terminal state.
func (s *EventService) Start(ctx context.Context, organizerID, eventID uuid.UUID) (*model.EventModel, error) {
	ev, err := s.getOwned(ctx, organizerID, eventID)
	if err != nil {
		return nil, err
	}
	if ev.Status != model.StatusPublished {
		return nil, apperr.Conflict("event cannot start from status " + ev.Status)
	}
	if err := s.DB.WithContext(ctx).Model(ev).Update("status", model.StatusInProgress).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, eventID)
}

// Complete marks the event completed and releases every participant's
// pending payment in the same transaction. Completing an already completed
// event is a no-op; completing a cancelled one is a conflict.
func (s *EventService) Complete(ctx context.Context, organizerID, eventID uuid.UUID) (*model.EventModel, error) {
	ev, err := s.getOwned(ctx, organizerID, eventID)
	if err != nil {
		return nil, err
	}
	if ev.Status == model.StatusCompleted {
		return ev, nil
	}
	if ev.Status == model.StatusCancelled {
		return nil, apperr.Conflict("cancelled events cannot be completed")
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.EventModel{}).
			Where("event_id = ?", eventID).
			Update("status", model.StatusCompleted).Error; err != nil {
			return err
		}
		return tx.Model(&applicationModel.ParticipantModel{}).
			Where("event_id = ? AND payment_status = ?", eventID, applicationModel.PaymentPending).
			Update("payment_status", applicationModel.PaymentReleased).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, eventID)
}

func (s *EventService) Cancel(ctx context.Context, organizerID, eventID uuid.UUID) (*model.EventModel, error) {
	ev, err := s.getOwned(ctx, organizerID, eventID)
	if err != nil {
		return nil, err
	}
	if model.IsTerminal(ev.Status) {
		return nil, apperr.Conflict("event is already " + ev.Status)
	}
	if err := s.DB.WithContext(ctx).Model(ev).Update("status", model.StatusCancelled).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, eventID)
}

// Highlight is the premium visibility boost: organizer-only and gated on
// the premium flag.
func (s *EventService) Highlight(ctx context.Context, organizerID, eventID uuid.UUID, expiresAt *time.Time) (*model.EventModel, error) {
	ev, err := s.getOwned(ctx, organizerID, eventID)
	if err != nil {
		return nil, err
	}

	var organizer userModel.UserModel
	if err := s.DB.WithContext(ctx).First(&organizer, "id = ?", organizerID).Error; err != nil {
		return nil, err
	}
	if !organizer.IsPremium {
		return nil, apperr.Authorization("highlighting requires a premium account")
	}

	updates := map[string]any{"is_highlighted": true}
	if expiresAt != nil {
		updates["highlight_expires_at"] = *expiresAt
	}
	if err := s.DB.WithContext(ctx).Model(ev).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, eventID)
}

/* ===============================
   Read side
=================================*/

// Feed lists published events, highlighted ones first, newest date first.
func (s *EventService) Feed(ctx context.Context, category, location string, limit, offset int) ([]model.EventModel, int64, error) {
	if limit <= 0 {
		limit = 20
	}

	q := s.DB.WithContext(ctx).Model(&model.EventModel{}).
		Where("status = ?", model.StatusPublished)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if location != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(location)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []model.EventModel
	if err := q.
		Order("is_highlighted DESC, date_time DESC").
		Limit(limit).Offset(offset).
		Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (s *EventService) Search(ctx context.Context, term, category string, limit int) ([]model.EventModel, error) {
	if limit <= 0 {
		limit = 20
	}
	q := s.DB.WithContext(ctx).Model(&model.EventModel{}).
		Where("status = ?", model.StatusPublished).
		Where("LOWER(event_title) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(term))+"%")
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var events []model.EventModel
	if err := q.Order("date_time DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// OrganizerEventSummary decorates an event with the organizer dashboard
// counts (pending applications still waiting for a response).
type OrganizerEventSummary struct {
	Event               model.EventModel `json:"event"`
	PendingApplications int64            `json:"pending_applications"`
}

func (s *EventService) OrganizerEvents(ctx context.Context, organizerID uuid.UUID) ([]OrganizerEventSummary, error) {
	var events []model.EventModel
	if err := s.DB.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}

	summaries := make([]OrganizerEventSummary, 0, len(events))
	for i := range events {
		var pending int64
		if err := s.DB.WithContext(ctx).
			Model(&applicationModel.ApplicationModel{}).
			Where("event_id = ? AND status = ?", events[i].EventID, applicationModel.StatusPending).
			Count(&pending).Error; err != nil {
			return nil, err
		}
		summaries = append(summaries, OrganizerEventSummary{Event: events[i], PendingApplications: pending})
	}
	return summaries, nil
}

// RosterEntry is a participant with their user preview, for the detail view.
type RosterEntry struct {
	Participant applicationModel.ParticipantModel `json:"participant"`
	User        *userDTO.UserPreview              `json:"user"`
}

type EventDetail struct {
	Event        *model.EventModel
	Organizer    *userDTO.UserPreview
	Participants []RosterEntry
}

func (s *EventService) Detail(ctx context.Context, eventID uuid.UUID) (*EventDetail, error) {
	ev, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	detail := &EventDetail{Event: ev}

	var organizer userModel.UserModel
	if err := s.DB.WithContext(ctx).First(&organizer, "id = ?", ev.OrganizerID).Error; err == nil {
		detail.Organizer = userDTO.ToUserPreview(&organizer)
	}

	var participants []applicationModel.ParticipantModel
	if err := s.DB.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("joined_at ASC").
		Find(&participants).Error; err != nil {
		return nil, err
	}

	for i := range participants {
		entry := RosterEntry{Participant: participants[i]}
		var u userModel.UserModel
		if err := s.DB.WithContext(ctx).First(&u, "id = ?", participants[i].UserID).Error; err == nil {
			entry.User = userDTO.ToUserPreview(&u)
		}
		detail.Participants = append(detail.Participants, entry)
	}
	return detail, nil
}
