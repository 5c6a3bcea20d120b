package service

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gigstage_backend/internals/apperr"
	applicationModel "gigstage_backend/internals/features/events/application/model"
	eventModel "gigstage_backend/internals/features/events/event/model"
	notificationModel "gigstage_backend/internals/features/notifications/notification/model"
	notificationService "gigstage_backend/internals/features/notifications/notification/service"
	"gigstage_backend/internals/features/ratings/rating/dto"
	"gigstage_backend/internals/features/ratings/rating/model"
	userModel "gigstage_backend/internals/features/users/user/model"
)

// aggregateRetries bounds the optimistic-lock loop on the user aggregate.
const aggregateRetries = 3

type RatingService struct {
	DB            *gorm.DB
	Notifications *notificationService.NotificationService
}

func NewRatingService(db *gorm.DB, notifications *notificationService.NotificationService) *RatingService {
	return &RatingService{DB: db, Notifications: notifications}
}

// RateUser records one immutable rating and folds it into the rated user's
// running average: round((oldAvg*oldCount + r) / (oldCount+1), 1). The
// aggregate write is a compare-and-swap keyed on total_ratings so two
// concurrent ratings cannot lose each other's contribution.
func (s *RatingService) RateUser(ctx context.Context, raterID uuid.UUID, req dto.RateUserRequest) (*model.RatingModel, error) {
	if req.Rating < model.MinRating || req.Rating > model.MaxRating {
		return nil, apperr.ValidationMsg("rating", "rating must be between 1 and 5")
	}
	if req.RatedUserID == raterID {
		return nil, apperr.ValidationMsg("rated_user_id", "you cannot rate yourself")
	}

	var ev eventModel.EventModel
	if err := s.DB.WithContext(ctx).First(&ev, "event_id = ?", req.EventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event not found")
		}
		return nil, err
	}

	switch req.RatingType {
	case model.TypeOrganizerToParticipant:
		if ev.OrganizerID != raterID {
			return nil, apperr.Authorization("only the organizer can rate participants")
		}
		onRoster, err := s.isParticipant(ctx, req.EventID, req.RatedUserID)
		if err != nil {
			return nil, err
		}
		if !onRoster {
			return nil, apperr.ValidationMsg("rated_user_id", "user is not on this event's roster")
		}
	case model.TypeParticipantToOrganizer:
		if ev.OrganizerID != req.RatedUserID {
			return nil, apperr.ValidationMsg("rated_user_id", "rated user is not this event's organizer")
		}
		onRoster, err := s.isParticipant(ctx, req.EventID, raterID)
		if err != nil {
			return nil, err
		}
		if !onRoster {
			return nil, apperr.Authorization("only approved participants can rate the organizer")
		}
	default:
		return nil, apperr.ValidationMsg("rating_type", "unknown rating type")
	}

	var rating *model.RatingModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&model.RatingModel{}).
			Where("event_id = ? AND rater_id = ? AND rated_user_id = ?",
				req.EventID, raterID, req.RatedUserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperr.Conflict("you have already rated this user for this event")
		}

		rating = &model.RatingModel{
			EventID:     req.EventID,
			RaterID:     raterID,
			RatedUserID: req.RatedUserID,
			Rating:      req.Rating,
			Review:      req.Review,
			RatingType:  req.RatingType,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.Create(rating).Error; err != nil {
			if isUniqueErr(err) {
				return apperr.Conflict("you have already rated this user for this event")
			}
			return err
		}

		return s.applyToAggregate(tx, req.RatedUserID, req.Rating)
	})
	if err != nil {
		return nil, err
	}

	if s.Notifications != nil {
		if err := s.Notifications.Notify(ctx, req.RatedUserID,
			"New rating received", "Someone rated your work on "+ev.EventTitle,
			notificationModel.TypeRatingReceived, &req.EventID, &raterID); err != nil {
			log.Printf("[WARN] rating notification failed: %v", err)
		}
	}
	return rating, nil
}

// applyToAggregate advances the user's weighted running mean with a
// compare-and-swap on total_ratings, retried a few times under contention.
func (s *RatingService) applyToAggregate(tx *gorm.DB, ratedUserID uuid.UUID, value float64) error {
	for attempt := 0; attempt < aggregateRetries; attempt++ {
		var u userModel.UserModel
		if err := tx.First(&u, "id = ?", ratedUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("rated user not found")
			}
			return err
		}

		newCount := u.TotalRatings + 1
		newAvg := math.Round((u.Rating*float64(u.TotalRatings)+value)/float64(newCount)*10) / 10

		res := tx.Model(&userModel.UserModel{}).
			Where("id = ? AND total_ratings = ?", ratedUserID, u.TotalRatings).
			Updates(map[string]any{
				"rating":        newAvg,
				"total_ratings": newCount,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			return nil
		}
	}
	return apperr.Conflict("user rating is being updated, try again")
}

func (s *RatingService) isParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&applicationModel.ParticipantModel{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}

// RatingsForUser lists the ratings a user has received, newest first.
func (s *RatingService) RatingsForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.RatingModel, int64, error) {
	if limit <= 0 {
		limit = 20
	}

	var total int64
	if err := s.DB.WithContext(ctx).
		Model(&model.RatingModel{}).
		Where("rated_user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ratings []model.RatingModel
	if err := s.DB.WithContext(ctx).
		Where("rated_user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ratings).Error; err != nil {
		return nil, 0, err
	}
	return ratings, total, nil
}

func isUniqueErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}
