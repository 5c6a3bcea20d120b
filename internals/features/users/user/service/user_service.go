package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gigstage_backend/internals/apperr"
	"gigstage_backend/internals/configs"
	"gigstage_backend/internals/features/users/user/dto"
	"gigstage_backend/internals/features/users/user/model"
	ratingModel "gigstage_backend/internals/features/ratings/rating/model"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

type RegisterInput struct {
	Name         string
	Email        string
	Phone        string
	Password     string
	UserType     string
	Skills       []string
	Bio          *string
	Location     *string
	ProfileImage *string
}

// Register creates a user, or refreshes the profile fields when the email is
// already registered (the mobile client re-submits the form on re-login).
// The stored password is never overwritten on the update path.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.UserModel, bool, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var existing model.UserModel
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]any{
			"name":      in.Name,
			"phone":     in.Phone,
			"user_type": normalizeUserType(in.UserType),
			"skills":    dto.SkillsToJSON(in.Skills),
		}
		if in.Bio != nil {
			updates["bio"] = *in.Bio
		}
		if in.Location != nil {
			updates["location"] = *in.Location
		}
		if in.ProfileImage != nil {
			updates["profile_image"] = *in.ProfileImage
		}
		if err := s.DB.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return nil, false, err
		}
		if err := s.DB.WithContext(ctx).First(&existing, "id = ?", existing.ID).Error; err != nil {
			return nil, false, err
		}
		return &existing, false, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, false, err
		}
		u := &model.UserModel{
			Name:         strings.TrimSpace(in.Name),
			Email:        email,
			Phone:        strings.TrimSpace(in.Phone),
			Password:     string(hash),
			UserType:     normalizeUserType(in.UserType),
			Skills:       dto.SkillsToJSON(in.Skills),
			Bio:          in.Bio,
			Location:     in.Location,
			ProfileImage: in.ProfileImage,
			Rating:       5.0,
		}
		if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
			return nil, false, err
		}
		return u, true, nil

	default:
		return nil, false, err
	}
}

// Login checks credentials and issues a signed access token with the user id
// as subject. Controllers turn an authorization error here into a 401.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.UserModel, string, error) {
	var u model.UserModel
	err := s.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.Authorization("invalid email or password")
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, "", apperr.Authorization("invalid email or password")
	}

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   u.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
	})
	signed, err := token.SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return nil, "", err
	}
	return &u, signed, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*model.UserModel, error) {
	var u model.UserModel
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &u, nil
}

// RatingPreview is a received rating with enough context to render on the
// profile screen.
type RatingPreview struct {
	Rating    ratingModel.RatingModel `json:"rating"`
	Rater     *dto.UserPreview        `json:"rater"`
	EventName string                  `json:"event_title"`
}

type Profile struct {
	User          *model.UserModel
	RecentRatings []RatingPreview
}

// GetProfile returns the user with their five most recent received ratings.
func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	var ratings []ratingModel.RatingModel
	if err := s.DB.WithContext(ctx).
		Where("rated_user_id = ?", id).
		Order("created_at DESC").
		Limit(5).
		Find(&ratings).Error; err != nil {
		return nil, err
	}

	previews := make([]RatingPreview, 0, len(ratings))
	for i := range ratings {
		p := RatingPreview{Rating: ratings[i]}

		var rater model.UserModel
		if err := s.DB.WithContext(ctx).First(&rater, "id = ?", ratings[i].RaterID).Error; err == nil {
			p.Rater = dto.ToUserPreview(&rater)
		}

		var title string
		if err := s.DB.WithContext(ctx).
			Table("events").
			Select("event_title").
			Where("event_id = ?", ratings[i].EventID).
			Scan(&title).Error; err == nil {
			p.EventName = title
		}
		previews = append(previews, p)
	}

	return &Profile{User: u, RecentRatings: previews}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req dto.UpdateProfileRequest) (*model.UserModel, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Skills != nil {
		updates["skills"] = dto.SkillsToJSON(*req.Skills)
	}
	if req.ProfileImage != nil {
		updates["profile_image"] = *req.ProfileImage
	}
	if len(updates) == 0 {
		return u, nil
	}

	if err := s.DB.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// BumpStats increments eventsAttended or eventsOrganized. The increment is a
// SQL expression so concurrent bumps never lose updates.
func (s *UserService) BumpStats(ctx context.Context, id uuid.UUID, asOrganizer bool) error {
	column := "events_attended"
	if asOrganizer {
		column = "events_organized"
	}
	res := s.DB.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (s *UserService) TopRated(ctx context.Context, userType string, limit int) ([]model.UserModel, error) {
	if limit <= 0 {
		limit = 10
	}
	q := s.DB.WithContext(ctx).Model(&model.UserModel{}).Order("rating DESC")
	if userType != "" {
		q = q.Where("user_type = ? OR user_type = ?", userType, model.UserTypeBoth)
	}

	var users []model.UserModel
	if err := q.Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Search matches name, location, or any skill tag, case-insensitively.
func (s *UserService) Search(ctx context.Context, term, userType string, limit int) ([]model.UserModel, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"

	q := s.DB.WithContext(ctx).Model(&model.UserModel{}).
		Where(
			"LOWER(name) LIKE ? OR LOWER(COALESCE(location, '')) LIKE ? OR LOWER(CAST(skills AS TEXT)) LIKE ?",
			pattern, pattern, pattern,
		)
	if userType != "" {
		q = q.Where("user_type = ? OR user_type = ?", userType, model.UserTypeBoth)
	}

	var users []model.UserModel
	if err := q.Order("rating DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func normalizeUserType(t string) string {
	switch t {
	case model.UserTypeOrganizer, model.UserTypeParticipant, model.UserTypeBoth:
		return t
	default:
		return model.UserTypeParticipant
	}
}
