package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	notificationService "gigstage_backend/internals/features/notifications/notification/service"
	"gigstage_backend/internals/features/ratings/rating/dto"
	"gigstage_backend/internals/features/ratings/rating/service"
	helper "gigstage_backend/internals/helpers"
)

type RatingController struct {
	DB      *gorm.DB
	Service *service.RatingService
}

func NewRatingController(db *gorm.DB) *RatingController {
	return &RatingController{
		DB:      db,
		Service: service.NewRatingService(db, notificationService.NewNotificationService(db)),
	}
}

var validateRating = validator.New()

// POST /api/ratings
func (ctrl *RatingController) RateUser(c *fiber.Ctx) error {
	raterID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.RateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateRating.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	rating, err := ctrl.Service.RateUser(c.UserContext(), raterID, req)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonCreated(c, "rating recorded", dto.ToRatingResponse(rating))
}

// GET /api/users/:id/ratings?page=&per_page=
func (ctrl *RatingController) RatingsForUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	paging := helper.ResolvePaging(c, 20, 100)
	ratings, total, err := ctrl.Service.RatingsForUser(c.UserContext(), userID, paging.Limit, paging.Offset)
	if err != nil {
		return helper.FromDomainError(c, err)
	}

	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "user ratings", dto.ToRatingResponseList(ratings), &pagination)
}
