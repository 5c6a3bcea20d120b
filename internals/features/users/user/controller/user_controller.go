package controller

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gigstage_backend/internals/features/users/user/dto"
	"gigstage_backend/internals/features/users/user/service"
	helper "gigstage_backend/internals/helpers"
)

type UserController struct {
	DB      *gorm.DB
	Service *service.UserService
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Service: service.NewUserService(db)}
}

var validateUser = validator.New()

// GET /api/users/:id
func (ctrl *UserController) GetUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	user, err := ctrl.Service.GetUser(c.UserContext(), id)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "user found", dto.ToUserResponse(user))
}

// GET /api/users/:id/profile — user plus recent received ratings
func (ctrl *UserController) GetProfile(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	profile, err := ctrl.Service.GetProfile(c.UserContext(), id)
	if err != nil {
		return helper.FromDomainError(c, err)
	}

	return helper.JsonOK(c, "profile found", fiber.Map{
		"user":           dto.ToUserResponse(profile.User),
		"recent_ratings": profile.RecentRatings,
	})
}

// PATCH /api/users/me
func (ctrl *UserController) UpdateMyProfile(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateUser.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	user, err := ctrl.Service.UpdateProfile(c.UserContext(), userID, req)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "profile updated", dto.ToUserResponse(user))
}

// POST /api/users/me/stats — bump attended/organized after a completed event
func (ctrl *UserController) BumpMyStats(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req struct {
		AsOrganizer bool `json:"as_organizer"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := ctrl.Service.BumpStats(c.UserContext(), userID, req.AsOrganizer); err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "stats updated", nil)
}

// GET /api/users/top-rated?user_type=&limit=
func (ctrl *UserController) TopRated(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	users, err := ctrl.Service.TopRated(c.UserContext(), c.Query("user_type"), limit)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "top rated users", dto.ToUserResponseList(users))
}

// GET /api/users/search?q=&user_type=
func (ctrl *UserController) Search(c *fiber.Ctx) error {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "search term is required")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	users, err := ctrl.Service.Search(c.UserContext(), term, c.Query("user_type"), limit)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "search results", dto.ToUserResponseList(users))
}
