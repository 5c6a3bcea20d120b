package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gigstage_backend/internals/apperr"
	"gigstage_backend/internals/features/users/auth/dto"
	userDTO "gigstage_backend/internals/features/users/user/dto"
	userService "gigstage_backend/internals/features/users/user/service"
	helper "gigstage_backend/internals/helpers"
)

type AuthController struct {
	DB      *gorm.DB
	Service *userService.UserService
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db, Service: userService.NewUserService(db)}
}

var validateAuth = validator.New()

// POST /api/auth/register
func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateAuth.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	user, created, err := ctrl.Service.Register(c.UserContext(), userService.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     req.Password,
		UserType:     req.UserType,
		Skills:       req.Skills,
		Bio:          req.Bio,
		Location:     req.Location,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		return helper.FromDomainError(c, err)
	}

	if created {
		return helper.JsonCreated(c, "account created", userDTO.ToUserResponse(user))
	}
	return helper.JsonOK(c, "profile refreshed", userDTO.ToUserResponse(user))
}

// POST /api/auth/login
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateAuth.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	user, token, err := ctrl.Service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeAuthorization) {
			// Bad credentials are a 401 here, not the usual 403 mapping.
			return helper.JsonError(c, fiber.StatusUnauthorized, "invalid email or password")
		}
		return helper.FromDomainError(c, err)
	}

	return helper.JsonOK(c, "login successful", fiber.Map{
		"token": token,
		"user":  userDTO.ToUserResponse(user),
	})
}
