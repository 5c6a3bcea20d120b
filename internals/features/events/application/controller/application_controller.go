package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gigstage_backend/internals/features/events/application/dto"
	"gigstage_backend/internals/features/events/application/service"
	notificationService "gigstage_backend/internals/features/notifications/notification/service"
	helper "gigstage_backend/internals/helpers"
)

type ApplicationController struct {
	DB      *gorm.DB
	Service *service.ApplicationService
}

func NewApplicationController(db *gorm.DB) *ApplicationController {
	return &ApplicationController{
		DB:      db,
		Service: service.NewApplicationService(db, notificationService.NewNotificationService(db)),
	}
}

var validateApplication = validator.New()

// POST /api/events/:id/apply
func (ctrl *ApplicationController) Apply(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid event id")
	}

	var req dto.ApplyRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	app, err := ctrl.Service.Apply(c.UserContext(), userID, eventID, req.Message)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonCreated(c, "application submitted", dto.ToApplicationResponse(app))
}

// PATCH /api/applications/:id — approve or reject
func (ctrl *ApplicationController) Respond(c *fiber.Ctx) error {
	organizerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	applicationID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid application id")
	}

	var req dto.RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateApplication.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	app, err := ctrl.Service.Respond(c.UserContext(), organizerID, applicationID, req.Status, req.OrganizerNotes)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "application "+app.Status, dto.ToApplicationResponse(app))
}

// GET /api/applications/mine
func (ctrl *ApplicationController) MyApplications(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	apps, err := ctrl.Service.UserApplications(c.UserContext(), userID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "your applications", apps)
}

// GET /api/events/:id/applications — organizer only
func (ctrl *ApplicationController) EventApplications(c *fiber.Ctx) error {
	organizerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid event id")
	}

	apps, err := ctrl.Service.EventApplications(c.UserContext(), organizerID, eventID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "event applications", apps)
}

// GET /api/events/:id/participants
func (ctrl *ApplicationController) Roster(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid event id")
	}

	participants, err := ctrl.Service.Roster(c.UserContext(), eventID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "event participants", dto.ToParticipantResponseList(participants))
}

// POST /api/events/:id/attendance
func (ctrl *ApplicationController) ConfirmAttendance(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid event id")
	}

	participant, err := ctrl.Service.ConfirmAttendance(c.UserContext(), userID, eventID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "attendance confirmed", dto.ToParticipantResponse(participant))
}
