package controller

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gigstage_backend/internals/features/messages/message/dto"
	"gigstage_backend/internals/features/messages/message/service"
	helper "gigstage_backend/internals/helpers"
)

type MessageController struct {
	DB      *gorm.DB
	Service *service.MessageService
}

func NewMessageController(db *gorm.DB) *MessageController {
	return &MessageController{DB: db, Service: service.NewMessageService(db)}
}

var validateMessage = validator.New()

// POST /api/events/:id/messages
func (ctrl *MessageController) Send(c *fiber.Ctx) error {
	senderID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid event id")
	}

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.EventID = eventID
	if err := validateMessage.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	msg, err := ctrl.Service.Send(c.UserContext(), senderID, req)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonCreated(c, "message sent", dto.ToMessageResponse(msg))
}

// GET /api/events/:id/messages?limit=
func (ctrl *MessageController) ListEventMessages(c *fiber.Ctx) error {
	if _, err := helper.GetUserIDFromToken(c); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid event id")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	messages, err := ctrl.Service.ListEventMessages(c.UserContext(), eventID, limit)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "event messages", messages)
}

// GET /api/events/:id/announcements
func (ctrl *MessageController) Announcements(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid event id")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	messages, err := ctrl.Service.Announcements(c.UserContext(), eventID, limit)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "event announcements", messages)
}

// POST /api/messages/:id/vote
func (ctrl *MessageController) Vote(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	messageID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid message id")
	}

	var req dto.VoteRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateMessage.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	msg, err := ctrl.Service.Vote(c.UserContext(), userID, messageID, req.Option)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "vote recorded", dto.ToMessageResponse(msg))
}

// PATCH /api/messages/:id
func (ctrl *MessageController) Edit(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	messageID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid message id")
	}

	var req dto.EditMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateMessage.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	msg, err := ctrl.Service.Edit(c.UserContext(), userID, messageID, req.Content)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "message edited", dto.ToMessageResponse(msg))
}

// DELETE /api/messages/:id — soft delete, content becomes a placeholder
func (ctrl *MessageController) Delete(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	messageID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid message id")
	}

	msg, err := ctrl.Service.Delete(c.UserContext(), userID, messageID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonDeleted(c, "message deleted", dto.ToMessageResponse(msg))
}

// GET /api/messages/unread-count
func (ctrl *MessageController) UnreadCount(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	count, err := ctrl.Service.UnreadCount(c.UserContext(), userID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "unread message count", fiber.Map{"count": count})
}
