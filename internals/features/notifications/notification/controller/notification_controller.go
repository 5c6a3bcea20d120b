package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gigstage_backend/internals/features/notifications/notification/service"
	helper "gigstage_backend/internals/helpers"
)

type NotificationController struct {
	DB      *gorm.DB
	Service *service.NotificationService
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db, Service: service.NewNotificationService(db)}
}

// GET /api/notifications?page=&per_page=
func (ctrl *NotificationController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	paging := helper.ResolvePaging(c, 20, 100)
	notifications, total, err := ctrl.Service.List(c.UserContext(), userID, paging.Limit, paging.Offset)
	if err != nil {
		return helper.FromDomainError(c, err)
	}

	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "notifications", notifications, &pagination)
}

// GET /api/notifications/unread-count
func (ctrl *NotificationController) UnreadCount(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	count, err := ctrl.Service.UnreadCount(c.UserContext(), userID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "unread notification count", fiber.Map{"count": count})
}

// PATCH /api/notifications/:id/read
func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	notificationID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	if err := ctrl.Service.MarkRead(c.UserContext(), userID, notificationID); err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "notification marked as read", nil)
}

// PATCH /api/notifications/read-all
func (ctrl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	updated, err := ctrl.Service.MarkAllRead(c.UserContext(), userID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "notifications marked as read", fiber.Map{"updated": updated})
}
