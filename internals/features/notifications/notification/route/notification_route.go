package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gigstage_backend/internals/features/notifications/notification/controller"
)

func NotificationRoutes(r fiber.Router, db *gorm.DB) {
	notificationController := controller.NewNotificationController(db)

	notifications := r.Group("/notifications")
	notifications.Get("/", notificationController.List)
	notifications.Get("/unread-count", notificationController.UnreadCount)
	notifications.Patch("/read-all", notificationController.MarkAllRead)
	notifications.Patch("/:id/read", notificationController.MarkRead)
}
