package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gigstage_backend/internals/features/messages/message/controller"
)

// MessageRoutes mounts message endpoints addressed by message id. Sending
// and listing live under the event routes.
func MessageRoutes(r fiber.Router, db *gorm.DB) {
	messageController := controller.NewMessageController(db)

	messages := r.Group("/messages")
	messages.Get("/unread-count", messageController.UnreadCount)
	messages.Post("/:id/vote", messageController.Vote)
	messages.Patch("/:id", messageController.Edit)
	messages.Delete("/:id", messageController.Delete)
}
