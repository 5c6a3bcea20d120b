package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	applicationController "gigstage_backend/internals/features/events/application/controller"
	"gigstage_backend/internals/features/events/event/controller"
	messageController "gigstage_backend/internals/features/messages/message/controller"
)

// EventRoutes mounts the event lifecycle plus its nested application,
// roster, and chat endpoints. Static paths go first so they are not
// swallowed by /:id.
func EventRoutes(r fiber.Router, db *gorm.DB) {
	eventController := controller.NewEventController(db)
	applications := applicationController.NewApplicationController(db)
	messages := messageController.NewMessageController(db)

	events := r.Group("/events")
	events.Post("/", eventController.CreateEvent)
	events.Get("/feed", eventController.GetFeed)
	events.Get("/search", eventController.Search)
	events.Get("/mine", eventController.GetMyEvents)
	events.Get("/:id", eventController.GetEventDetail)

	events.Post("/:id/start", eventController.StartEvent)
	events.Post("/:id/complete", eventController.CompleteEvent)
	events.Post("/:id/cancel", eventController.CancelEvent)
	events.Post("/:id/highlight", eventController.HighlightEvent)

	events.Post("/:id/apply", applications.Apply)
	events.Get("/:id/applications", applications.EventApplications)
	events.Get("/:id/participants", applications.Roster)
	events.Post("/:id/attendance", applications.ConfirmAttendance)

	events.Post("/:id/messages", messages.Send)
	events.Get("/:id/messages", messages.ListEventMessages)
	events.Get("/:id/announcements", messages.Announcements)
}
