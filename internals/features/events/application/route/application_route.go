package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gigstage_backend/internals/features/events/application/controller"
)

// ApplicationRoutes mounts the application endpoints that are not nested
// under an event (responding by application id, listing one's own).
func ApplicationRoutes(r fiber.Router, db *gorm.DB) {
	applicationController := controller.NewApplicationController(db)

	applications := r.Group("/applications")
	applications.Get("/mine", applicationController.MyApplications)
	applications.Patch("/:id", applicationController.Respond)
}
