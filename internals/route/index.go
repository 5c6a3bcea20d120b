package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	applicationRoute "gigstage_backend/internals/features/events/application/route"
	eventRoute "gigstage_backend/internals/features/events/event/route"
	messageRoute "gigstage_backend/internals/features/messages/message/route"
	notificationRoute "gigstage_backend/internals/features/notifications/notification/route"
	ratingRoute "gigstage_backend/internals/features/ratings/rating/route"
	authRoute "gigstage_backend/internals/features/users/auth/route"
	userRoute "gigstage_backend/internals/features/users/user/route"
	authMiddleware "gigstage_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(app, db)

	// ===================== PRIVATE =====================
	// Everything below requires a valid bearer token.
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api", authMiddleware.AuthMiddleware())

	log.Println("[INFO] Mounting User routes...")
	userRoute.UserRoutes(private, db)

	log.Println("[INFO] Mounting Event routes...")
	eventRoute.EventRoutes(private, db)
	applicationRoute.ApplicationRoutes(private, db)

	log.Println("[INFO] Mounting Message routes...")
	messageRoute.MessageRoutes(private, db)

	log.Println("[INFO] Mounting Rating routes...")
	ratingRoute.RatingRoutes(private, db)

	log.Println("[INFO] Mounting Notification routes...")
	notificationRoute.NotificationRoutes(private, db)
}
