package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gigstage_backend/internals/features/ratings/rating/controller"
)

// RatingRoutes mounts rating submission. Reading a user's ratings lives
// under the user routes.
func RatingRoutes(r fiber.Router, db *gorm.DB) {
	ratingController := controller.NewRatingController(db)

	ratings := r.Group("/ratings")
	ratings.Post("/", ratingController.RateUser)
}
