package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gigstage_backend/internals/features/users/user/controller"
	ratingController "gigstage_backend/internals/features/ratings/rating/controller"
)

// UserRoutes mounts user lookup and profile endpoints on the authenticated
// group. Static paths go first so they are not swallowed by /:id.
func UserRoutes(r fiber.Router, db *gorm.DB) {
	userController := controller.NewUserController(db)
	ratings := ratingController.NewRatingController(db)

	users := r.Group("/users")
	users.Get("/top-rated", userController.TopRated)
	users.Get("/search", userController.Search)
	users.Patch("/me", userController.UpdateMyProfile)
	users.Post("/me/stats", userController.BumpMyStats)
	users.Get("/:id", userController.GetUser)
	users.Get("/:id/profile", userController.GetProfile)
	users.Get("/:id/ratings", ratings.RatingsForUser)
}
