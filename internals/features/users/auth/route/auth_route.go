package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gigstage_backend/internals/features/users/auth/controller"
)

// AuthRoutes mounts the public register/login endpoints under /api/auth.
func AuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	baseAuth := app.Group("/api/auth")
	baseAuth.Post("/register", authController.Register)
	baseAuth.Post("/login", authController.Login)
}
