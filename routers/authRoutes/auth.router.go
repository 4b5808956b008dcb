package authRoutes

import (
	authControllers "khatabook/controllers/auth"
	"khatabook/middleware"
	authValidators "khatabook/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")
	limit := middleware.AuthRateLimit()

	authGroup.Post("/signup", limit, authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", limit, authValidators.Login(), authControllers.Login)
	authGroup.Post("/google", limit, authValidators.Google(), authControllers.GoogleLogin)
	authGroup.Get("/me", middleware.JWTMiddleware, middleware.LoadCurrentUser, authControllers.Me)
	authGroup.Get("/login/history", authValidators.LoginHistoryList(), middleware.JWTMiddleware, authControllers.LoginHistoryList)
}
