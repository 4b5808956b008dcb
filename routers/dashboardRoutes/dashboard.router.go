package dashboardRoutes

import (
	dashboardControllers "khatabook/controllers/dashboard"
	"khatabook/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App) {
	app.Get("/dashboard", middleware.JWTMiddleware, dashboardControllers.Dashboard)
}
