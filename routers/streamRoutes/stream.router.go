package streamRoutes

import (
	streamControllers "khatabook/controllers/stream"
	"khatabook/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupStreamRoutes(app *fiber.App) {
	app.Get("/stream", middleware.JWTMiddleware, streamControllers.Stream)
}
