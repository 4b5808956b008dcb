package settingsRoutes

import (
	settingsControllers "khatabook/controllers/settings"
	"khatabook/middleware"
	settingsValidators "khatabook/validators/settings"

	"github.com/gofiber/fiber/v2"
)

func SetupSettingsRoutes(app *fiber.App) {
	settingsGroup := app.Group("/settings", middleware.JWTMiddleware)

	settingsGroup.Put("/profile", middleware.LoadCurrentUser, settingsValidators.UpdateProfile(), settingsControllers.UpdateProfile)
	settingsGroup.Get("/backup", settingsControllers.Backup)
	settingsGroup.Post("/import", settingsControllers.ImportPreview)
	settingsGroup.Post("/reconcile", settingsControllers.Reconcile)
}
