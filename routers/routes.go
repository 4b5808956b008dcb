package routers

import (
	"khatabook/routers/authRoutes"
	"khatabook/routers/customerRoutes"
	"khatabook/routers/dashboardRoutes"
	"khatabook/routers/reportRoutes"
	"khatabook/routers/settingsRoutes"
	"khatabook/routers/streamRoutes"
	"khatabook/routers/transactionRoutes"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes registers every API route on app
func SetupRoutes(app *fiber.App) {
	authRoutes.SetupAuthRoutes(app)
	customerRoutes.SetupCustomerRoutes(app)
	transactionRoutes.SetupTransactionRoutes(app)
	dashboardRoutes.SetupDashboardRoutes(app)
	reportRoutes.SetupReportRoutes(app)
	settingsRoutes.SetupSettingsRoutes(app)
	streamRoutes.SetupStreamRoutes(app)
}
