package reportRoutes

import (
	reportControllers "khatabook/controllers/report"
	"khatabook/middleware"
	transactionValidators "khatabook/validators/transaction"

	"github.com/gofiber/fiber/v2"
)

func SetupReportRoutes(app *fiber.App) {
	reportGroup := app.Group("/reports", middleware.JWTMiddleware)

	reportGroup.Get("/transactions", transactionValidators.Filters(), reportControllers.TransactionReport)
}
