package transactionRoutes

import (
	transactionControllers "khatabook/controllers/transaction"
	"khatabook/middleware"
	transactionValidators "khatabook/validators/transaction"

	"github.com/gofiber/fiber/v2"
)

func SetupTransactionRoutes(app *fiber.App) {
	app.Get("/transactions", middleware.JWTMiddleware, transactionValidators.Filters(), transactionControllers.ListTransactions)
}
