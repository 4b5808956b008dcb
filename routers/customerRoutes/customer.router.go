package customerRoutes

import (
	customerControllers "khatabook/controllers/customer"
	transactionControllers "khatabook/controllers/transaction"
	"khatabook/middleware"
	customerValidators "khatabook/validators/customer"
	transactionValidators "khatabook/validators/transaction"

	"github.com/gofiber/fiber/v2"
)

func SetupCustomerRoutes(app *fiber.App) {
	customerGroup := app.Group("/customers", middleware.JWTMiddleware)
	withID := customerValidators.CustomerID()

	customerGroup.Get("/", customerControllers.ListCustomers)
	customerGroup.Post("/", customerValidators.Customer(), customerControllers.CreateCustomer)
	customerGroup.Get("/:id", withID, customerControllers.GetCustomer)
	customerGroup.Put("/:id", withID, customerValidators.Customer(), customerControllers.UpdateCustomer)
	customerGroup.Delete("/:id", withID, customerControllers.DeleteCustomer)

	customerGroup.Get("/:id/qr", withID, customerValidators.QRCode(), customerControllers.CustomerQRCode)
	customerGroup.Get("/:id/qr/payload", withID, customerControllers.CustomerQRPayload)

	customerGroup.Get("/:id/transactions", withID, transactionControllers.ListCustomerTransactions)
	customerGroup.Post("/:id/transactions", withID, transactionValidators.CreateTransaction(), transactionControllers.CreateTransaction)
	customerGroup.Get("/:id/transactions/:transactionId", withID, transactionValidators.TransactionID(), transactionControllers.GetTransaction)
	customerGroup.Delete("/:id/transactions/:transactionId", withID, transactionValidators.TransactionID(), transactionControllers.DeleteTransaction)
}
