package dashboardController

import (
	"khatabook/database"
	"khatabook/ledger"
	"khatabook/middleware"
	"khatabook/realtime"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Dashboard returns the caller's totals, recent entries and seven day activity
func Dashboard(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	store := ledger.NewStore(database.Database.Db, realtime.Default)
	customers, err := store.ListCustomers(c.UserContext(), userId)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to load dashboard!")
	}
	txns, err := store.ListTransactions(c.UserContext(), userId, 0)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to load dashboard!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard.", ledger.BuildDashboard(customers, txns, time.Now()))
}
