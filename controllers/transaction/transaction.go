package transactionController

import (
	"khatabook/database"
	"khatabook/ledger"
	"khatabook/middleware"
	"khatabook/realtime"
	transactionValidator "khatabook/validators/transaction"

	"github.com/gofiber/fiber/v2"
)

func store() *ledger.Store {
	return ledger.NewStore(database.Database.Db, realtime.Default)
}

// CreateTransaction records a credit or debit and returns it with the
// customer's updated totals.
func CreateTransaction(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	customerId := c.Locals("customerId").(uint)
	reqData, ok := c.Locals("validatedTransaction").(*transactionValidator.TransactionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	txn, customer, err := store().CreateTransaction(c.UserContext(), userId, customerId, reqData.Input())
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to record transaction!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Transaction recorded successfully.", fiber.Map{
		"transaction": txn,
		"customer":    customer,
	})
}

// DeleteTransaction reverses an entry. Deleting an entry that does not exist
// succeeds with deleted=false.
func DeleteTransaction(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	customerId := c.Locals("customerId").(uint)
	transactionId := c.Locals("transactionId").(uint)

	s := store()
	deleted, err := s.DeleteTransaction(c.UserContext(), userId, customerId, transactionId)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to delete transaction!")
	}

	customer, err := s.GetCustomer(c.UserContext(), userId, customerId)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to delete transaction!")
	}

	message := "Transaction deleted successfully."
	if !deleted {
		message = "Transaction already removed."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"deleted":  deleted,
		"customer": customer,
	})
}

// GetTransaction returns one entry of a customer
func GetTransaction(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	customerId := c.Locals("customerId").(uint)
	transactionId := c.Locals("transactionId").(uint)

	txn, err := store().GetTransaction(c.UserContext(), userId, customerId, transactionId)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to load transaction!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction Details.", txn)
}

// ListCustomerTransactions returns one customer's entries, newest first
func ListCustomerTransactions(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	customerId := c.Locals("customerId").(uint)

	s := store()
	customer, err := s.GetCustomer(c.UserContext(), userId, customerId)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to load transactions!")
	}

	txns, err := s.ListTransactions(c.UserContext(), userId, customerId)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to load transactions!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction List.", fiber.Map{
		"customer":     customer,
		"transactions": txns,
	})
}

// ListTransactions returns the caller's entries across customers with the
// report filters applied. limit keeps only the most recent entries.
func ListTransactions(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	query, ok := c.Locals("validatedFilters").(*transactionValidator.ListQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	txns, err := store().ListTransactions(c.UserContext(), userId, query.Filters.CustomerID)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to load transactions!")
	}

	txns = ledger.FilterTransactions(txns, query.Filters)
	if query.Limit > 0 {
		txns = ledger.RecentTransactions(txns, query.Limit)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction List.", fiber.Map{
		"transactions": txns,
		"total":        len(txns),
	})
}
