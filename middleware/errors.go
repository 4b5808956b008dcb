package middleware

import (
	"errors"
	"khatabook/ledger"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LedgerError answers a failed store call. Known ledger errors map to 404, 409
// or 422; anything else is logged and reported as a 500 with failMessage.
func LedgerError(c *fiber.Ctx, err error, failMessage string) error {
	switch {
	case errors.Is(err, ledger.ErrCustomerNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Customer not found!", nil)
	case errors.Is(err, ledger.ErrTransactionNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Transaction not found!", nil)
	case errors.Is(err, ledger.ErrDuplicateReference):
		return JsonResponse(c, fiber.StatusConflict, false, "Transaction reference already used!", nil)
	case errors.Is(err, ledger.ErrInvalidTransaction), errors.Is(err, ledger.ErrInvalidCustomer):
		return ValidationErrorResponse(c, map[string]string{"request": detail(err)})
	}

	log.Printf("[LEDGER] %s %s: %v", c.Method(), c.Path(), err)
	return JsonResponse(c, fiber.StatusInternalServerError, false, failMessage, nil)
}

// detail drops the sentinel prefix from a wrapped validation error
func detail(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
