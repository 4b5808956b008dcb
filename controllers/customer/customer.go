package customerController

import (
	"fmt"
	"khatabook/database"
	"khatabook/ledger"
	"khatabook/middleware"
	"khatabook/realtime"
	"khatabook/utils"
	customerValidator "khatabook/validators/customer"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

func store() *ledger.Store {
	return ledger.NewStore(database.Database.Db, realtime.Default)
}

func input(r *customerValidator.CustomerRequest) ledger.CustomerInput {
	return ledger.CustomerInput{Name: r.Name, Phone: r.Phone, Address: r.Address}
}

// ListCustomers returns the caller's customers, newest first, narrowed by ?search=
func ListCustomers(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	customers, err := store().ListCustomers(c.UserContext(), userId)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to load customers!")
	}
	customers = ledger.SearchCustomers(customers, c.Query("search"))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Customer List.", fiber.Map{
		"customers": customers,
		"total":     len(customers),
	})
}

func CreateCustomer(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData, ok := c.Locals("validatedCustomer").(*customerValidator.CustomerRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	customer, err := store().CreateCustomer(c.UserContext(), userId, input(reqData))
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to add customer!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Customer added successfully.", customer)
}

func GetCustomer(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	customerId := c.Locals("customerId").(uint)

	customer, err := store().GetCustomer(c.UserContext(), userId, customerId)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to load customer!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Customer details.", customer)
}

// UpdateCustomer changes name, phone and address. Totals are never touched here.
func UpdateCustomer(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	customerId := c.Locals("customerId").(uint)
	reqData, ok := c.Locals("validatedCustomer").(*customerValidator.CustomerRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	customer, err := store().UpdateCustomer(c.UserContext(), userId, customerId, input(reqData))
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to update customer!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Customer updated successfully.", customer)
}

// DeleteCustomer removes the customer together with its transactions
func DeleteCustomer(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	customerId := c.Locals("customerId").(uint)

	removed, err := store().DeleteCustomer(c.UserContext(), userId, customerId)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to delete customer!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Customer deleted successfully.", fiber.Map{
		"id":                  customerId,
		"deletedTransactions": removed,
	})
}

func qrData(c *fiber.Ctx, userId uint) (string, error) {
	customer, err := store().GetCustomer(c.UserContext(), userId, c.Locals("customerId").(uint))
	if err != nil {
		return "", err
	}
	return utils.CustomerQRData(customer.ID, customer.Name, time.Now())
}

// CustomerQRCode renders the customer's QR payload as a PNG
func CustomerQRCode(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData, ok := c.Locals("validatedQR").(*customerValidator.QRRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	data, err := qrData(c, userId)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to build QR code!")
	}

	png, err := utils.GenerateQRCodePNG(data, reqData.Size)
	if err != nil {
		log.Printf("Error generating QR code: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build QR code!", nil)
	}

	if reqData.Download {
		c.Attachment(fmt.Sprintf("customer-%d-qr.png", c.Locals("customerId").(uint)))
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(png)
}

// CustomerQRPayload returns the string a customer's QR code encodes
func CustomerQRPayload(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	data, err := qrData(c, userId)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to build QR code!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "QR payload.", fiber.Map{"payload": data})
}
