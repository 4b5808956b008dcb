package customerValidator

import (
	"khatabook/middleware"
	"khatabook/utils"
	"khatabook/validators/common"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CustomerRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Phone   string `json:"phone" validate:"required,phone"`
	Address string `json:"address" validate:"max=255"`
}

type QRRequest struct {
	Size     int  `query:"size" validate:"gte=100,lte=1000"`
	Download bool `query:"download"`
}

// Customer validates the body of create and update requests
func Customer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CustomerRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Phone = strings.TrimSpace(reqData.Phone)
		reqData.Address = strings.TrimSpace(reqData.Address)

		if errors := common.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCustomer", reqData)
		return c.Next()
	}
}

// CustomerID checks the :id route parameter and stores it as "customerId"
func CustomerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"id": "Invalid customer id!"})
		}
		c.Locals("customerId", uint(id))
		return c.Next()
	}
}

// QRCode validates the size and download query parameters
func QRCode() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &QRRequest{Size: utils.DefaultQRSize}
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if errors := common.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQR", reqData)
		return c.Next()
	}
}
