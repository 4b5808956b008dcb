package transactionValidator

import (
	"khatabook/ledger"
	"khatabook/middleware"
	"khatabook/models"
	"khatabook/utils"
	"khatabook/validators/common"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// maxAmount is the largest value a decimal(14,2) column holds
var maxAmount = decimal.RequireFromString("999999999999.99")

type TransactionRequest struct {
	Reference     string          `json:"reference" validate:"max=64"`
	Type          string          `json:"type" validate:"required,oneof=credit debit"`
	Amount        decimal.Decimal `json:"amount"`
	Item          string          `json:"item" validate:"max=200"`
	Quantity      *float64        `json:"quantity" validate:"omitempty,gt=0"`
	PaymentMethod string          `json:"paymentMethod" validate:"required,oneof=cash upi card pending"`
	Note          string          `json:"note" validate:"max=500"`
}

// Input converts the request into the ledger's input type
func (r *TransactionRequest) Input() ledger.NewTransaction {
	return ledger.NewTransaction{
		Reference:     r.Reference,
		Type:          models.TransactionType(r.Type),
		Amount:        r.Amount,
		Item:          r.Item,
		Quantity:      r.Quantity,
		PaymentMethod: models.PaymentMethod(r.PaymentMethod),
		Note:          r.Note,
	}
}

// CreateTransaction validator middleware
func CreateTransaction() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TransactionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Reference = strings.TrimSpace(reqData.Reference)
		reqData.Type = strings.ToLower(strings.TrimSpace(reqData.Type))
		reqData.PaymentMethod = strings.ToLower(strings.TrimSpace(reqData.PaymentMethod))
		reqData.Item = strings.TrimSpace(reqData.Item)
		reqData.Note = strings.TrimSpace(reqData.Note)

		errors := common.Struct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}

		switch {
		case !reqData.Amount.IsPositive():
			errors["amount"] = "Amount must be greater than 0!"
		case reqData.Amount.GreaterThan(maxAmount):
			errors["amount"] = "Amount is too large!"
		case !reqData.Amount.Equal(reqData.Amount.Round(2)):
			errors["amount"] = "Amount can have at most 2 decimal places!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTransaction", reqData)
		return c.Next()
	}
}

// TransactionID checks the :transactionId route parameter
func TransactionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("transactionId")
		if err != nil || id <= 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"transactionId": "Invalid transaction id!"})
		}
		c.Locals("transactionId", uint(id))
		return c.Next()
	}
}

type filterQuery struct {
	CustomerID    uint   `query:"customerId"`
	Type          string `query:"type" validate:"omitempty,oneof=credit debit"`
	PaymentMethod string `query:"paymentMethod" validate:"omitempty,oneof=cash upi card pending"`
	MinAmount     string `query:"minAmount"`
	MaxAmount     string `query:"maxAmount"`
	DateFrom      string `query:"dateFrom"`
	DateTo        string `query:"dateTo"`
	Limit         int    `query:"limit" validate:"gte=0,lte=1000"`
	Format        string `query:"format" validate:"omitempty,oneof=json csv pdf xlsx"`
}

// ListQuery is a validated filter set for listing and reporting
type ListQuery struct {
	Filters ledger.TransactionFilters
	Limit   int
	Format  string
}

// Filters parses the report and list query parameters into ledger filters.
// Date-only dateTo values cover the whole day.
func Filters() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := new(filterQuery)
		if err := c.QueryParser(q); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := common.Struct(q)
		if errors == nil {
			errors = make(map[string]string)
		}

		out := &ListQuery{
			Filters: ledger.TransactionFilters{
				CustomerID:    q.CustomerID,
				Type:          models.TransactionType(q.Type),
				PaymentMethod: models.PaymentMethod(q.PaymentMethod),
			},
			Limit:  q.Limit,
			Format: q.Format,
		}
		if out.Format == "" {
			out.Format = "json"
		}

		if q.MinAmount != "" {
			v, err := decimal.NewFromString(q.MinAmount)
			if err != nil {
				errors["minAmount"] = "minAmount must be a number!"
			} else {
				out.Filters.MinAmount = &v
			}
		}
		if q.MaxAmount != "" {
			v, err := decimal.NewFromString(q.MaxAmount)
			if err != nil {
				errors["maxAmount"] = "maxAmount must be a number!"
			} else {
				out.Filters.MaxAmount = &v
			}
		}

		from, err := utils.ParseFilterDate(q.DateFrom, false)
		if err != nil {
			errors["dateFrom"] = err.Error()
		}
		to, err := utils.ParseFilterDate(q.DateTo, true)
		if err != nil {
			errors["dateTo"] = err.Error()
		}
		out.Filters.DateFrom, out.Filters.DateTo = from, to

		if from != nil && to != nil && from.After(*to) {
			errors["dateTo"] = "dateTo must not be before dateFrom!"
		}
		if out.Filters.MinAmount != nil && out.Filters.MaxAmount != nil && out.Filters.MinAmount.GreaterThan(*out.Filters.MaxAmount) {
			errors["maxAmount"] = "maxAmount must not be below minAmount!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedFilters", out)
		return c.Next()
	}
}
