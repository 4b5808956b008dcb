package reportController

import (
	"bytes"
	"khatabook/database"
	"khatabook/ledger"
	"khatabook/middleware"
	"khatabook/realtime"
	"khatabook/reports"
	transactionValidator "khatabook/validators/transaction"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TransactionReport returns the filtered entries with their totals, or the same
// set as a CSV, PDF or XLSX download when format asks for one.
func TransactionReport(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	query, ok := c.Locals("validatedFilters").(*transactionValidator.ListQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	store := ledger.NewStore(database.Database.Db, realtime.Default)
	customers, err := store.ListCustomers(c.UserContext(), userId)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to build report!")
	}
	txns, err := store.ListTransactions(c.UserContext(), userId, query.Filters.CustomerID)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to build report!")
	}

	txns = ledger.FilterTransactions(txns, query.Filters)
	if query.Limit > 0 {
		txns = ledger.RecentTransactions(txns, query.Limit)
	}
	stats := ledger.SummarizeTransactions(txns)
	names := reports.NamesOf(customers)
	generatedAt := time.Now()

	switch query.Format {
	case "csv":
		var buf bytes.Buffer
		if err := reports.WriteCSV(&buf, txns, names); err != nil {
			log.Printf("Error writing CSV report: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build report!", nil)
		}
		c.Attachment(reports.Filename("csv", generatedAt))
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.Send(buf.Bytes())

	case "pdf":
		out, err := reports.BuildPDF(stats, txns, names, generatedAt)
		if err != nil {
			log.Printf("Error writing PDF report: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build report!", nil)
		}
		c.Attachment(reports.Filename("pdf", generatedAt))
		c.Set(fiber.HeaderContentType, "application/pdf")
		return c.Send(out)

	case "xlsx":
		out, err := reports.BuildXLSX(txns, names)
		if err != nil {
			log.Printf("Error writing XLSX report: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build report!", nil)
		}
		c.Attachment(reports.Filename("xlsx", generatedAt))
		c.Set(fiber.HeaderContentType, xlsxContentType)
		return c.Send(out)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction Report.", fiber.Map{
		"stats":        stats,
		"transactions": txns,
	})
}
