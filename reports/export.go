package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"khatabook/ledger"
	"khatabook/models"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"
)

// PDFRowLimit is the number of entries listed in a PDF report
const PDFRowLimit = 20

var header = []string{"Date", "Customer", "Type", "Amount", "Item", "Payment Method", "Note"}

// Names maps customer ids to display names
type Names map[uint]string

// NamesOf indexes customers by id
func NamesOf(customers []models.Customer) Names {
	names := make(Names, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}
	return names
}

// Of returns the customer's name or "Unknown"
func (n Names) Of(id uint) string {
	if name, ok := n[id]; ok {
		return name
	}
	return "Unknown"
}

// Filename builds transactions-YYYY-MM-DD.<ext>
func Filename(ext string, at time.Time) string {
	return fmt.Sprintf("transactions-%s.%s", at.Format("2006-01-02"), ext)
}

func row(t models.Transaction, names Names) []string {
	return []string{
		t.CreatedAt.Format("2006-01-02 15:04"),
		names.Of(t.CustomerID),
		string(t.Type),
		t.Amount.String(),
		t.Item,
		string(t.PaymentMethod),
		t.Note,
	}
}

// WriteCSV writes a header row and one row per entry
func WriteCSV(w io.Writer, txns []models.Transaction, names Names) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, t := range txns {
		if err := writer.Write(row(t, names)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// BuildPDF renders the report title, the totals and the first PDFRowLimit entries.
func BuildPDF(stats ledger.ReportStats, txns []models.Transaction, names Names, at time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Transaction Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 10, "Transaction Report")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Generated: "+at.Format("02/01/2006 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total Transactions: %d", stats.TotalTransactions))
	pdf.Ln(8)
	pdf.Cell(0, 8, "Total Credit: Rs."+stats.TotalCredit.StringFixed(2))
	pdf.Ln(8)
	pdf.Cell(0, 8, "Total Debit: Rs."+stats.TotalDebit.StringFixed(2))
	pdf.Ln(12)

	limit := len(txns)
	if limit > PDFRowLimit {
		limit = PDFRowLimit
	}
	for i, t := range txns[:limit] {
		line := fmt.Sprintf("%d. %s - %s - Rs.%s", i+1, names.Of(t.CustomerID), strings.ToUpper(string(t.Type)), t.Amount.StringFixed(2))
		pdf.Cell(0, 8, line)
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildXLSX writes the CSV columns into a single "Transactions" sheet
func BuildXLSX(txns []models.Transaction, names Names) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Transactions"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for col, title := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, t := range txns {
		r := i + 2
		values := []any{
			t.CreatedAt.Format("2006-01-02 15:04"),
			names.Of(t.CustomerID),
			string(t.Type),
			t.Amount.InexactFloat64(),
			t.Item,
			string(t.PaymentMethod),
			t.Note,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
