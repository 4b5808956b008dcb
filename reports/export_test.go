package reports

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"khatabook/ledger"
	"khatabook/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var at = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func fixtures() ([]models.Customer, []models.Transaction) {
	qty := 2.0
	customers := []models.Customer{
		{ID: 1, Name: "Ramesh", Phone: "9876543210", TotalCredit: decimal.RequireFromString("120"), TotalDebit: decimal.RequireFromString("20"), Balance: decimal.RequireFromString("-100")},
	}
	txns := []models.Transaction{
		{ID: 10, CustomerID: 1, Type: models.TransactionTypeCredit, Amount: decimal.RequireFromString("120"), Item: "Rice, 5kg", Quantity: &qty, PaymentMethod: models.PaymentMethodPending, CreatedAt: at},
		{ID: 11, CustomerID: 1, Type: models.TransactionTypeDebit, Amount: decimal.RequireFromString("20"), PaymentMethod: models.PaymentMethodUPI, Note: "part payment", CreatedAt: at.Add(time.Hour)},
		{ID: 12, CustomerID: 42, Type: models.TransactionTypeDebit, Amount: decimal.RequireFromString("5"), PaymentMethod: models.PaymentMethodCash, CreatedAt: at},
	}
	return customers, txns
}

func TestWriteCSV(t *testing.T) {
	customers, txns := fixtures()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, txns, NamesOf(customers)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, header, records[0])
	assert.Equal(t, []string{"2024-05-01 09:30", "Ramesh", "credit", "120", "Rice, 5kg", "pending", ""}, records[1])
	assert.Equal(t, "part payment", records[2][6])
	assert.Equal(t, "Unknown", records[3][1])
}

func TestBuildPDF(t *testing.T) {
	customers, txns := fixtures()
	many := make([]models.Transaction, 0, 30)
	for i := 0; i < 30; i++ {
		many = append(many, txns[i%len(txns)])
	}

	out, err := BuildPDF(ledger.SummarizeTransactions(many), many, NamesOf(customers), at)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestBuildXLSX(t *testing.T) {
	customers, txns := fixtures()
	out, err := BuildXLSX(txns, NamesOf(customers))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, "Ramesh", rows[1][1])
	assert.Equal(t, "120", rows[1][3])
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "transactions-2024-05-01.csv", Filename("csv", at))
	assert.Equal(t, "khatabook-backup-2024-05-01.json", BackupFilename(at))
}

func TestBackupRoundTripPreview(t *testing.T) {
	customers, txns := fixtures()
	payload, err := json.Marshal(NewBackup(customers, txns[:2], at))
	require.NoError(t, err)

	preview, err := PreviewBackup(bytes.NewReader(payload))
	require.NoError(t, err)
	assert.True(t, preview.Valid, "problems: %v", preview.Problems)
	assert.False(t, preview.Applied)
	assert.Equal(t, 1, preview.Customers)
	assert.Equal(t, 2, preview.Transactions)
	assert.True(t, at.Equal(preview.ExportDate))
}

func TestPreviewBackupReportsProblems(t *testing.T) {
	doc := `{
		"customers": [
			{"id": 1, "name": "Ramesh", "totalCredit": "50", "totalDebit": "0", "balance": "-50"},
			{"id": 1, "name": "Again"}
		],
		"transactions": [
			{"id": 1, "customerId": 1, "type": "credit", "amount": 40, "paymentMethod": "cash"},
			{"id": 2, "customerId": 1, "type": "refund", "amount": 5, "paymentMethod": "cash"},
			{"id": 3, "customerId": 1, "type": "debit", "amount": 0, "paymentMethod": "upi"},
			{"id": 4, "customerId": 9, "type": "debit", "amount": 3, "paymentMethod": "card"},
			{"id": 5, "customerId": 1, "type": "debit", "amount": 3, "paymentMethod": "wallet"}
		],
		"exportDate": "2024-05-01T09:30:00Z"
	}`

	preview, err := PreviewBackup(strings.NewReader(doc))
	require.NoError(t, err)
	assert.False(t, preview.Valid)
	joined := strings.Join(preview.Problems, "\n")
	assert.Contains(t, joined, "customer 1 appears twice")
	assert.Contains(t, joined, `unknown type "refund"`)
	assert.Contains(t, joined, "non-positive amount")
	assert.Contains(t, joined, "missing customer 9")
	assert.Contains(t, joined, `unknown payment method "wallet"`)
	assert.Contains(t, joined, "customer 1 totals do not match")
}

func TestPreviewBackupRejectsGarbage(t *testing.T) {
	_, err := PreviewBackup(strings.NewReader("not json"))
	assert.Error(t, err)
}
