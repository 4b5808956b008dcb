package reports

import (
	"encoding/json"
	"fmt"
	"io"
	"khatabook/ledger"
	"khatabook/models"
	"time"
)

// Backup is the full JSON snapshot of a merchant's book
type Backup struct {
	Customers    []models.Customer    `json:"customers"`
	Transactions []models.Transaction `json:"transactions"`
	ExportDate   time.Time            `json:"exportDate"`
}

// BackupFilename builds khatabook-backup-YYYY-MM-DD.json
func BackupFilename(at time.Time) string {
	return fmt.Sprintf("khatabook-backup-%s.json", at.Format("2006-01-02"))
}

// NewBackup snapshots the given records
func NewBackup(customers []models.Customer, txns []models.Transaction, at time.Time) Backup {
	if customers == nil {
		customers = []models.Customer{}
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	return Backup{Customers: customers, Transactions: txns, ExportDate: at.UTC()}
}

// ImportPreview reports what a backup contains. Nothing is applied.
type ImportPreview struct {
	Customers    int       `json:"customers"`
	Transactions int       `json:"transactions"`
	ExportDate   time.Time `json:"exportDate"`
	Problems     []string  `json:"problems"`
	Valid        bool      `json:"valid"`
	Applied      bool      `json:"applied"`
}

// maxBackupSize bounds how much of an uploaded backup is read
const maxBackupSize = 20 << 20

// PreviewBackup decodes a backup document and checks it for internal
// consistency: known types and payment methods, positive amounts, entries
// pointing at customers in the same document, totals matching the entries.
func PreviewBackup(r io.Reader) (*ImportPreview, error) {
	var b Backup
	dec := json.NewDecoder(io.LimitReader(r, maxBackupSize))
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}

	p := &ImportPreview{
		Customers:    len(b.Customers),
		Transactions: len(b.Transactions),
		ExportDate:   b.ExportDate,
		Problems:     []string{},
	}

	known := make(map[uint]bool, len(b.Customers))
	for _, c := range b.Customers {
		if c.ID == 0 {
			p.Problems = append(p.Problems, fmt.Sprintf("customer %q has no id", c.Name))
			continue
		}
		if known[c.ID] {
			p.Problems = append(p.Problems, fmt.Sprintf("customer %d appears twice", c.ID))
			continue
		}
		known[c.ID] = true
	}

	byCustomer := make(map[uint][]models.Transaction, len(known))
	for _, t := range b.Transactions {
		switch {
		case !t.Type.Valid():
			p.Problems = append(p.Problems, fmt.Sprintf("transaction %d has unknown type %q", t.ID, t.Type))
		case !t.PaymentMethod.Valid():
			p.Problems = append(p.Problems, fmt.Sprintf("transaction %d has unknown payment method %q", t.ID, t.PaymentMethod))
		case !t.Amount.IsPositive():
			p.Problems = append(p.Problems, fmt.Sprintf("transaction %d has non-positive amount %s", t.ID, t.Amount))
		case !known[t.CustomerID]:
			p.Problems = append(p.Problems, fmt.Sprintf("transaction %d references missing customer %d", t.ID, t.CustomerID))
		default:
			byCustomer[t.CustomerID] = append(byCustomer[t.CustomerID], t)
		}
	}

	for _, c := range b.Customers {
		if c.ID == 0 {
			continue
		}
		stored := ledger.Totals{Credit: c.TotalCredit, Debit: c.TotalDebit, Balance: c.Balance}
		if !stored.Equal(ledger.RecomputeTotals(byCustomer[c.ID])) {
			p.Problems = append(p.Problems, fmt.Sprintf("customer %d totals do not match its transactions", c.ID))
		}
	}

	p.Valid = len(p.Problems) == 0
	return p, nil
}
