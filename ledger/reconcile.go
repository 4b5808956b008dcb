package ledger

import (
	"context"
	"fmt"
	"khatabook/models"
	"khatabook/realtime"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Drift describes a customer whose stored totals disagree with its entries.
type Drift struct {
	CustomerID uint   `json:"customerId"`
	Name       string `json:"name"`
	Stored     Totals `json:"stored"`
	Actual     Totals `json:"actual"`
}

// sumExpr recomputes one total from the live entries of the row being updated.
func sumExpr(t models.TransactionType) string {
	return fmt.Sprintf(
		"ROUND((SELECT COALESCE(SUM(amount), 0) FROM %s WHERE %s.customer_id = customers.id AND %s.type = '%s' AND %s.deleted_at IS NULL), 2)",
		txnTable, txnTable, txnTable, t, txnTable,
	)
}

var txnTable = models.Transaction{}.TableName()

// Reconcile recomputes every customer of userID from its transactions and
// rewrites the totals of those that drifted. The rewrite is a single UPDATE per
// customer that sums inside the database, so it cannot miss a concurrent entry.
func (s *Store) Reconcile(ctx context.Context, userID uint) ([]Drift, error) {
	customers, err := s.ListCustomers(ctx, userID)
	if err != nil {
		return nil, err
	}
	txns, err := s.ListTransactions(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	byCustomer := make(map[uint][]models.Transaction, len(customers))
	for _, t := range txns {
		byCustomer[t.CustomerID] = append(byCustomer[t.CustomerID], t)
	}

	var drifts []Drift
	for _, c := range customers {
		stored := Totals{Credit: c.TotalCredit, Debit: c.TotalDebit, Balance: c.Balance}
		actual := RecomputeTotals(byCustomer[c.ID])
		if stored.Equal(actual) {
			continue
		}
		drifts = append(drifts, Drift{CustomerID: c.ID, Name: c.Name, Stored: stored, Actual: actual})
	}
	if len(drifts) == 0 {
		return nil, nil
	}

	credit, debit := sumExpr(models.TransactionTypeCredit), sumExpr(models.TransactionTypeDebit)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range drifts {
			if err := tx.Model(&models.Customer{}).
				Where("id = ? AND user_id = ?", d.CustomerID, userID).
				Updates(map[string]any{
					"total_credit": gorm.Expr(credit),
					"total_debit":  gorm.Expr(debit),
					"balance":      gorm.Expr("ROUND(" + debit + " - " + credit + ", 2)"),
				}).Error; err != nil {
				return fmt.Errorf("reconcile customer %d: %w", d.CustomerID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, d := range drifts {
		s.publish(realtime.CustomerUpdated, userID, d.CustomerID, 0)
	}
	return drifts, nil
}

// Totals is a customer's credit, debit and balance.
type Totals struct {
	Credit  decimal.Decimal `json:"totalCredit"`
	Debit   decimal.Decimal `json:"totalDebit"`
	Balance decimal.Decimal `json:"balance"`
}

// Equal compares totals by value
func (t Totals) Equal(o Totals) bool {
	return t.Credit.Equal(o.Credit) && t.Debit.Equal(o.Debit) && t.Balance.Equal(o.Balance)
}
