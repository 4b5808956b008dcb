package ledger

import (
	"testing"
	"time"

	"khatabook/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func sample() []models.Transaction {
	return []models.Transaction{
		{ID: 1, CustomerID: 1, Type: models.TransactionTypeCredit, Amount: dec("100"), PaymentMethod: models.PaymentMethodCash, CreatedAt: base.AddDate(0, 0, -3)},
		{ID: 2, CustomerID: 1, Type: models.TransactionTypeDebit, Amount: dec("30"), PaymentMethod: models.PaymentMethodUPI, CreatedAt: base.AddDate(0, 0, -2)},
		{ID: 3, CustomerID: 2, Type: models.TransactionTypeCredit, Amount: dec("45.50"), PaymentMethod: models.PaymentMethodCard, CreatedAt: base.AddDate(0, 0, -1)},
		{ID: 4, CustomerID: 2, Type: models.TransactionTypeDebit, Amount: dec("200"), PaymentMethod: models.PaymentMethodPending, CreatedAt: base},
		{ID: 5, CustomerID: 3, Type: models.TransactionTypeCredit, Amount: dec("10"), PaymentMethod: models.PaymentMethodCash, CreatedAt: base.AddDate(0, 0, -20)},
	}
}

func ids(txns []models.Transaction) []uint {
	out := make([]uint, 0, len(txns))
	for _, t := range txns {
		out = append(out, t.ID)
	}
	return out
}

func ptrTime(t time.Time) *time.Time { return &t }

func ptrDec(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestFilterTransactions(t *testing.T) {
	tests := []struct {
		name   string
		filter TransactionFilters
		want   []uint
	}{
		{"no filters", TransactionFilters{}, []uint{1, 2, 3, 4, 5}},
		{"customer", TransactionFilters{CustomerID: 2}, []uint{3, 4}},
		{"type", TransactionFilters{Type: models.TransactionTypeCredit}, []uint{1, 3, 5}},
		{"payment method", TransactionFilters{PaymentMethod: models.PaymentMethodCash}, []uint{1, 5}},
		{"amount range inclusive", TransactionFilters{MinAmount: ptrDec("30"), MaxAmount: ptrDec("100")}, []uint{1, 2, 3}},
		{"min only", TransactionFilters{MinAmount: ptrDec("100")}, []uint{1, 4}},
		{"date range inclusive", TransactionFilters{DateFrom: ptrTime(base.AddDate(0, 0, -2)), DateTo: ptrTime(base)}, []uint{2, 3, 4}},
		{"date to only", TransactionFilters{DateTo: ptrTime(base.AddDate(0, 0, -3))}, []uint{1, 5}},
		{"combined", TransactionFilters{Type: models.TransactionTypeDebit, DateFrom: ptrTime(base.AddDate(0, 0, -1))}, []uint{4}},
		{"nothing matches", TransactionFilters{CustomerID: 9}, []uint{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterTransactions(sample(), tt.filter)))
		})
	}
}

func TestRecentTransactions(t *testing.T) {
	txns := sample()
	assert.Equal(t, []uint{4, 3, 2}, ids(RecentTransactions(txns, 3)))
	assert.Equal(t, []uint{4, 3, 2, 1, 5}, ids(RecentTransactions(txns, 0)))
	// input untouched
	assert.Equal(t, []uint{1, 2, 3, 4, 5}, ids(txns))
}

func TestSearchCustomers(t *testing.T) {
	customers := []models.Customer{
		{ID: 1, Name: "Ramesh Kumar", Phone: "9876543210"},
		{ID: 2, Name: "Suresh", Phone: "9123456780"},
		{ID: 3, Name: "Meena Devi", Phone: "8000012345"},
	}
	names := func(cs []models.Customer) []string {
		out := make([]string, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.Name)
		}
		return out
	}

	assert.Len(t, SearchCustomers(customers, "   "), 3)
	assert.Equal(t, []string{"Ramesh Kumar", "Suresh"}, names(SearchCustomers(customers, "ESH")))
	assert.Equal(t, []string{"Meena Devi"}, names(SearchCustomers(customers, "devi")))
	assert.Equal(t, []string{"Ramesh Kumar"}, names(SearchCustomers(customers, "210")), "phone substring")
	assert.Equal(t, []string{"Meena Devi"}, names(SearchCustomers(customers, "8000012345")))
	assert.Empty(t, SearchCustomers(customers, "zzz"))
}

func TestSummarizeTransactions(t *testing.T) {
	stats := SummarizeTransactions(sample())
	assert.Equal(t, 5, stats.TotalTransactions)
	assert.True(t, dec("155.50").Equal(stats.TotalCredit))
	assert.True(t, dec("230").Equal(stats.TotalDebit))
	assert.True(t, dec("74.50").Equal(stats.Net))
}

func TestDailyActivity(t *testing.T) {
	days := DailyActivity(sample(), base, 7)
	require.Len(t, days, 7)
	assert.Equal(t, "2024-03-04", days[0].Date)
	assert.Equal(t, "Mar 10", days[6].Label)

	assert.True(t, dec("100").Equal(days[3].Credit))
	assert.True(t, dec("30").Equal(days[4].Debit))
	assert.True(t, dec("45.5").Equal(days[5].Credit))
	assert.True(t, dec("200").Equal(days[6].Debit))
	assert.True(t, days[0].Credit.IsZero())
}

func TestBuildDashboard(t *testing.T) {
	customers := []models.Customer{
		{ID: 1, TotalCredit: dec("100"), TotalDebit: dec("30")},
		{ID: 2, TotalCredit: dec("45.50"), TotalDebit: dec("200")},
	}
	d := BuildDashboard(customers, sample(), base)

	assert.Equal(t, 2, d.TotalCustomers)
	assert.True(t, dec("145.50").Equal(d.TotalCredit))
	assert.True(t, dec("230").Equal(d.TotalDebit))
	assert.True(t, dec("84.50").Equal(d.PendingBalance))
	assert.Equal(t, []uint{4, 3, 2, 1, 5}, ids(d.RecentTransactions))
	require.Len(t, d.CreditDebit, 2)
	assert.Equal(t, "Credit", d.CreditDebit[0].Name)
	assert.Len(t, d.DailyActivity, 7)
}
