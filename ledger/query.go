package ledger

import (
	"khatabook/models"
	"sort"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
)

// TransactionFilters narrows a transaction list. Zero values do not filter.
// Amount and date bounds are inclusive.
type TransactionFilters struct {
	CustomerID    uint
	Type          models.TransactionType
	PaymentMethod models.PaymentMethod
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
	DateFrom      *time.Time
	DateTo        *time.Time
}

// Match reports whether t passes every set filter
func (f TransactionFilters) Match(t models.Transaction) bool {
	if f.CustomerID != 0 && t.CustomerID != f.CustomerID {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.PaymentMethod != "" && t.PaymentMethod != f.PaymentMethod {
		return false
	}
	if f.MinAmount != nil && t.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && t.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if f.DateFrom != nil && t.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && t.CreatedAt.After(*f.DateTo) {
		return false
	}
	return true
}

// FilterTransactions returns the entries matching f, preserving order.
func FilterTransactions(txns []models.Transaction, f TransactionFilters) []models.Transaction {
	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// SortByRecency returns a copy of txns ordered newest first.
func SortByRecency(txns []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txns))
	copy(out, txns)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// RecentTransactions returns at most limit entries, newest first. limit <= 0 means 10.
func RecentTransactions(txns []models.Transaction, limit int) []models.Transaction {
	if limit <= 0 {
		limit = 10
	}
	sorted := SortByRecency(txns)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// SearchCustomers matches the query case-insensitively against the name and
// as a substring of the phone. A blank query returns every customer.
func SearchCustomers(customers []models.Customer, query string) []models.Customer {
	q := strings.TrimSpace(query)
	if q == "" {
		return customers
	}
	lower := strings.ToLower(q)

	out := make([]models.Customer, 0)
	for _, c := range customers {
		if strings.Contains(strings.ToLower(c.Name), lower) || strings.Contains(c.Phone, q) {
			out = append(out, c)
		}
	}
	return out
}

// RecomputeTotals sums entries into credit, debit and balance.
func RecomputeTotals(txns []models.Transaction) Totals {
	totals := Totals{Credit: decimal.Zero, Debit: decimal.Zero}
	for _, t := range txns {
		switch t.Type {
		case models.TransactionTypeCredit:
			totals.Credit = totals.Credit.Add(t.Amount)
		case models.TransactionTypeDebit:
			totals.Debit = totals.Debit.Add(t.Amount)
		}
	}
	totals.Balance = totals.Debit.Sub(totals.Credit)
	return totals
}

// ReportStats summarizes a filtered transaction list
type ReportStats struct {
	TotalTransactions int             `json:"totalTransactions"`
	TotalCredit       decimal.Decimal `json:"totalCredit"`
	TotalDebit        decimal.Decimal `json:"totalDebit"`
	Net               decimal.Decimal `json:"net"`
}

func SummarizeTransactions(txns []models.Transaction) ReportStats {
	totals := RecomputeTotals(txns)
	return ReportStats{
		TotalTransactions: len(txns),
		TotalCredit:       totals.Credit,
		TotalDebit:        totals.Debit,
		Net:               totals.Balance,
	}
}

// DayActivity is the credit and debit volume of one calendar day
type DayActivity struct {
	Date   string          `json:"date"`
	Label  string          `json:"label"`
	Credit decimal.Decimal `json:"credit"`
	Debit  decimal.Decimal `json:"debit"`
}

// DailyActivity buckets entries into the `days` calendar days ending on the
// day of end, oldest first, in end's location. Entries outside the window
// are ignored.
func DailyActivity(txns []models.Transaction, end time.Time, days int) []DayActivity {
	if days <= 0 {
		days = 7
	}
	loc := end.Location()
	first := now.With(end).BeginningOfDay().AddDate(0, 0, -(days - 1))

	out := make([]DayActivity, days)
	index := make(map[string]int, days)
	for i := range out {
		day := first.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		out[i] = DayActivity{Date: key, Label: day.Format("Jan 02"), Credit: decimal.Zero, Debit: decimal.Zero}
		index[key] = i
	}

	for _, t := range txns {
		i, ok := index[t.CreatedAt.In(loc).Format("2006-01-02")]
		if !ok {
			continue
		}
		switch t.Type {
		case models.TransactionTypeCredit:
			out[i].Credit = out[i].Credit.Add(t.Amount)
		case models.TransactionTypeDebit:
			out[i].Debit = out[i].Debit.Add(t.Amount)
		}
	}
	return out
}

// ChartSlice is one named value of a pie chart
type ChartSlice struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color,omitempty"`
}

// Dashboard is the merchant's overview
type Dashboard struct {
	TotalCustomers     int                  `json:"totalCustomers"`
	TotalCredit        decimal.Decimal      `json:"totalCredit"`
	TotalDebit         decimal.Decimal      `json:"totalDebit"`
	PendingBalance     decimal.Decimal      `json:"pendingBalance"`
	RecentTransactions []models.Transaction `json:"recentTransactions"`
	CreditDebit        []ChartSlice         `json:"creditDebit"`
	DailyActivity      []DayActivity        `json:"dailyActivity"`
}

// BuildDashboard aggregates the customers' running totals and the entries
// of the last seven days up to at.
func BuildDashboard(customers []models.Customer, txns []models.Transaction, at time.Time) Dashboard {
	credit, debit := decimal.Zero, decimal.Zero
	for _, c := range customers {
		credit = credit.Add(c.TotalCredit)
		debit = debit.Add(c.TotalDebit)
	}

	return Dashboard{
		TotalCustomers:     len(customers),
		TotalCredit:        credit,
		TotalDebit:         debit,
		PendingBalance:     debit.Sub(credit),
		RecentTransactions: RecentTransactions(txns, 5),
		CreditDebit: []ChartSlice{
			{Name: "Credit", Value: credit, Color: "#10B981"},
			{Name: "Debit", Value: debit, Color: "#EF4444"},
		},
		DailyActivity: DailyActivity(txns, at, 7),
	}
}
