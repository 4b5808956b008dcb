package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType is the direction of a ledger entry
type TransactionType string

const (
	// TransactionTypeCredit is a sale extended on credit; the customer owes more.
	TransactionTypeCredit TransactionType = "credit"
	// TransactionTypeDebit is a payment received; the customer owes less.
	TransactionTypeDebit TransactionType = "debit"
)

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

// PaymentMethod defines how a transaction was settled
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodUPI     PaymentMethod = "upi"
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodPending PaymentMethod = "pending"
)

// Valid reports whether m is a known payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodCard, PaymentMethodPending:
		return true
	}
	return false
}

// Transaction is an immutable ledger entry against a customer.
type Transaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Reference     string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"reference"`
	CustomerID    uint            `gorm:"not null;index" json:"customerId"`
	UserID        uint            `gorm:"not null;index" json:"userId"`
	Type          TransactionType `gorm:"type:varchar(10);not null" json:"type"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Item          string          `gorm:"type:varchar(255)" json:"item,omitempty"`
	Quantity      *float64        `json:"quantity,omitempty"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(10);not null" json:"paymentMethod"`
	Note          string          `gorm:"type:text" json:"note,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

func (Transaction) TableName() string {
	return "ledger_transactions"
}
