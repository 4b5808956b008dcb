package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer is one account in a merchant's book. TotalCredit, TotalDebit and
// Balance are running totals owned by the ledger; Balance = TotalDebit - TotalCredit.
type Customer struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"userId"`
	Name        string          `gorm:"type:varchar(120);not null" json:"name"`
	Phone       string          `gorm:"type:varchar(20);not null;index" json:"phone"`
	Address     string          `gorm:"type:text" json:"address,omitempty"`
	TotalCredit decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"totalCredit"`
	TotalDebit  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"totalDebit"`
	Balance     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"balance"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
