package ledger

import (
	"context"
	"errors"
	"fmt"
	"khatabook/models"
	"khatabook/realtime"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NewTransaction is the input of CreateTransaction. Reference is an optional
// client idempotency key; one is generated when empty.
type NewTransaction struct {
	Reference     string
	Type          models.TransactionType
	Amount        decimal.Decimal
	Item          string
	Quantity      *float64
	PaymentMethod models.PaymentMethod
	Note          string
}

func (in NewTransaction) validate() error {
	if !in.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, in.Type)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than 0", ErrInvalidTransaction)
	}
	if !in.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidTransaction, in.PaymentMethod)
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than 0", ErrInvalidTransaction)
	}
	return nil
}

// signedDelta splits an entry into its contribution to the credit and debit totals.
func signedDelta(t models.TransactionType, amount decimal.Decimal) (credit, debit decimal.Decimal) {
	if t == models.TransactionTypeCredit {
		return amount, decimal.Zero
	}
	return decimal.Zero, amount
}

// applyDelta adjusts a customer's running totals with in-database arithmetic so
// that concurrent writers never overwrite each other's contribution. Every sum
// is rounded to cents because SQLite keeps decimal columns as binary floats.
func applyDelta(tx *gorm.DB, userID, customerID uint, credit, debit decimal.Decimal) error {
	res := tx.Model(&models.Customer{}).
		Where("id = ? AND user_id = ?", customerID, userID).
		Updates(map[string]any{
			"total_credit": gorm.Expr("ROUND(total_credit + ?, 2)", credit),
			"total_debit":  gorm.Expr("ROUND(total_debit + ?, 2)", debit),
			"balance":      gorm.Expr("ROUND(balance + ?, 2)", debit.Sub(credit)),
		})
	if res.Error != nil {
		return fmt.Errorf("update customer totals: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// CreateTransaction records an entry and applies it to the customer's totals
// in a single DB transaction. It returns the entry and the customer as
// committed.
func (s *Store) CreateTransaction(ctx context.Context, userID, customerID uint, in NewTransaction) (*models.Transaction, *models.Customer, error) {
	in.Amount = in.Amount.Round(2)
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	in.Reference = strings.TrimSpace(in.Reference)
	if in.Reference == "" {
		in.Reference = uuid.NewString()
	}

	txn := models.Transaction{
		Reference:     in.Reference,
		CustomerID:    customerID,
		UserID:        userID,
		Type:          in.Type,
		Amount:        in.Amount,
		Item:          strings.TrimSpace(in.Item),
		Quantity:      in.Quantity,
		PaymentMethod: in.PaymentMethod,
		Note:          strings.TrimSpace(in.Note),
	}

	var customer *models.Customer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The totals update runs first so the whole transaction holds the
		// write lock on databases that take it lazily. It doubles as the
		// ownership check.
		credit, debit := signedDelta(txn.Type, txn.Amount)
		if err := applyDelta(tx, userID, customerID, credit, debit); err != nil {
			return err
		}

		var existing int64
		if err := tx.Unscoped().Model(&models.Transaction{}).
			Where("reference = ?", in.Reference).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check reference: %w", err)
		}
		if existing > 0 {
			return ErrDuplicateReference
		}

		if err := insertTransaction(tx, &txn); err != nil {
			return err
		}

		var err error
		customer, err = findCustomer(tx, userID, customerID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.publish(realtime.TransactionCreated, userID, customerID, txn.ID)
	return &txn, customer, nil
}

// insertTransaction writes txn. A unique-index conflict on the reference means
// a concurrent request with the same key committed first.
func insertTransaction(tx *gorm.DB, txn *models.Transaction) error {
	err := tx.Create(txn).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateReference
	}
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes an entry and reverses its effect on the customer's
// totals in a single DB transaction. A missing entry is not an error: the call
// reports deleted=false and changes nothing.
func (s *Store) DeleteTransaction(ctx context.Context, userID, customerID, transactionID uint) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		err := tx.Where("id = ? AND customer_id = ? AND user_id = ?", transactionID, customerID, userID).
			First(&txn).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load transaction %d: %w", transactionID, err)
		}

		if err := tx.Delete(&txn).Error; err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}

		credit, debit := signedDelta(txn.Type, txn.Amount)
		if err := applyDelta(tx, userID, customerID, credit.Neg(), debit.Neg()); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if deleted {
		s.publish(realtime.TransactionDeleted, userID, customerID, transactionID)
	}
	return deleted, nil
}

// GetTransaction loads one entry of a customer of userID
func (s *Store) GetTransaction(ctx context.Context, userID, customerID, transactionID uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.WithContext(ctx).
		Where("id = ? AND customer_id = ? AND user_id = ?", transactionID, customerID, userID).
		First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load transaction %d: %w", transactionID, err)
	}
	return &txn, nil
}

// ListTransactions returns the entries of userID, newest first. A non-zero
// customerID narrows the result to that customer.
func (s *Store) ListTransactions(ctx context.Context, userID, customerID uint) ([]models.Transaction, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if customerID != 0 {
		query = query.Where("customer_id = ?", customerID)
	}

	var txns []models.Transaction
	if err := query.Order("created_at DESC, id DESC").Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}
