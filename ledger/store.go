package ledger

import (
	"context"
	"errors"
	"fmt"
	"khatabook/models"
	"khatabook/realtime"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateReference  = errors.New("transaction reference already used")
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrInvalidCustomer     = errors.New("invalid customer")
)

// Notifier receives ledger change events after they are committed.
type Notifier interface {
	Publish(e realtime.Event)
}

// Store is the owner-scoped repository for customers and their transactions.
// Every method takes the owning user id; rows of other owners are invisible.
type Store struct {
	db     *gorm.DB
	notify Notifier
}

// NewStore wraps db. notify may be nil.
func NewStore(db *gorm.DB, notify Notifier) *Store {
	return &Store{db: db, notify: notify}
}

func (s *Store) publish(kind string, userID, customerID, transactionID uint) {
	if s.notify == nil {
		return
	}
	s.notify.Publish(realtime.Event{
		Kind:          kind,
		UserID:        userID,
		CustomerID:    customerID,
		TransactionID: transactionID,
		At:            time.Now(),
	})
}

// CustomerInput holds the editable customer fields
type CustomerInput struct {
	Name    string
	Phone   string
	Address string
}

func (in CustomerInput) normalize() (CustomerInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	if in.Name == "" || in.Phone == "" {
		return in, fmt.Errorf("%w: name and phone are required", ErrInvalidCustomer)
	}
	return in, nil
}

// CreateCustomer adds a customer with zeroed totals
func (s *Store) CreateCustomer(ctx context.Context, userID uint, in CustomerInput) (*models.Customer, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	customer := models.Customer{
		UserID:  userID,
		Name:    in.Name,
		Phone:   in.Phone,
		Address: in.Address,
	}
	if err := s.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	s.publish(realtime.CustomerCreated, userID, customer.ID, 0)
	return &customer, nil
}

// GetCustomer loads one customer of userID
func (s *Store) GetCustomer(ctx context.Context, userID, customerID uint) (*models.Customer, error) {
	return findCustomer(s.db.WithContext(ctx), userID, customerID)
}

func findCustomer(db *gorm.DB, userID, customerID uint) (*models.Customer, error) {
	var customer models.Customer
	err := db.Where("id = ? AND user_id = ?", customerID, userID).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load customer %d: %w", customerID, err)
	}
	return &customer, nil
}

// ListCustomers returns all customers of userID, newest first
func (s *Store) ListCustomers(ctx context.Context, userID uint) ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// UpdateCustomer changes name, phone and address. Totals are never touched here.
func (s *Store) UpdateCustomer(ctx context.Context, userID, customerID uint, in CustomerInput) (*models.Customer, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	res := db.Model(&models.Customer{}).
		Where("id = ? AND user_id = ?", customerID, userID).
		Updates(map[string]any{
			"name":    in.Name,
			"phone":   in.Phone,
			"address": in.Address,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrCustomerNotFound
	}

	customer, err := findCustomer(db, userID, customerID)
	if err != nil {
		return nil, err
	}
	s.publish(realtime.CustomerUpdated, userID, customerID, 0)
	return customer, nil
}

// DeleteCustomer removes a customer together with its transactions in one
// DB transaction and returns how many transactions went with it.
func (s *Store) DeleteCustomer(ctx context.Context, userID, customerID uint) (int64, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findCustomer(tx, userID, customerID); err != nil {
			return err
		}

		res := tx.Where("customer_id = ? AND user_id = ?", customerID, userID).Delete(&models.Transaction{})
		if res.Error != nil {
			return fmt.Errorf("delete customer transactions: %w", res.Error)
		}
		removed = res.RowsAffected

		if err := tx.Where("id = ? AND user_id = ?", customerID, userID).Delete(&models.Customer{}).Error; err != nil {
			return fmt.Errorf("delete customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.publish(realtime.CustomerDeleted, userID, customerID, 0)
	return removed, nil
}

// Owners lists the ids of users that have at least one customer
func (s *Store) Owners(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).
		Model(&models.Customer{}).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	return ids, nil
}
