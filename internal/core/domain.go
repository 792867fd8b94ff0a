package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

type (
	// TransactionType tags a transaction or category as income or expense.
	// The tag determines the sign of the contribution to the balance.
	TransactionType string

	Money struct {
		Cents int64
	}

	// Transaction is a single recorded income or expense. Amount is a
	// non-negative magnitude; the sign comes from Type. Date is kept in the
	// canonical display format (dd/MM/yyyy) and parsed at the date boundary.
	Transaction struct {
		ID         int64
		UserID     string
		CategoryID int64
		Name       string
		Amount     Money
		Date       string
		Note       string
		Type       TransactionType
		CreatedAt  time.Time
	}

	// Category groups transactions of one type. Icon is an opaque reference
	// (built-in resource name, emoji glyph, or file path) resolved by the
	// presentation layer.
	Category struct {
		ID     int64
		UserID string
		Name   string
		Icon   string
		Type   TransactionType
	}

	// TransactionWithCategory is the read-only join handed to the aggregation
	// engine. Category is nil when the join misses; the engine tolerates that,
	// the storage layer's cascade delete prevents it in practice.
	TransactionWithCategory struct {
		Transaction Transaction
		Category    *Category
	}

	// UserProfile is the account record mirrored to the remote backend.
	UserProfile struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		ImageURL string `json:"image_url"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyUserID   = errors.New("empty user id")
	ErrNoCategory    = errors.New("missing category reference")
)

// IsValid reports whether t is one of the two known type tags.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// Signed returns the contribution of an amount of this type to a balance:
// +amount for income, -amount for expense.
func (t TransactionType) Signed(m Money) int64 {
	if t == Expense {
		return -m.Cents
	}
	return m.Cents
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (tx Transaction) Validate() error {
	if strings.TrimSpace(tx.UserID) == "" {
		return ErrEmptyUserID
	}
	if len(strings.TrimSpace(tx.Name)) == 0 {
		return ErrEmptyName
	}
	if len(tx.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if tx.CategoryID == 0 {
		return ErrNoCategory
	}
	if !tx.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return ErrEmptyUserID
	}
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if !c.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}
