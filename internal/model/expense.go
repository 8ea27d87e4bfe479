package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation sentinels; callers match them with errors.Is.
var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrAmountTooLarge     = errors.New("amount too large")
	ErrBlankDescription   = errors.New("description is required")
	ErrDescriptionTooLong = errors.New("description too long")
	ErrMerchantTooLong    = errors.New("merchant name too long")
)

const (
	MaxExpenseAmount     = 1_000_000
	MaxDescriptionLength = 200
	MaxMerchantLength    = 100
)

// Expense is a single ledger entry.
type Expense struct {
	ID               string
	Amount           float64
	Category         Category
	Description      string
	Date             time.Time
	Merchant         string
	ReceiptImagePath string
	Tags             []string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewExpense returns an expense with a fresh id and creation timestamps.
func NewExpense(amount float64, category Category, description string, date time.Time) Expense {
	now := time.Now()
	return Expense{
		ID:          uuid.New().String(),
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsValid reports whether the expense may be persisted.
func (e Expense) IsValid() bool {
	return e.Amount > 0 && strings.TrimSpace(e.Description) != ""
}

// Validate returns the first rule the expense violates, or nil.
func (e Expense) Validate() error {
	switch {
	case e.Amount <= 0:
		return ErrInvalidAmount
	case e.Amount > MaxExpenseAmount:
		return ErrAmountTooLarge
	case strings.TrimSpace(e.Description) == "":
		return ErrBlankDescription
	case len(e.Description) > MaxDescriptionLength:
		return ErrDescriptionTooLong
	case len(e.Merchant) > MaxMerchantLength:
		return ErrMerchantTooLong
	}
	return nil
}

// SumAmounts totals the amounts of the given expenses.
func SumAmounts(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}
