package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Expense TransactionType = "Expense"
	Income  TransactionType = "Income"
)

type (
	TransactionType string

	// Transaction is an income or expense event. It is created at the
	// submission boundary and never mutated by the aggregators.
	Transaction struct {
		ID            string
		Amount        decimal.Decimal
		Type          TransactionType
		Categories    []Category
		Date          time.Time
		PaymentMethod PaymentMethod
		Description   string
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidPayment  = errors.New("invalid payment method")
)

// IsValid reports whether the type is one of the two permitted values.
func (t TransactionType) IsValid() bool {
	return t == Expense || t == Income
}

func (t TransactionType) String() string {
	return string(t)
}

// ParseTransactionType normalizes and validates a type label.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.TrimSpace(s))
	if !t.IsValid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// Validate checks a transaction at the submission boundary. Aggregators
// assume their input already passed here and never validate.
func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	for _, c := range t.Categories {
		if !c.IsValid() {
			return ErrInvalidCategory
		}
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !t.PaymentMethod.IsValid() {
		return ErrInvalidPayment
	}
	return nil
}

// SameDay reports whether the transaction falls on the given calendar day.
// Comparison is on year+month+day, never time-of-day.
func (t Transaction) SameDay(target time.Time) bool {
	y1, m1, d1 := t.Date.Date()
	y2, m2, d2 := target.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// MonthKey returns a label identical for any two instants in the same
// calendar month and year, e.g. "January 2025". Every aggregator that
// buckets by month uses this key so boundary dates land consistently.
func MonthKey(t time.Time) string {
	return t.Format("January 2006")
}

// BudgetSettings holds the user's monthly income and savings goal.
type BudgetSettings struct {
	MonthlyIncome decimal.Decimal
	SavingsGoal   decimal.Decimal
}

// Limit is the monthly spending ceiling: income minus savings goal.
func (s BudgetSettings) Limit() decimal.Decimal {
	return s.MonthlyIncome.Sub(s.SavingsGoal)
}

func (s BudgetSettings) Validate() error {
	if s.MonthlyIncome.IsNegative() {
		return errors.New("monthly income cannot be negative")
	}
	if s.SavingsGoal.IsNegative() {
		return errors.New("savings goal cannot be negative")
	}
	return nil
}

// DefaultBudgetSettings returns the seed income and savings values used
// until the user saves their own.
func DefaultBudgetSettings() BudgetSettings {
	return BudgetSettings{
		MonthlyIncome: decimal.NewFromInt(35000),
		SavingsGoal:   decimal.NewFromInt(8000),
	}
}
