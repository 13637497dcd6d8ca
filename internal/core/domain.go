package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Monthly BudgetPeriod = "monthly"
	Weekly  BudgetPeriod = "weekly"
	Yearly  BudgetPeriod = "yearly"
)

type (
	TransactionType string

	BudgetPeriod string

	// Transaction is a single money movement. Direction is carried by
	// Type only; Amount is always positive. Date is a zero-padded
	// YYYY-MM-DD string and range filters compare it lexicographically.
	Transaction struct {
		ID          int
		Date        string
		Amount      float64
		Category    string
		Type        TransactionType
		Description string
	}

	// Budget is a per-category spending limit with a period label.
	Budget struct {
		ID       int
		Category string
		Limit    float64
		Period   BudgetPeriod
	}

	// SavingsGoal is a named target with accumulated progress.
	SavingsGoal struct {
		ID            int
		Name          string
		TargetAmount  float64
		CurrentAmount float64
	}
)

var (
	ErrInvalidAmount        = errors.New("amount must be a positive number")
	ErrDuplicateUser        = errors.New("user already exists")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("not found")
	ErrMalformedRecord      = errors.New("malformed record")
	ErrStoreIO              = errors.New("store I/O failure")
)

// ValidateAmount checks the hard precondition shared by every
// money-bearing operation: the amount must be positive and finite.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ErrInvalidAmount
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ParseAmount converts raw user input into a validated amount.
// Non-numeric input fails the same way a non-positive amount does.
func ParseAmount(input string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if err := ValidateAmount(amount); err != nil {
		return 0, err
	}
	return amount, nil
}

// ParseTransactionType validates a raw income/expense string.
func ParseTransactionType(input string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(input))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	default:
		return "", errors.New("transaction type must be 'income' or 'expense'")
	}
}

// ParsePeriod maps raw input onto a budget period, falling back to
// monthly for anything unrecognized.
func ParsePeriod(input string) BudgetPeriod {
	switch BudgetPeriod(strings.ToLower(strings.TrimSpace(input))) {
	case Weekly:
		return Weekly
	case Yearly:
		return Yearly
	default:
		return Monthly
	}
}

// AddFunds increases the goal's accumulated amount.
func (g *SavingsGoal) AddFunds(amount float64) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	g.CurrentAmount += amount
	return nil
}

// ProgressPercentage reports completion as a percentage. A zero target
// reports zero rather than dividing by it.
func (g SavingsGoal) ProgressPercentage() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	return g.CurrentAmount / g.TargetAmount * 100
}
