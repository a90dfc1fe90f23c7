// Package model defines the core domain types shared across the application.
package model

import "time"

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	// TypeIncome represents transactions with a positive amount.
	TypeIncome TransactionType = "income"
	// TypeExpense represents transactions with a negative amount.
	TypeExpense TransactionType = "expense"
)

// Transaction is a single signed monetary movement. The sign of Amount is
// the sole type indicator: positive is income, negative is expense.
type Transaction struct {
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	ID          int64     `json:"id"`
}

// Type derives the transaction type from the sign of the amount. It is
// intentionally a computed accessor rather than a stored field, so the two
// can never diverge.
func (t Transaction) Type() TransactionType {
	if t.Amount > 0 {
		return TypeIncome
	}
	return TypeExpense
}

// Magnitude returns the unsigned size of the transaction.
func (t Transaction) Magnitude() float64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}
