package models

import (
	"errors"
	"math"
	"sort"
	"time"
)

// ErrInvalidAmount is returned for negative or non-finite amounts.
var ErrInvalidAmount = errors.New("amount must be a finite, non-negative number")

// Expense represents one dated outflow of money.
type Expense struct {
	ID            int64   `json:"id"`
	Date          string  `json:"date"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	PaymentMethod string  `json:"payment_method"`
}

// ExpenseInput holds the caller-supplied fields of a new expense.
// The id is always assigned by the store.
type ExpenseInput struct {
	Date          string
	Amount        float64
	Category      string
	Description   string
	PaymentMethod string
}

// Validate checks the amount before it is persisted. Dates are not parsed here.
func (in ExpenseInput) Validate() error {
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// SortByDate orders expenses by date descending, then id descending.
func SortByDate(expenses []Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		if expenses[i].Date != expenses[j].Date {
			return expenses[i].Date > expenses[j].Date
		}
		return expenses[i].ID > expenses[j].ID
	})
}

// User represents a user account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserIdentity is what a successful authentication hands back to the caller.
type UserIdentity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Identity strips the credential material from u.
func (u *User) Identity() *UserIdentity {
	return &UserIdentity{ID: u.ID, Username: u.Username}
}
