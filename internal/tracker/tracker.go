// Package tracker is the surface a presentation layer calls: it turns store
// results into success flags and user-facing messages, logs the failures, and
// never caches expenses between calls.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/models"
	"expense-ledger/internal/storage"
	"expense-ledger/internal/summary"
)

// Messages shown to the user.
const (
	MsgFillAllFields      = "Please fill in all fields"
	MsgInvalidAmount      = "Amount must be a non-negative number"
	MsgInvalidDate        = "Date must be in YYYY-MM-DD format"
	MsgUnknownCategory    = "Please choose a category from the list"
	MsgExpenseAdded       = "Expense added"
	MsgExpenseNotAdded    = "Failed to add expense, please try again"
	MsgExpenseDeleted     = "Expense deleted"
	MsgExpenseNotDeleted  = "Failed to delete expense, please try again"
	MsgInvalidLogin       = "Invalid username or password"
	MsgEmptyCredentials   = "Username and password cannot be empty"
	MsgUniquenessFailed   = "Failed to check username uniqueness"
	MsgUsernameTaken      = "Username already exists"
	MsgWeakPassword       = "Password must be at least 5 characters long, include a number and a symbol"
	MsgSignupStorageError = "Registration failed, please try again later"
	MsgSignupInternal     = "Registration failed due to an internal error"
	MsgSignupOK           = "User successfully registered!"
)

// Tracker holds the dependencies of the collaborator-facing operations.
type Tracker struct {
	expenses    *storage.ExpenseRepository
	credentials *storage.CredentialStore
	log         *slog.Logger
}

// New creates a Tracker over db. A nil logger uses slog.Default().
func New(db *storage.DB, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		expenses:    db.Expenses(),
		credentials: db.Credentials(),
		log:         logger.With("component", "tracker"),
	}
}

// ExpenseForm holds the raw field values of the add-expense form.
type ExpenseForm struct {
	Name          string
	Amount        string
	Date          string
	Category      string
	PaymentMethod string
}

// LoadExpenses returns a fresh copy of every expense, newest first.
func (t *Tracker) LoadExpenses() ([]models.Expense, error) {
	expenses, err := t.expenses.List()
	if err != nil {
		t.log.Error("failed to load expenses", "op", "list", "error", err)
		return nil, err
	}
	models.SortByDate(expenses)
	return expenses, nil
}

// SubmitExpense validates and stores one expense. On success the caller clears
// its input fields and reloads.
func (t *Tracker) SubmitExpense(form ExpenseForm) (bool, string) {
	if strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Amount) == "" ||
		strings.TrimSpace(form.Date) == "" || form.Category == "" || form.PaymentMethod == "" {
		return false, MsgFillAllFields
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(form.Amount), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return false, MsgInvalidAmount
	}
	date := strings.TrimSpace(form.Date)
	if _, err := time.Parse(summary.DateLayout, date); err != nil {
		return false, MsgInvalidDate
	}
	if !models.IsKnownCategory(form.Category) {
		return false, MsgUnknownCategory
	}

	id, err := t.expenses.Add(models.ExpenseInput{
		Date:          date,
		Amount:        amount,
		Category:      form.Category,
		Description:   strings.TrimSpace(form.Name),
		PaymentMethod: form.PaymentMethod,
	})
	if err != nil {
		t.log.Warn("failed to add expense", "op", "create", "error", err)
		return false, MsgExpenseNotAdded
	}

	t.log.Info("expense added", "op", "create", "id", id)
	return true, MsgExpenseAdded
}

// DeleteExpense removes one expense by id.
func (t *Tracker) DeleteExpense(id int64) (bool, string) {
	if err := t.expenses.Delete(id); err != nil {
		t.log.Warn("failed to delete expense", "op", "delete", "id", id, "error", err)
		return false, MsgExpenseNotDeleted
	}
	return true, MsgExpenseDeleted
}

// Login returns the identity on success, or nil and a message. Unknown users,
// wrong passwords and store failures all produce the same message. The username
// is matched exactly, as Signup stored it.
func (t *Tracker) Login(username, password string) (*models.UserIdentity, string) {
	if username == "" || password == "" {
		return nil, MsgInvalidLogin
	}

	identity, err := t.credentials.Authenticate(username, password)
	if err != nil {
		t.log.Error("authentication failed", "op", "login", "error", err)
		return nil, MsgInvalidLogin
	}
	if identity == nil {
		return nil, MsgInvalidLogin
	}
	return identity, ""
}

// Signup registers a new user. The message explains the outcome.
func (t *Tracker) Signup(username, password string) (bool, string) {
	if username == "" || password == "" {
		return false, MsgEmptyCredentials
	}

	unique, err := t.credentials.IsUsernameUnique(username)
	if err != nil {
		t.log.Error("uniqueness check failed", "op", "signup", "error", err)
		return false, MsgUniquenessFailed
	}
	if !unique {
		return false, MsgUsernameTaken
	}

	if err := auth.ValidatePassword(password); err != nil {
		return false, MsgWeakPassword
	}

	if err := t.credentials.AddUser(username, password); err != nil {
		return false, t.signupFailure(err)
	}
	return true, MsgSignupOK
}

func (t *Tracker) signupFailure(err error) string {
	if errors.Is(err, storage.ErrDuplicateUsername) {
		return MsgUsernameTaken
	}

	var credErr *storage.CredentialError
	if errors.As(err, &credErr) && credErr.Kind == storage.CredentialHashing {
		t.log.Error("password hashing failed", "op", "signup", "error", err)
		return MsgSignupInternal
	}

	t.log.Error("failed to store user", "op", "signup", "error", err)
	return MsgSignupStorageError
}

// SummaryKind selects an aggregated view.
type SummaryKind string

const (
	ByCategory SummaryKind = "category"
	ByMonth    SummaryKind = "monthly"
	ByYear     SummaryKind = "yearly"
)

// ParseSummaryKind accepts "category", "monthly" or "yearly".
func ParseSummaryKind(s string) (SummaryKind, error) {
	switch k := SummaryKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ByCategory, ByMonth, ByYear:
		return k, nil
	default:
		return "", fmt.Errorf("unknown summary %q: must be one of category, monthly, yearly", s)
	}
}

// Summary reloads the expenses and aggregates them.
func (t *Tracker) Summary(kind SummaryKind) (map[string]float64, error) {
	expenses, err := t.LoadExpenses()
	if err != nil {
		return nil, err
	}
	return Aggregate(kind, expenses)
}

// Aggregate computes the view selected by kind over expenses.
func Aggregate(kind SummaryKind, expenses []models.Expense) (map[string]float64, error) {
	switch kind {
	case ByCategory:
		return summary.CategoryTotals(expenses), nil
	case ByMonth:
		return summary.MonthlyTotals(expenses)
	case ByYear:
		return summary.YearlyTotals(expenses)
	default:
		return nil, fmt.Errorf("unknown summary %q", kind)
	}
}
