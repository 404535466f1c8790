package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"expense-ledger/internal/models"
)

// ExpenseRepository stores expense records.
type ExpenseRepository struct {
	conn *sql.DB
	log  *slog.Logger
}

// Add inserts a new expense and returns the id assigned by the store.
// Invalid amounts are rejected with models.ErrInvalidAmount before any write.
func (r *ExpenseRepository) Add(in models.ExpenseInput) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}

	result, err := r.conn.Exec(
		"INSERT INTO expenses (date, amount, category, description, payment_method) VALUES (?, ?, ?, ?, ?)",
		in.Date, in.Amount, in.Category, in.Description, in.PaymentMethod,
	)
	if err != nil {
		return 0, queryError("add expense", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, queryError("add expense", err)
	}

	r.log.Debug("expense added", "op", "create", "id", id, "category", in.Category)
	return id, nil
}

// List returns every expense. Callers that need an order must sort.
func (r *ExpenseRepository) List() ([]models.Expense, error) {
	rows, err := r.conn.Query(
		"SELECT id, date, amount, category, description, payment_method FROM expenses ORDER BY id",
	)
	if err != nil {
		return nil, queryError("list expenses", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, queryError("list expenses", err)
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError("list expenses", err)
	}

	return expenses, nil
}

// Get retrieves a single expense by ID.
func (r *ExpenseRepository) Get(id int64) (*models.Expense, error) {
	row := r.conn.QueryRow(
		"SELECT id, date, amount, category, description, payment_method FROM expenses WHERE id = ?",
		id,
	)

	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, queryError("get expense", err)
	}
	return e, nil
}

// Delete removes the expense with the given id. Unknown ids are not an error.
func (r *ExpenseRepository) Delete(id int64) error {
	result, err := r.conn.Exec("DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return queryError("delete expense", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		r.log.Debug("delete matched no expense", "op", "delete", "id", id)
	}
	return nil
}

// Count returns the number of stored expenses.
func (r *ExpenseRepository) Count() (int, error) {
	var count int
	if err := r.conn.QueryRow("SELECT COUNT(*) FROM expenses").Scan(&count); err != nil {
		return 0, queryError("count expenses", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(s scanner) (*models.Expense, error) {
	var (
		e             models.Expense
		description   sql.NullString
		paymentMethod sql.NullString
	)
	if err := s.Scan(&e.ID, &e.Date, &e.Amount, &e.Category, &description, &paymentMethod); err != nil {
		return nil, err
	}
	e.Description = description.String
	e.PaymentMethod = paymentMethod.String
	return &e, nil
}
