package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpenseInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 12.5, false},
		{"negative", -1, true},
		{"NaN", math.NaN(), true},
		{"positive infinity", math.Inf(1), true},
		{"negative infinity", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ExpenseInput{Date: "2023-01-01", Amount: tt.amount, Category: "Food"}.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSortByDate(t *testing.T) {
	expenses := []Expense{
		{ID: 1, Date: "2023-01-01"},
		{ID: 2, Date: "2023-03-01"},
		{ID: 3, Date: "2023-01-01"},
	}

	SortByDate(expenses)

	ids := []int64{expenses[0].ID, expenses[1].ID, expenses[2].ID}
	assert.Equal(t, []int64{2, 3, 1}, ids)
}

func TestIdentityOmitsHash(t *testing.T) {
	u := &User{ID: 7, Username: "alice", PasswordHash: "$2a$10$secret"}
	assert.Equal(t, &UserIdentity{ID: 7, Username: "alice"}, u.Identity())
}

func TestIsKnownCategory(t *testing.T) {
	assert.True(t, IsKnownCategory("Food"))
	assert.False(t, IsKnownCategory("food"))
	assert.False(t, IsKnownCategory(""))
}
