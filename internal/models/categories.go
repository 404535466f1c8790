package models

// Categories is the fixed list offered for entry. The store itself accepts any label.
var Categories = []string{
	"Housing and Utilities",
	"Food",
	"Transportation",
	"Health and Personal Care",
	"Entertainment and Leisure",
	"Shopping",
	"Education and Professional Development",
	"Travel",
	"Savings and Investments",
	"Debt Payments",
	"Miscellaneous",
}

// PaymentMethods lists the payment methods offered for entry.
var PaymentMethods = []string{"Cash", "Card"}

// IsKnownCategory reports whether name is one of Categories (exact match).
func IsKnownCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
