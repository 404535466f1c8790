// Package auth hashes and verifies passwords with bcrypt and holds the
// signup password policy.
package auth

import (
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used for every new hash.
const Cost = bcrypt.DefaultCost

// MinPasswordLength is the shortest password ValidatePassword accepts, in bytes.
const MinPasswordLength = 5

// ErrWeakPassword is returned by ValidatePassword.
var ErrWeakPassword = errors.New("password must be at least 5 characters long, include a number and a symbol")

// HashingError reports that the hashing primitive rejected its input or parameters.
type HashingError struct {
	Err error
}

func (e *HashingError) Error() string {
	return fmt.Sprintf("hash password: %v", e.Err)
}

func (e *HashingError) Unwrap() error { return e.Err }

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	return hashWithCost(password, Cost)
}

func hashWithCost(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", &HashingError{Err: err}
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. Any error from bcrypt,
// including a malformed hash, is a mismatch.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword enforces the signup policy: MinPasswordLength bytes, at least
// one digit and at least one character that is neither a letter nor a number.
func ValidatePassword(password string) error {
	var hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case !unicode.IsLetter(r) && !unicode.IsNumber(r):
			hasSymbol = true
		}
	}
	if len(password) < MinPasswordLength || !hasDigit || !hasSymbol {
		return ErrWeakPassword
	}
	return nil
}
