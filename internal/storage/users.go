package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/models"
)

// CredentialStore stores user identities and verifies passwords against them.
type CredentialStore struct {
	conn *sql.DB
	log  *slog.Logger
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// decoyHash is compared against when the username is unknown, so a missing user
// costs about as much as a wrong password.
func decoyHash() string {
	dummyHashOnce.Do(func() {
		dummyHash, _ = auth.HashPassword("decoy-password-1!")
	})
	return dummyHash
}

// IsUsernameUnique reports whether no user has exactly this username.
func (s *CredentialStore) IsUsernameUnique(username string) (bool, error) {
	var exists bool
	err := s.conn.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)", username).Scan(&exists)
	if err != nil {
		return false, queryError("check username", err)
	}
	return !exists, nil
}

// AddUser hashes password and stores the user. The returned *CredentialError
// says whether hashing or the store failed. A concurrent duplicate also
// matches ErrDuplicateUsername.
func (s *CredentialStore) AddUser(username, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return &CredentialError{Kind: CredentialHashing, Err: err}
	}

	_, err = s.conn.Exec(
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		username, hash,
	)
	if err != nil {
		storeErr := queryError("add user", err)
		if storeErr.Kind == KindConstraint {
			storeErr.Err = fmt.Errorf("%w: %w", ErrDuplicateUsername, err)
		}
		return &CredentialError{Kind: CredentialStorage, Err: storeErr}
	}

	s.log.Info("user created", "op", "create", "username", username)
	return nil
}

// Authenticate returns the identity for username when password matches its
// stored hash. Unknown usernames and wrong passwords both yield (nil, nil).
func (s *CredentialStore) Authenticate(username, password string) (*models.UserIdentity, error) {
	var u models.User
	err := s.conn.QueryRow(
		"SELECT id, username, password_hash FROM users WHERE username = ?",
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		auth.CheckPassword(password, decoyHash())
		return nil, nil
	}
	if err != nil {
		return nil, queryError("authenticate", err)
	}

	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, nil
	}
	return u.Identity(), nil
}

// GetUser retrieves a user by username.
func (s *CredentialStore) GetUser(username string) (*models.User, error) {
	var u models.User
	err := s.conn.QueryRow(
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?",
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, queryError("get user", err)
	}
	return &u, nil
}

// DeleteUser removes the user with the given username, if any.
func (s *CredentialStore) DeleteUser(username string) error {
	result, err := s.conn.Exec("DELETE FROM users WHERE username = ?", username)
	if err != nil {
		return queryError("delete user", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		s.log.Debug("delete matched no user", "op", "delete", "username", username)
		return nil
	}
	s.log.Info("user deleted", "op", "delete", "username", username)
	return nil
}

// Count returns the number of users in the database.
func (s *CredentialStore) Count() (int, error) {
	var count int
	if err := s.conn.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, queryError("count users", err)
	}
	return count, nil
}
