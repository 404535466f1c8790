package storage

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a lookup by key matches no row.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUsername is matched by inserts that hit the username constraint.
	ErrDuplicateUsername = errors.New("username already exists")
)

// ErrorKind classifies a StoreError.
type ErrorKind string

const (
	KindConnection ErrorKind = "connection"
	KindSchema     ErrorKind = "schema"
	KindQuery      ErrorKind = "query"
	KindConstraint ErrorKind = "constraint"
)

// StoreError is returned for every failure of the underlying store.
type StoreError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// CredentialErrorKind tells storage failures apart from hashing failures.
type CredentialErrorKind int

const (
	CredentialStorage CredentialErrorKind = iota + 1
	CredentialHashing
)

func (k CredentialErrorKind) String() string {
	switch k {
	case CredentialStorage:
		return "storage"
	case CredentialHashing:
		return "hashing"
	default:
		return "unknown"
	}
}

// CredentialError is returned by CredentialStore.AddUser. Err is a *StoreError
// for CredentialStorage and an *auth.HashingError for CredentialHashing.
type CredentialError struct {
	Kind CredentialErrorKind
	Err  error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("add user: %s failure: %v", e.Kind, e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

func queryError(op string, err error) *StoreError {
	if isConstraint(err) {
		return &StoreError{Op: op, Kind: KindConstraint, Err: err}
	}
	return &StoreError{Op: op, Kind: KindQuery, Err: err}
}

func isConstraint(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
