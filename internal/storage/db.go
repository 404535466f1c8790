package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps a sql.DB connection to the embedded SQLite store.
type DB struct {
	conn *sql.DB
	log  *slog.Logger
}

// Open opens the SQLite file at path (":memory:" is allowed), checks the
// connection and ensures the schema exists. Any failure here should stop startup.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Op: "open", Kind: KindConnection, Err: err}
	}

	// Single writer; also keeps ":memory:" bound to one database.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, &StoreError{Op: "ping", Kind: KindConnection, Err: err}
	}

	db := New(conn)
	if err := db.EnsureSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// New wraps an already open connection without touching the schema.
func New(conn *sql.DB) *DB {
	return &DB{
		conn: conn,
		log:  slog.Default().With("component", "storage"),
	}
}

// EnsureSchema applies any pending migrations. Tables are created only when
// absent, so it is safe to call on every start and never drops data.
func (db *DB) EnsureSchema() error {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return &StoreError{Op: "ensure schema", Kind: KindSchema, Err: err}
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db.conn, fsys)
	if err != nil {
		return &StoreError{Op: "ensure schema", Kind: KindSchema, Err: fmt.Errorf("create migration provider: %w", err)}
	}

	results, err := provider.Up(context.Background())
	if err != nil {
		return &StoreError{Op: "ensure schema", Kind: KindSchema, Err: err}
	}

	for _, r := range results {
		db.log.Info("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Expenses returns the expense repository backed by db.
func (db *DB) Expenses() *ExpenseRepository {
	return &ExpenseRepository{conn: db.conn, log: db.log}
}

// Credentials returns the credential store backed by db.
func (db *DB) Credentials() *CredentialStore {
	return &CredentialStore{conn: db.conn, log: db.log}
}
