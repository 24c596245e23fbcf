// Package storage provides SQLite persistence for cabins, clients,
// bookings and payments.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// dsnOptions are applied to every connection. _txlock=immediate makes
// transactions acquire the write lock at BEGIN, so a transaction that
// checks for overlaps and then inserts cannot interleave with another
// doing the same; one of them blocks until the other commits.
var dsnOptions = []string{
	"_foreign_keys=on",
	"_journal_mode=WAL",
	"_busy_timeout=5000",
	"_txlock=immediate",
	"_synchronous=NORMAL",
}

// DB is the shared SQLite handle used by all repositories.
type DB struct {
	*sql.DB
	path string
}

// NewDB opens (creating if necessary) the SQLite file at path.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	dsn := path + "?" + strings.Join(dsnOptions, "&")
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// WAL allows concurrent readers; writers still serialize.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	return &DB{DB: db, path: path}, nil
}

// Path returns the filesystem path of the database file.
func (db *DB) Path() string {
	return db.path
}

// Transaction runs fn inside a transaction, rolling back if fn returns
// an error and committing otherwise.
func (db *DB) Transaction(fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}
