package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Queryable is satisfied by both *sql.DB and *sql.Tx. Repository methods
// that must observe a caller's transaction take one explicitly; the rest
// run against the pooled handle.
type Queryable interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// BaseRepository carries the pieces every entity repository shares.
type BaseRepository struct {
	db *DB
}

func NewBaseRepository(db *DB) BaseRepository {
	return BaseRepository{db: db}
}

// DB exposes the pooled handle for methods that run outside a transaction.
func (r *BaseRepository) DB() *DB {
	return r.db
}

// Now is the timestamp source for created_at/updated_at columns. UTC so
// stored times compare correctly regardless of server timezone.
func (r *BaseRepository) Now() time.Time {
	return time.Now().UTC()
}

// Transaction delegates to the underlying DB.
func (r *BaseRepository) Transaction(fn func(tx *sql.Tx) error) error {
	return r.db.Transaction(fn)
}

// GenerateID returns a fresh UUID string for a primary key.
func GenerateID() string {
	return uuid.NewString()
}
