package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	apperrors "github.com/jwalitptl/clinic-core/pkg/errors"
	"github.com/jwalitptl/clinic-core/pkg/metrics"
)

// Store owns the single relational store file. It is the only component that
// talks to the database; everything else goes through its primitives.
type Store struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

// Open connects to the store file, creating its directory on first run.
// The pool is capped at one connection: SQLite is a single-writer store and
// the cap turns concurrent check-then-act sequences into serialized ones.
func Open(path string, m *metrics.Metrics) (*Store, error) {
	if dir := filepath.Dir(path); path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &Store{db: db, metrics: m}, nil
}

// Close releases the store connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Select runs a read-only statement and scans every row into dest.
func (s *Store) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := s.db.SelectContext(ctx, dest, query, args...); err != nil {
		s.count("select", "error")
		return apperrors.NewPersistence(err)
	}
	s.count("select", "ok")
	return nil
}

// Get runs a read-only statement expecting a single row. sql.ErrNoRows passes
// through untouched so callers can map it to their own not-found outcome.
func (s *Store) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	err := s.db.GetContext(ctx, dest, query, args...)
	if err == nil {
		s.count("get", "ok")
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		s.count("get", "miss")
		return err
	}
	s.count("get", "error")
	return apperrors.NewPersistence(err)
}

// Insert executes a single mutating statement and returns the generated
// primary key. The statement is committed before returning.
func (s *Store) Insert(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.count("insert", "error")
		return 0, apperrors.NewPersistence(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		s.count("insert", "error")
		return 0, apperrors.NewPersistence(err)
	}
	s.count("insert", "ok")
	return id, nil
}

// Mutate executes an update or delete statement and returns the affected row
// count. The statement is committed before returning.
func (s *Store) Mutate(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.count("mutate", "error")
		return 0, apperrors.NewPersistence(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		s.count("mutate", "error")
		return 0, apperrors.NewPersistence(err)
	}
	s.count("mutate", "ok")
	return rows, nil
}

// Transact runs fn inside a transaction (serializable, SQLite's default).
// Check-then-act sequences (slot conflict checks, payment application,
// unique-key checks) must go through here so no second caller can slip
// between the check and the write.
func (s *Store) Transact(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.count("transact", "error")
		return apperrors.NewPersistence(err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		s.count("transact", "rollback")
		return err
	}

	if err := tx.Commit(); err != nil {
		s.count("transact", "error")
		return apperrors.NewPersistence(err)
	}
	s.count("transact", "ok")
	return nil
}

func (s *Store) count(operation, status string) {
	if s.metrics != nil {
		s.metrics.StoreOperations.WithLabelValues(operation, status).Inc()
	}
}

// persistence wraps a raw driver error from inside a transaction closure.
func persistence(err error) error {
	return apperrors.NewPersistence(err)
}
