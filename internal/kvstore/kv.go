package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RW is the read-write surface shared by Store (autocommit) and Tx
// (transactional). Entity stores are written against RW so the same store
// code serves both single-key operations and multi-key atomic updates.
type RW interface {
	// Get returns the value stored under key. ok is false when the key has
	// never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Get implements RW against the store's autocommit connection.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	return get(ctx, s.db, key)
}

// Put implements RW against the store's autocommit connection.
func (s *Store) Put(ctx context.Context, key, value string) error {
	return put(ctx, s.db, key, value)
}

// Delete implements RW against the store's autocommit connection.
func (s *Store) Delete(ctx context.Context, key string) error {
	return del(ctx, s.db, key)
}

// Keys returns every logical key present in the store, ordered by key.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM records ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("list keys: scan: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

// Tx is a transactional view of the store. All reads and writes made through
// a Tx commit or roll back together.
type Tx struct {
	tx *sql.Tx
}

// Get implements RW inside the transaction.
func (t *Tx) Get(ctx context.Context, key string) (string, bool, error) {
	return get(ctx, t.tx, key)
}

// Put implements RW inside the transaction.
func (t *Tx) Put(ctx context.Context, key, value string) error {
	return put(ctx, t.tx, key, value)
}

// Delete implements RW inside the transaction.
func (t *Tx) Delete(ctx context.Context, key string) error {
	return del(ctx, t.tx, key)
}

// Update runs fn inside a single SQL transaction. If fn returns an error the
// transaction is rolled back and the error returned; otherwise the
// transaction commits. This is the mechanism keeping multi-key mutations
// (liked-set plus video counter) free of partial-failure states.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(&Tx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update: commit: %w", err)
	}
	return nil
}

// querier is the subset of sql.DB/sql.Tx the key-value operations need.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func get(ctx context.Context, q querier, key string) (string, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func put(ctx context.Context, q querier, key, value string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO records (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func del(ctx context.Context, q querier, key string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
