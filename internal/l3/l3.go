// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// l3.go — PostgreSQL tier of the webhook inbox: an append-only journal of
// accepted deliveries keyed by idempotency key, insert-if-absent semantics,
// and per-resource history reads.

// Package l3 provides the PostgreSQL journal adapter of the webhook inbox.
package l3

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTable is the journal table used when none is configured.
const DefaultTable = "paidy_webhook_journal"

// ErrNotFound is returned by GetByKey when no entry holds the key.
var ErrNotFound = errors.New("l3: entry not found")

// Entry is one journalled webhook delivery.
type Entry struct {
	ID         string    `db:"id"`
	Key        string    `db:"idem_key"`
	Kind       string    `db:"kind"`
	ResourceID string    `db:"resource_id"`
	Event      string    `db:"event"`
	Body       []byte    `db:"body"`
	ReceivedAt time.Time `db:"received_at"`
}

const columns = "id, idem_key, kind, resource_id, event, body, received_at"

// Store is the L3 PostgreSQL adapter.
type Store struct {
	pool  *pgxpool.Pool
	name  string
	table string // sanitized
}

// New creates a Store over an existing pool. An empty table selects
// DefaultTable.
func New(pool *pgxpool.Pool, table string) *Store {
	if table == "" {
		table = DefaultTable
	}
	return &Store{pool: pool, name: table, table: pgx.Identifier{table}.Sanitize()}
}

// Ping verifies the pool is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// EnsureSchema creates the journal table and its resource index.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id          TEXT PRIMARY KEY,
			idem_key    TEXT NOT NULL UNIQUE,
			kind        TEXT NOT NULL,
			resource_id TEXT NOT NULL,
			event       TEXT NOT NULL,
			body        JSONB NOT NULL,
			received_at TIMESTAMPTZ NOT NULL
		)`, s.table)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("l3 ensure schema: %w", err)
	}
	idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (resource_id, received_at)",
		pgx.Identifier{s.name + "_resource_idx"}.Sanitize(), s.table)
	if _, err := s.pool.Exec(ctx, idx); err != nil {
		return fmt.Errorf("l3 ensure index: %w", err)
	}
	return nil
}

// Insert journals e unless an entry already holds e.Key. inserted is false
// for a duplicate.
func (s *Store) Insert(ctx context.Context, e Entry) (bool, error) {
	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (idem_key) DO NOTHING",
		s.table, columns)
	tag, err := s.pool.Exec(ctx, sql, e.ID, e.Key, e.Kind, e.ResourceID, e.Event, e.Body, e.ReceivedAt)
	if err != nil {
		return false, fmt.Errorf("l3 insert %s: %w", e.Key, err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByKey returns the entry holding key.
func (s *Store) GetByKey(ctx context.Context, key string) (Entry, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE idem_key = $1", columns, s.table)
	rows, err := s.pool.Query(ctx, sql, key)
	if err != nil {
		return Entry{}, fmt.Errorf("l3 get %s: %w", key, err)
	}
	e, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Entry])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("l3 get %s: %w", key, err)
	}
	return e, nil
}

// ListByResource returns the entries for resourceID, oldest first.
func (s *Store) ListByResource(ctx context.Context, resourceID string) ([]Entry, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE resource_id = $1 ORDER BY received_at, id", columns, s.table)
	rows, err := s.pool.Query(ctx, sql, resourceID)
	if err != nil {
		return nil, fmt.Errorf("l3 list %s: %w", resourceID, err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[Entry])
	if err != nil {
		return nil, fmt.Errorf("l3 list %s: %w", resourceID, err)
	}
	return entries, nil
}

// Delete removes the entry holding key.
func (s *Store) Delete(ctx context.Context, key string) error {
	sql := fmt.Sprintf("DELETE FROM %s WHERE idem_key = $1", s.table)
	if _, err := s.pool.Exec(ctx, sql, key); err != nil {
		return fmt.Errorf("l3 delete %s: %w", key, err)
	}
	return nil
}

// Table returns the sanitized journal table name.
func (s *Store) Table() string { return s.table }

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Close shuts down the underlying connection pool.
func (s *Store) Close() { s.pool.Close() }
