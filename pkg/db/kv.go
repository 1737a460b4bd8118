package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
)

const (
	getValueStatement = `
	SELECT value FROM kv WHERE key = ?
	`

	setValueStatement = `
	INSERT INTO kv (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = unixepoch()
	`

	listKeysStatement = `
	SELECT key FROM kv ORDER BY key ASC
	`
)

// KV is a string-keyed blob store kept in the kv table.
type KV struct {
	db *sql.DB
}

func NewKV(db *sql.DB) *KV {
	return &KV{db: db}
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *KV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, getValueStatement, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read key '%s': %w", key, err)
	}
	return value, true, nil
}

func (s *KV) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, setValueStatement, key, value); err != nil {
		return fmt.Errorf("failed to write key '%s': %w", key, err)
	}
	return nil
}

// SetAll writes every pair in one transaction: either all values change or none.
func (s *KV) SetAll(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, key := range sortedKeys(values) {
		if _, err := tx.ExecContext(ctx, setValueStatement, key, values[key]); err != nil {
			return fmt.Errorf("failed to write key '%s': %w", key, err)
		}
	}
	return tx.Commit()
}

func (s *KV) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, listKeysStatement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// MemoryKV is an in-process blob store, used by tests and throwaway sessions.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
	// FailWrites makes every write fail with this error when set.
	FailWrites error
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: map[string]string{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedKeys(m.values), nil
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
