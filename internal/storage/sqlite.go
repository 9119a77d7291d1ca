package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteBackend persists namespaces in a single local database file.
type SQLiteBackend struct {
	db *sql.DB
}

func NewSQLiteBackend(ctx context.Context, path string) (*SQLiteBackend, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	backend := &SQLiteBackend{db: db}
	if err := backend.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return backend, nil
}

func (s *SQLiteBackend) migrate(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS device_items (
			namespace TEXT NOT NULL,
			item_key TEXT NOT NULL,
			item_value BLOB NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (namespace, item_key)
		)
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *SQLiteBackend) Get(ctx context.Context, namespace string, key string) ([]byte, error) {
	const query = `
		SELECT item_value FROM device_items WHERE namespace = ? AND item_key = ?
	`

	var value []byte
	if err := s.db.QueryRowContext(ctx, query, namespace, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *SQLiteBackend) Set(ctx context.Context, namespace string, key string, value []byte) error {
	const query = `
		INSERT INTO device_items (namespace, item_key, item_value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (namespace, item_key)
		DO UPDATE SET
			item_value = excluded.item_value,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := s.db.ExecContext(ctx, query, namespace, key, value)
	return err
}

func (s *SQLiteBackend) Delete(ctx context.Context, namespace string, key string) error {
	const query = `DELETE FROM device_items WHERE namespace = ? AND item_key = ?`
	_, err := s.db.ExecContext(ctx, query, namespace, key)
	return err
}

func (s *SQLiteBackend) Clear(ctx context.Context, namespace string) error {
	const query = `DELETE FROM device_items WHERE namespace = ?`
	_, err := s.db.ExecContext(ctx, query, namespace)
	return err
}

func (s *SQLiteBackend) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}
