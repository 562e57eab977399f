package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/storeport/backend/internal/domain"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// SQLiteStore persists product records in a local SQLite database so
// exports and their history survive restarts.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
}

// Open opens (creating when missing) the SQLite database at path.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return db, nil
}

// NewSQLiteStore wires a store over db and applies the schema. A
// non-positive ttl disables expiry.
func NewSQLiteStore(db *sql.DB, ttl time.Duration) (*SQLiteStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLiteStore{db: db, ttl: ttl}, nil
}

// Save upserts the record; re-saving a URL refreshes its history position.
func (s *SQLiteStore) Save(ctx context.Context, rec *domain.ProductRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO products (url, payload, saved_at) VALUES (?, ?, ?)`,
		rec.URL, string(payload), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// Get loads a stored record, or domain.ErrStoreMiss when the URL is
// unknown or its entry expired.
func (s *SQLiteStore) Get(ctx context.Context, pageURL string) (*domain.ProductRecord, error) {
	var payload string
	var savedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, saved_at FROM products WHERE url = ?`, pageURL).
		Scan(&payload, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStoreMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}

	if s.ttl > 0 && time.Since(time.Unix(0, savedAt)) > s.ttl {
		return nil, domain.ErrStoreMiss
	}

	var rec domain.ProductRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &rec, nil
}

// Reset drops every stored record.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	return nil
}

// History returns the most recently saved URLs, newest first, capped at
// domain.HistoryLimit. The url primary key dedups re-saves for free.
func (s *SQLiteStore) History(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url FROM products ORDER BY saved_at DESC LIMIT ?`, domain.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}
