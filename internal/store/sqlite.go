package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ngmaloney/skypulse-terminal/internal/models"
)

// SQLiteStore keeps the last result in the kv_store table
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database; see database.Open
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context) (*models.CachedResult, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = ?", LastResultKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying last result: %w", err)
	}

	var result models.CachedResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("decoding last result: %w", err)
	}
	return &result, nil
}

func (s *SQLiteStore) Save(ctx context.Context, result models.CachedResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding last result: %w", err)
	}

	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, LastResultKey, string(raw), time.Now().UTC()); err != nil {
		return fmt.Errorf("saving last result: %w", err)
	}
	return nil
}
