package offline

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// SQLiteStorage persists partitions in the cache_partitions and cache_entries tables
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage wraps a database prepared by database.Open
func NewSQLiteStorage(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

func (s *SQLiteStorage) Open(ctx context.Context, partition string) error {
	if _, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO cache_partitions (name) VALUES (?)", partition); err != nil {
		return fmt.Errorf("opening partition %s: %w", partition, err)
	}
	return nil
}

func (s *SQLiteStorage) Put(ctx context.Context, partition, key string, resp *CachedResponse) error {
	header, err := json.Marshal(resp.Header)
	if err != nil {
		return fmt.Errorf("encoding header: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO cache_partitions (name) VALUES (?)", partition); err != nil {
		return fmt.Errorf("opening partition %s: %w", partition, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cache_entries (partition, key, status, header, body, stored_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(partition, key) DO UPDATE SET
			status = excluded.status,
			header = excluded.header,
			body = excluded.body,
			stored_at = excluded.stored_at
	`, partition, key, resp.StatusCode, string(header), resp.Body, resp.StoredAt.UTC())
	if err != nil {
		return fmt.Errorf("storing %s in %s: %w", key, partition, err)
	}

	return tx.Commit()
}

func (s *SQLiteStorage) Match(ctx context.Context, partition, key string) (*CachedResponse, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT status, header, body, stored_at FROM cache_entries WHERE partition = ? AND key = ?",
		partition, key)
	return scanCachedResponse(row)
}

func (s *SQLiteStorage) MatchAny(ctx context.Context, key string) (*CachedResponse, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT e.status, e.header, e.body, e.stored_at
		FROM cache_entries e
		JOIN cache_partitions p ON p.name = e.partition
		WHERE e.key = ?
		ORDER BY p.rowid
		LIMIT 1
	`, key)
	return scanCachedResponse(row)
}

func scanCachedResponse(row *sql.Row) (*CachedResponse, error) {
	var (
		status   int
		header   string
		body     []byte
		storedAt time.Time
	)
	err := row.Scan(&status, &header, &body, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying cache entry: %w", err)
	}

	resp := &CachedResponse{StatusCode: status, Body: body, StoredAt: storedAt, Header: http.Header{}}
	if err := json.Unmarshal([]byte(header), &resp.Header); err != nil {
		return nil, fmt.Errorf("decoding cached header: %w", err)
	}
	return resp, nil
}

func (s *SQLiteStorage) Partitions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM cache_partitions ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("listing partitions: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning partition: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStorage) DeletePartition(ctx context.Context, partition string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cache_entries WHERE partition = ?", partition); err != nil {
		return false, fmt.Errorf("deleting entries of %s: %w", partition, err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM cache_partitions WHERE name = ?", partition)
	if err != nil {
		return false, fmt.Errorf("deleting partition %s: %w", partition, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("counting deleted partitions: %w", err)
	}
	return n > 0, tx.Commit()
}
