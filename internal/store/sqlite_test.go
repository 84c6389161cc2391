package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngmaloney/skypulse-terminal/internal/database"
	"github.com/ngmaloney/skypulse-terminal/internal/models"
)

// Interface compliance verification
var (
	_ LastResultStore = (*SQLiteStore)(nil)
	_ LastResultStore = (*RedisStore)(nil)
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteStore(db)
}

func TestSQLiteStore_LoadEmpty(t *testing.T) {
	s := newTestSQLiteStore(t)

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_LastWriteWins(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	at := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)

	first := models.NewCachedResult(models.CurrentConditions{TemperatureC: 10, WeatherCode: 3}, "Oslo", at)
	second := models.NewCachedResult(models.CurrentConditions{TemperatureC: 21.6, WeatherCode: 0}, "Paris, Ile-de-France", at.Add(time.Hour))

	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second, *got)

	var rows int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM kv_store").Scan(&rows))
	assert.Equal(t, 1, rows, "single slot must never grow")
}

func TestSQLiteStore_SaveError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_store")).
		WillReturnError(errors.New("disk I/O error"))

	err = NewSQLiteStore(db).Save(context.Background(), models.CachedResult{Label: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving last result")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_LoadErrors(t *testing.T) {
	t.Run("query failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_store")).
			WithArgs(LastResultKey).
			WillReturnError(errors.New("database is locked"))

		_, err = NewSQLiteStore(db).Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_store")).
			WithArgs(LastResultKey).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("{not json"))

		_, err = NewSQLiteStore(db).Load(context.Background())
		assert.ErrorContains(t, err, "decoding last result")
	})
}
