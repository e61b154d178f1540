package storage

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
)

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewSQLStore(db, sq.Dollar), mock
}

func TestSQLStoreHasUsesDollarPlaceholders(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT link FROM seen_items WHERE link = $1 LIMIT 1")).
		WithArgs("https://example.org/x").
		WillReturnRows(sqlmock.NewRows([]string{"link"}).AddRow("https://example.org/x"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT link FROM seen_items WHERE link = $1 LIMIT 1")).
		WithArgs("https://example.org/y").
		WillReturnError(sql.ErrNoRows)

	ctx := context.Background()
	seen, err := store.Has(ctx, "https://example.org/x")
	if err != nil || !seen {
		t.Fatalf("expected x to be seen, got %v %v", seen, err)
	}
	seen, err = store.Has(ctx, "https://example.org/y")
	if err != nil || seen {
		t.Fatalf("expected y to be unseen, got %v %v", seen, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unfulfilled expectations: %v", err)
	}
}

func TestSQLStoreAddIgnoresConflicts(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	stamp := time.Date(2026, time.October, 19, 6, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return stamp }

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO seen_items (link,seen_at) VALUES ($1,$2) ON CONFLICT (link) DO NOTHING")).
		WithArgs("https://example.org/x", stamp).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Add(context.Background(), "https://example.org/x"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unfulfilled expectations: %v", err)
	}
}

func TestSQLStoreHasPropagatesErrors(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT link FROM seen_items").WillReturnError(sql.ErrConnDone)

	if _, err := store.Has(context.Background(), "https://example.org/x"); err == nil {
		t.Fatalf("expected error")
	}
}
