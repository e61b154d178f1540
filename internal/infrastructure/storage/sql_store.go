package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"TechBriefing/internal/domain"
	"TechBriefing/internal/ports"
)

const seenTable = "seen_items"

// SQLStore keeps seen item links in a single SQL table.
type SQLStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	now     func() time.Time
}

var _ ports.SeenStore = (*SQLStore)(nil)

// NewSQLStore wraps an open database. Postgres needs dollar placeholders,
// sqlite accepts the default question marks.
func NewSQLStore(db *sql.DB, placeholders sq.PlaceholderFormat) *SQLStore {
	return &SQLStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholders),
		now:     time.Now,
	}
}

// EnsureSchema creates the seen table when absent.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + seenTable + ` (
		link    TEXT PRIMARY KEY,
		seen_at TIMESTAMP NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create %s: %w", seenTable, err)
	}
	return nil
}

// Has reports whether the link was recorded by any earlier run.
func (s *SQLStore) Has(ctx context.Context, link string) (bool, error) {
	query, args, err := s.builder.
		Select("link").
		From(seenTable).
		Where(sq.Eq{"link": link}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build lookup: %w", err)
	}

	var found string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", link, err)
	}
	return true, nil
}

// Add records the link. Recording an existing link is a no-op.
func (s *SQLStore) Add(ctx context.Context, link string) error {
	query, args, err := s.builder.
		Insert(seenTable).
		Columns("link", "seen_at").
		Values(link, s.now().UTC()).
		Suffix("ON CONFLICT (link) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", link, err)
	}
	return nil
}

// List returns the most recently recorded links first.
func (s *SQLStore) List(ctx context.Context, limit int) ([]domain.SeenRecord, error) {
	builder := s.builder.
		Select("link", "seen_at").
		From(seenTable).
		OrderBy("seen_at DESC", "link")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query seen: %w", err)
	}

	var records []domain.SeenRecord
	for rows.Next() {
		var rec domain.SeenRecord
		if err := rows.Scan(&rec.Link, &rec.SeenAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan seen: %w", err)
		}
		records = append(records, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return records, nil
}

// Close releases the database handle.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
