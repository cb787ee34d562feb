package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/menuparse/pkg/menuparse/internalerr"
	"github.com/cognicore/menuparse/pkg/menuparse/menu"
	"github.com/cognicore/menuparse/pkg/menuparse/store"
)

// timeLayout is fixed width so updated_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// One writer at a time; callers queue on the pool instead of racing
	// for the write lock.
	db.SetMaxOpenConns(1)

	// WAL keeps readers in other processes unblocked
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Writers wait instead of failing with SQLITE_BUSY
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS menus (
	id TEXT PRIMARY KEY,
	place_id TEXT UNIQUE NOT NULL,
	source_url TEXT NOT NULL DEFAULT '',
	raw_text TEXT NOT NULL DEFAULT '',
	content_type TEXT NOT NULL DEFAULT '',
	document TEXT NOT NULL DEFAULT '',
	quality TEXT NOT NULL DEFAULT '',
	parsing_status TEXT NOT NULL DEFAULT '',
	overall_score INTEGER,
	needs_cleaning INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_menus_updated_at ON menus(updated_at);
CREATE INDEX IF NOT EXISTS idx_menus_needs_cleaning ON menus(needs_cleaning, overall_score);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveMenu inserts or updates a menu, keyed by place ID
func (s *sqliteStore) SaveMenu(ctx context.Context, r store.Record) (store.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Record{}, err
	}
	defer tx.Rollback()

	var existingID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM menus WHERE place_id = ?`, strings.TrimSpace(r.PlaceID)).Scan(&existingID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, err
	}

	r, err = store.Prepare(r, existingID, s.now())
	if err != nil {
		return store.Record{}, err
	}

	doc, err := store.EncodeDocument(r.Document)
	if err != nil {
		return store.Record{}, err
	}
	score, err := store.EncodeScore(r.Quality)
	if err != nil {
		return store.Record{}, err
	}

	var status string
	if r.Document != nil {
		status = string(r.Document.Metadata.ParsingStatus)
	}
	var overall sql.NullInt64
	needsCleaning := false
	if r.Quality != nil {
		overall = sql.NullInt64{Int64: int64(r.Quality.OverallScore), Valid: true}
		needsCleaning = r.Quality.NeedsCleaning
	}

	const stmt = `
INSERT INTO menus (id, place_id, source_url, raw_text, content_type, document, quality,
	parsing_status, overall_score, needs_cleaning, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(place_id) DO UPDATE SET
	source_url=excluded.source_url,
	raw_text=excluded.raw_text,
	content_type=excluded.content_type,
	document=excluded.document,
	quality=excluded.quality,
	parsing_status=excluded.parsing_status,
	overall_score=excluded.overall_score,
	needs_cleaning=excluded.needs_cleaning,
	updated_at=excluded.updated_at;
`
	_, err = tx.ExecContext(ctx, stmt,
		r.ID,
		r.PlaceID,
		r.SourceURL,
		r.RawText,
		string(r.ContentType),
		doc,
		score,
		status,
		overall,
		needsCleaning,
		r.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return store.Record{}, err
	}

	if err := tx.Commit(); err != nil {
		return store.Record{}, err
	}

	// hand back decoded copies, never the caller's pointers
	r.Document, err = store.DecodeDocument(doc)
	if err != nil {
		return store.Record{}, err
	}
	r.Quality, err = store.DecodeScore(score)
	if err != nil {
		return store.Record{}, err
	}
	return r, nil
}

const selectColumns = `id, place_id, source_url, raw_text, content_type, document, quality, updated_at`

// GetMenu retrieves a menu by place ID
func (s *sqliteStore) GetMenu(ctx context.Context, placeID string) (store.Record, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM menus WHERE place_id = ?`, placeID)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, false, nil
	}
	if err != nil {
		return store.Record{}, false, err
	}
	return r, true, nil
}

// ListMenus returns menus, most recently updated first
func (s *sqliteStore) ListMenus(ctx context.Context, limit int) ([]store.Record, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT `+selectColumns+`
FROM menus
ORDER BY updated_at DESC, place_id ASC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []store.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// DeleteMenu removes a menu by place ID
func (s *sqliteStore) DeleteMenu(ctx context.Context, placeID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM menus WHERE place_id = ?`, placeID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("menu %q: %w", placeID, internalerr.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (store.Record, error) {
	var (
		r           store.Record
		contentType string
		doc         string
		score       string
		updatedAt   string
	)
	if err := row.Scan(&r.ID, &r.PlaceID, &r.SourceURL, &r.RawText, &contentType, &doc, &score, &updatedAt); err != nil {
		return store.Record{}, err
	}
	r.ContentType = menu.ContentType(contentType)

	var err error
	if r.Document, err = store.DecodeDocument(doc); err != nil {
		return store.Record{}, err
	}
	if r.Quality, err = store.DecodeScore(score); err != nil {
		return store.Record{}, err
	}
	if r.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return store.Record{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return r, nil
}
