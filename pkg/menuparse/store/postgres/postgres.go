// Package postgres stores menus in the hosted PostgreSQL database the
// directory site reads from.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cognicore/menuparse/pkg/menuparse/internalerr"
	"github.com/cognicore/menuparse/pkg/menuparse/menu"
	"github.com/cognicore/menuparse/pkg/menuparse/store"
)

// Store wraps a PostgreSQL connection pool
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// Connect establishes a connection pool and ensures the schema exists
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to database: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{
		pool: pool,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS menus (
	id TEXT PRIMARY KEY,
	place_id TEXT UNIQUE NOT NULL,
	source_url TEXT NOT NULL DEFAULT '',
	raw_text TEXT NOT NULL DEFAULT '',
	content_type TEXT NOT NULL DEFAULT '',
	document JSONB,
	quality JSONB,
	parsing_status TEXT NOT NULL DEFAULT '',
	overall_score INTEGER,
	needs_cleaning BOOLEAN NOT NULL DEFAULT FALSE,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_menus_updated_at ON menus(updated_at DESC);
`

// Close closes the connection pool
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// SaveMenu inserts or updates a menu, keyed by place ID
func (s *Store) SaveMenu(ctx context.Context, r store.Record) (store.Record, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return store.Record{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var existingID string
	err = tx.QueryRow(ctx, `SELECT id FROM menus WHERE place_id = $1 FOR UPDATE`, strings.TrimSpace(r.PlaceID)).Scan(&existingID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return store.Record{}, fmt.Errorf("failed to look up menu: %w", err)
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
	var overall *int
	needsCleaning := false
	if r.Quality != nil {
		overall = &r.Quality.OverallScore
		needsCleaning = r.Quality.NeedsCleaning
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO menus (id, place_id, source_url, raw_text, content_type, document, quality,
			parsing_status, overall_score, needs_cleaning, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (place_id) DO UPDATE SET
			source_url = $3, raw_text = $4, content_type = $5, document = $6, quality = $7,
			parsing_status = $8, overall_score = $9, needs_cleaning = $10, updated_at = $11`,
		r.ID, r.PlaceID, r.SourceURL, r.RawText, string(r.ContentType),
		nullJSON(doc), nullJSON(score), status, overall, needsCleaning, r.UpdatedAt,
	)
	if err != nil {
		return store.Record{}, fmt.Errorf("failed to save menu: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return store.Record{}, fmt.Errorf("failed to commit menu: %w", err)
	}

	if r.Document, err = store.DecodeDocument(doc); err != nil {
		return store.Record{}, err
	}
	if r.Quality, err = store.DecodeScore(score); err != nil {
		return store.Record{}, err
	}
	return r, nil
}

const selectColumns = `id, place_id, source_url, raw_text, content_type,
	COALESCE(document::text, ''), COALESCE(quality::text, ''), updated_at`

// GetMenu retrieves a menu by place ID
func (s *Store) GetMenu(ctx context.Context, placeID string) (store.Record, bool, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM menus WHERE place_id = $1`, placeID)
	r, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Record{}, false, nil
		}
		return store.Record{}, false, fmt.Errorf("failed to get menu: %w", err)
	}
	return r, true, nil
}

// ListMenus returns menus, most recently updated first
func (s *Store) ListMenus(ctx context.Context, limit int) ([]store.Record, error) {
	query := `SELECT ` + selectColumns + ` FROM menus ORDER BY updated_at DESC, place_id ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	defer rows.Close()

	var results []store.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// DeleteMenu removes a menu by place ID
func (s *Store) DeleteMenu(ctx context.Context, placeID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM menus WHERE place_id = $1`, placeID)
	if err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("menu %q: %w", placeID, internalerr.ErrNotFound)
	}
	return nil
}

func scanRecord(row pgx.Row) (store.Record, error) {
	var (
		r           store.Record
		contentType string
		doc         string
		score       string
	)
	if err := row.Scan(&r.ID, &r.PlaceID, &r.SourceURL, &r.RawText, &contentType, &doc, &score, &r.UpdatedAt); err != nil {
		return store.Record{}, err
	}
	r.ContentType = menu.ContentType(contentType)
	r.UpdatedAt = r.UpdatedAt.UTC()

	var err error
	if r.Document, err = store.DecodeDocument(doc); err != nil {
		return store.Record{}, err
	}
	if r.Quality, err = store.DecodeScore(score); err != nil {
		return store.Record{}, err
	}
	return r, nil
}

// nullJSON maps an empty encoding to SQL NULL.
func nullJSON(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ store.Store = (*Store)(nil)
