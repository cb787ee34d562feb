package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cognicore/menuparse/pkg/menuparse/internalerr"
	"github.com/cognicore/menuparse/pkg/menuparse/store"
)

// Store is an in-memory implementation of store.Store for tests and dry
// runs. Records are held in encoded form so callers never share pointers
// with stored data.
type Store struct {
	mu      sync.RWMutex
	records map[string]entry
	now     func() time.Time
}

type entry struct {
	rec   store.Record // Document and Quality are nil here
	doc   string
	score string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		records: make(map[string]entry),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveMenu inserts or updates a record, keyed by place ID.
func (s *Store) SaveMenu(ctx context.Context, r store.Record) (store.Record, error) {
	if err := ctx.Err(); err != nil {
		return store.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.records[strings.TrimSpace(r.PlaceID)].rec.ID
	r, err := store.Prepare(r, existing, s.now())
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

	bare := r
	bare.Document, bare.Quality = nil, nil
	e := entry{rec: bare, doc: doc, score: score}
	s.records[r.PlaceID] = e
	return decode(e)
}

// GetMenu returns the record for a place.
func (s *Store) GetMenu(ctx context.Context, placeID string) (store.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.records[placeID]
	if !ok {
		return store.Record{}, false, nil
	}
	r, err := decode(e)
	if err != nil {
		return store.Record{}, false, err
	}
	return r, true, nil
}

// ListMenus returns records most recently updated first.
func (s *Store) ListMenus(ctx context.Context, limit int) ([]store.Record, error) {
	s.mu.RLock()
	entries := make([]entry, 0, len(s.records))
	for _, e := range s.records {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].rec, entries[j].rec
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.PlaceID < b.PlaceID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]store.Record, 0, len(entries))
	for _, e := range entries {
		r, err := decode(e)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// DeleteMenu removes the record for a place.
func (s *Store) DeleteMenu(ctx context.Context, placeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[placeID]; !ok {
		return fmt.Errorf("menu %q: %w", placeID, internalerr.ErrNotFound)
	}
	delete(s.records, placeID)
	return nil
}

func decode(e entry) (store.Record, error) {
	r := e.rec
	doc, err := store.DecodeDocument(e.doc)
	if err != nil {
		return store.Record{}, err
	}
	score, err := store.DecodeScore(e.score)
	if err != nil {
		return store.Record{}, err
	}
	r.Document, r.Quality = doc, score
	return r, nil
}

var _ store.Store = (*Store)(nil)
