package store

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/menuparse/pkg/menuparse/internalerr"
	"github.com/cognicore/menuparse/pkg/menuparse/menu"
	"github.com/cognicore/menuparse/pkg/menuparse/quality"
)

// Store is the main interface for persisting parsed menus
type Store interface {
	Close() error

	// SaveMenu inserts or updates the record for r.PlaceID and returns the
	// stored version. A new record gets a fresh ID.
	SaveMenu(ctx context.Context, r Record) (Record, error)
	GetMenu(ctx context.Context, placeID string) (Record, bool, error)
	// ListMenus returns records most recently updated first. limit <= 0
	// returns all of them.
	ListMenus(ctx context.Context, limit int) ([]Record, error)
	DeleteMenu(ctx context.Context, placeID string) error
}

// Record is one stored menu, keyed by the directory's place ID
type Record struct {
	ID          string
	PlaceID     string
	SourceURL   string
	RawText     string
	ContentType menu.ContentType
	Document    *menu.MenuDocument
	Quality     *quality.Score
	UpdatedAt   time.Time
}

// Prepare validates r and fills the fields every store sets the same way:
// the update time and, for new records, the ID.
func Prepare(r Record, existingID string, now time.Time) (Record, error) {
	r.PlaceID = strings.TrimSpace(r.PlaceID)
	if r.PlaceID == "" {
		return Record{}, fmt.Errorf("%w: place ID is required", internalerr.ErrInvalidInput)
	}
	switch {
	case existingID != "":
		r.ID = existingID
	case r.ID == "":
		r.ID = NewID()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}
	r.UpdatedAt = r.UpdatedAt.UTC()
	return r, nil
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a new lexically sortable record ID.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// EncodeDocument serializes a document for storage. A nil document encodes
// as an empty string.
func EncodeDocument(doc *menu.MenuDocument) (string, error) {
	if doc == nil {
		return "", nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(b), nil
}

// DecodeDocument is the inverse of EncodeDocument.
func DecodeDocument(data string) (*menu.MenuDocument, error) {
	if data == "" {
		return nil, nil
	}
	var doc menu.MenuDocument
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	relinkItems(&doc)
	return &doc, nil
}

// relinkItems points the flat Items list back at the category items, which
// JSON decoding copies apart. Documents whose lists disagree are left alone.
func relinkItems(doc *menu.MenuDocument) {
	var flat []*menu.MenuItem
	for _, c := range doc.Categories {
		if c != nil {
			flat = append(flat, c.Items...)
		}
	}
	if len(flat) == 0 || len(flat) != len(doc.Items) {
		return
	}
	doc.Items = flat
}

// EncodeScore serializes a quality score. A nil score encodes as "".
func EncodeScore(sc *quality.Score) (string, error) {
	if sc == nil {
		return "", nil
	}
	b, err := json.Marshal(sc)
	if err != nil {
		return "", fmt.Errorf("encode score: %w", err)
	}
	return string(b), nil
}

// DecodeScore is the inverse of EncodeScore.
func DecodeScore(data string) (*quality.Score, error) {
	if data == "" {
		return nil, nil
	}
	var sc quality.Score
	if err := json.Unmarshal([]byte(data), &sc); err != nil {
		return nil, fmt.Errorf("decode score: %w", err)
	}
	return &sc, nil
}
