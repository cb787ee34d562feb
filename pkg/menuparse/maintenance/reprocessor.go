package maintenance

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/menuparse/pkg/menuparse/ingest"
	"github.com/cognicore/menuparse/pkg/menuparse/menu"
	"github.com/cognicore/menuparse/pkg/menuparse/quality"
	"github.com/cognicore/menuparse/pkg/menuparse/store"
)

// RecordSource abstracts how we iterate stored menus for reprocessing.
type RecordSource interface {
	Next(ctx context.Context) (store.Record, bool, error)
}

// Reprocessor re-parses stored raw text after lexicon updates and saves the
// menus whose structure changed.
type Reprocessor struct {
	Store    store.Store
	Pipeline *ingest.Pipeline
	Scorer   *quality.Scorer
	Source   RecordSource // nil means every menu in Store
	Workers  int
}

// Result summarizes the reprocessing run.
type Result struct {
	Processed int
	Updated   int
	Errors    int
}

// Run replays records from the source through the current pipeline.
// Per-record failures are counted, not returned. A source error is counted
// and ends the run; a cancelled context is returned.
func (r *Reprocessor) Run(ctx context.Context) (Result, error) {
	var res Result
	if r.Store == nil || r.Pipeline == nil || r.Scorer == nil {
		return res, errors.New("reprocessor: invalid configuration")
	}
	src := r.Source
	if src == nil {
		src = NewStoreSource(r.Store)
	}
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for {
		rec, ok, err := src.Next(gCtx)
		if err != nil {
			// a failing source cannot be resumed; stop after counting it
			if gCtx.Err() == nil {
				mu.Lock()
				res.Errors++
				mu.Unlock()
			}
			break
		}
		if !ok {
			break
		}

		g.Go(func() error {
			updated, err := r.reprocess(gCtx, rec)
			mu.Lock()
			defer mu.Unlock()
			res.Processed++
			switch {
			case err != nil:
				res.Errors++
			case updated:
				res.Updated++
			}
			return nil
		})
	}

	_ = g.Wait()
	return res, ctx.Err()
}

func (r *Reprocessor) reprocess(ctx context.Context, rec store.Record) (bool, error) {
	doc := r.Pipeline.Parse(rec.RawText, rec.SourceURL)
	if sameStructure(doc, rec.Document) {
		return false, nil
	}

	score := r.Scorer.ScoreDocument(doc)
	rec.Document = doc
	rec.Quality = &score
	rec.UpdatedAt = doc.Metadata.ExtractedAt
	if _, err := r.Store.SaveMenu(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

// sameStructure compares two documents ignoring when they were extracted.
func sameStructure(a, b *menu.MenuDocument) bool {
	if a == nil || b == nil {
		return a == b
	}
	ac, bc := *a, *b
	ac.Metadata.ExtractedAt = bc.Metadata.ExtractedAt
	ea, errA := store.EncodeDocument(&ac)
	eb, errB := store.EncodeDocument(&bc)
	return errA == nil && errB == nil && ea == eb
}

// StoreSource iterates every menu in a store, most recent first.
type StoreSource struct {
	store   store.Store
	records []store.Record
	loaded  bool
	pos     int
}

// NewStoreSource creates a source over all records in st.
func NewStoreSource(st store.Store) *StoreSource {
	return &StoreSource{store: st}
}

// Next implements RecordSource.
func (s *StoreSource) Next(ctx context.Context) (store.Record, bool, error) {
	if !s.loaded {
		s.loaded = true
		recs, err := s.store.ListMenus(ctx, 0)
		if err != nil {
			return store.Record{}, false, err
		}
		s.records = recs
	}
	if s.pos >= len(s.records) {
		return store.Record{}, false, nil
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, true, nil
}
