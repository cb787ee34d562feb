// Package menuparse turns raw restaurant menu text into structured,
// categorized menus and scores how trustworthy the result is.
package menuparse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cognicore/menuparse/pkg/menuparse/config"
	"github.com/cognicore/menuparse/pkg/menuparse/extract"
	"github.com/cognicore/menuparse/pkg/menuparse/ingest"
	"github.com/cognicore/menuparse/pkg/menuparse/internalerr"
	"github.com/cognicore/menuparse/pkg/menuparse/maintenance"
	"github.com/cognicore/menuparse/pkg/menuparse/menu"
	"github.com/cognicore/menuparse/pkg/menuparse/quality"
	"github.com/cognicore/menuparse/pkg/menuparse/stoplist"
	"github.com/cognicore/menuparse/pkg/menuparse/store"
)

var (
	defaultPipeline = ingest.NewPipeline(nil, nil)
	defaultScorer   = quality.NewScorer(nil)
)

// Parse structures raw menu text with the built-in vocabulary. It never
// fails; unusable input yields a FAILED document.
func Parse(rawText, sourceURL string) *menu.MenuDocument {
	return defaultPipeline.Parse(rawText, sourceURL)
}

// Score rates a flat list of parsed items.
func Score(items []*menu.MenuItem) quality.Score {
	return defaultScorer.ScoreItems(items)
}

// Engine is the menu processing facade: extraction, parsing, scoring and
// persistence behind one set of calls.
type Engine struct {
	store      store.Store
	pipeline   *ingest.Pipeline
	scorer     *quality.Scorer
	extractors *extract.Registry
	workers    int
}

// Options configures an Engine
type Options struct {
	Store      store.Store
	Components *config.Components // nil loads the built-in vocabulary
	Extractors *extract.Registry  // nil uses extract.Default()
	Workers    int
}

// New creates an Engine with the given dependencies
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("menuparse: store is required")
	}
	comp := opts.Components
	if comp == nil {
		var err error
		loader := config.Loader{}
		if comp, err = loader.Load(); err != nil {
			return nil, err
		}
	}
	reg := opts.Extractors
	if reg == nil {
		reg = extract.Default()
	}
	return &Engine{
		store:      opts.Store,
		pipeline:   comp.Pipeline,
		scorer:     comp.Scorer,
		extractors: reg,
		workers:    opts.Workers,
	}, nil
}

// Close cleanly shuts down the Engine
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store exposes the underlying store.
func (e *Engine) Store() store.Store {
	return e.store
}

// Scorer exposes the configured scorer.
func (e *Engine) Scorer() *quality.Scorer {
	return e.scorer
}

// Processed is the outcome of running one input through the engine.
type Processed struct {
	Text     string // extracted text the parser saw
	Document *menu.MenuDocument
	Score    quality.Score
}

// Process extracts, parses and scores raw input without storing it.
func (e *Engine) Process(ctx context.Context, raw menu.RawMenuText) (Processed, error) {
	if err := raw.Validate(); err != nil {
		return Processed{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
	}
	text, err := e.extractors.Extract(ctx, raw)
	if err != nil {
		return Processed{}, err
	}
	doc := e.pipeline.Parse(text, raw.SourceURL)
	return Processed{
		Text:     text,
		Document: doc,
		Score:    e.scorer.ScoreDocument(doc),
	}, nil
}

// ParseAndStore processes raw input and upserts it under placeID. The
// extracted text is stored so later reprocessing skips extraction.
func (e *Engine) ParseAndStore(ctx context.Context, placeID string, raw menu.RawMenuText) (store.Record, error) {
	if strings.TrimSpace(placeID) == "" {
		return store.Record{}, fmt.Errorf("%w: empty place id", internalerr.ErrInvalidInput)
	}
	p, err := e.Process(ctx, raw)
	if err != nil {
		return store.Record{}, err
	}
	score := p.Score
	return e.store.SaveMenu(ctx, store.Record{
		PlaceID:     placeID,
		SourceURL:   raw.SourceURL,
		RawText:     p.Text,
		ContentType: raw.ContentType,
		Document:    p.Document,
		Quality:     &score,
		UpdatedAt:   p.Document.Metadata.ExtractedAt,
	})
}

// ReportRequest selects stored menus for a quality report.
type ReportRequest struct {
	Limit int  // most recent menus to consider; <= 0 means all
	All   bool // include menus that do not need cleaning
}

// Report rescores stored menus with the current scorer. Unless req.All is
// set only menus that need cleaning are returned, worst first.
func (e *Engine) Report(ctx context.Context, req ReportRequest) ([]quality.Result, error) {
	recs, err := e.store.ListMenus(ctx, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	docs := make([]quality.Named, len(recs))
	for i, rec := range recs {
		docs[i] = quality.Named{Name: rec.PlaceID, Document: rec.Document}
	}
	results, err := e.scorer.ScoreBatch(ctx, docs, e.workers)
	if err != nil {
		return nil, err
	}
	if req.All {
		return results, nil
	}
	return quality.Rank(results), nil
}

// Documents returns the stored documents, most recent first.
func (e *Engine) Documents(ctx context.Context, limit int) ([]*menu.MenuDocument, error) {
	recs, err := e.store.ListMenus(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	docs := make([]*menu.MenuDocument, 0, len(recs))
	for _, rec := range recs {
		if rec.Document != nil {
			docs = append(docs, rec.Document)
		}
	}
	return docs, nil
}

// SuggestGeneric proposes category names across stored menus that look like
// catch-all groups and are not yet in the generic stoplist.
func (e *Engine) SuggestGeneric(ctx context.Context, limit int, thresholds stoplist.Thresholds) ([]stoplist.Candidate, error) {
	docs, err := e.Documents(ctx, limit)
	if err != nil {
		return nil, err
	}
	stats := stoplist.CollectStats(docs, e.pipeline.Classifier().HasCategoryKeyword)
	return e.scorer.Generic().SuggestCandidates(stats, thresholds), nil
}

// Reprocess re-parses every stored menu with the current vocabulary.
func (e *Engine) Reprocess(ctx context.Context) (maintenance.Result, error) {
	r := &maintenance.Reprocessor{
		Store:    e.store,
		Pipeline: e.pipeline,
		Scorer:   e.scorer,
		Workers:  e.workers,
	}
	return r.Run(ctx)
}
