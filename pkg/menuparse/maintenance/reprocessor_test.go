package maintenance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/menuparse/pkg/menuparse/ingest"
	"github.com/cognicore/menuparse/pkg/menuparse/quality"
	"github.com/cognicore/menuparse/pkg/menuparse/store"
	"github.com/cognicore/menuparse/pkg/menuparse/store/memstore"
)

var fixed = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func pipelineWith(lex ingest.Lexicon) *ingest.Pipeline {
	return ingest.NewPipeline(ingest.NewNormalizer(), ingest.NewClassifier(lex),
		ingest.WithClock(func() time.Time { return fixed }))
}

const tapasMenu = "Tapas\nPatatas Bravas $6.00\nGambas al Ajillo $9.00"

func seed(t *testing.T, st store.Store, p *ingest.Pipeline, placeID, raw string) {
	t.Helper()
	doc := p.Parse(raw, "")
	sc := quality.NewScorer(nil).ScoreDocument(doc)
	if _, err := st.SaveMenu(context.Background(), store.Record{PlaceID: placeID, RawText: raw, Document: doc, Quality: &sc}); err != nil {
		t.Fatal(err)
	}
}

func TestReprocessorUpdatesChangedMenus(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	old := pipelineWith(ingest.Lexicon{})

	seed(t, st, old, "tapas-bar", tapasMenu)
	seed(t, st, old, "dragon", "APPETIZERS\nSpring Roll $3.50\nEgg Roll $3.00")

	before, _, _ := st.GetMenu(ctx, "tapas-bar")
	if names := before.Document.CategoryNames(); len(names) != 1 || names[0] != "Menu Items" {
		t.Fatalf("Precondition: expected fallback category, got %v", names)
	}

	r := &Reprocessor{
		Store:    st,
		Pipeline: pipelineWith(ingest.Lexicon{CategoryKeywords: []string{"tapas"}, BareCategories: []string{"tapas"}}),
		Scorer:   quality.NewScorer(nil),
		Workers:  2,
	}
	res, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Processed != 2 {
		t.Errorf("Expected 2 processed, got %d", res.Processed)
	}
	if res.Updated != 1 {
		t.Errorf("Expected 1 updated, got %d", res.Updated)
	}
	if res.Errors != 0 {
		t.Errorf("Expected 0 errors, got %d", res.Errors)
	}

	after, _, _ := st.GetMenu(ctx, "tapas-bar")
	if names := after.Document.CategoryNames(); len(names) != 1 || names[0] != "Tapas" {
		t.Errorf("Expected Tapas category after reprocessing, got %v", names)
	}
	if after.ID != before.ID {
		t.Error("Reprocessing should keep the record ID")
	}
	if after.Quality == nil || after.Quality.GenericCategories != 0 {
		t.Errorf("Quality should be rescored, got %+v", after.Quality)
	}
}

func TestReprocessorNoChanges(t *testing.T) {
	st := memstore.New()
	p := pipelineWith(ingest.Lexicon{})
	seed(t, st, p, "dragon", "APPETIZERS\nSpring Roll $3.50")

	r := &Reprocessor{Store: st, Pipeline: p, Scorer: quality.NewScorer(nil)}
	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Processed != 1 || res.Updated != 0 {
		t.Errorf("Expected nothing to update, got %+v", res)
	}
}

func TestReprocessorInvalidConfig(t *testing.T) {
	r := &Reprocessor{}
	if _, err := r.Run(context.Background()); err == nil {
		t.Error("Should error without store and pipeline")
	}
}

type failingSource struct {
	calls int
}

func (f *failingSource) Next(ctx context.Context) (store.Record, bool, error) {
	f.calls++
	if f.calls == 1 {
		return store.Record{}, false, errors.New("boom")
	}
	return store.Record{}, false, nil
}

func TestReprocessorCountsSourceErrors(t *testing.T) {
	r := &Reprocessor{
		Store:    memstore.New(),
		Pipeline: pipelineWith(ingest.Lexicon{}),
		Scorer:   quality.NewScorer(nil),
		Source:   &failingSource{},
	}
	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Errors != 1 || res.Processed != 0 {
		t.Errorf("Expected 1 source error, got %+v", res)
	}
}

type closedCursor struct {
	calls int
}

func (c *closedCursor) Next(ctx context.Context) (store.Record, bool, error) {
	c.calls++
	return store.Record{}, false, errors.New("cursor closed")
}

func TestReprocessorStopsOnPersistentSourceError(t *testing.T) {
	src := &closedCursor{}
	r := &Reprocessor{
		Store:    memstore.New(),
		Pipeline: pipelineWith(ingest.Lexicon{}),
		Scorer:   quality.NewScorer(nil),
		Source:   src,
	}

	done := make(chan Result, 1)
	go func() {
		res, _ := r.Run(context.Background())
		done <- res
	}()

	select {
	case res := <-done:
		if res.Errors != 1 || src.calls != 1 {
			t.Errorf("Expected one failed call, got %+v after %d calls", res, src.calls)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return with a failing source")
	}
}
