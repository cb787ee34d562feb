package quality

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/menuparse/pkg/menuparse/menu"
)

// Named pairs a document with the key it is reported under, usually the
// place ID.
type Named struct {
	Name     string
	Document *menu.MenuDocument
}

// Result is one scored document.
type Result struct {
	Name   string             `json:"name"`
	Status menu.ParsingStatus `json:"status"`
	Score  Score              `json:"score"`
}

// ScoreBatch scores documents concurrently with at most workers goroutines.
// Results are returned in input order. Cancelling ctx stops pending work.
func (s *Scorer) ScoreBatch(ctx context.Context, docs []Named, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(docs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, d := range docs {
		i, d := i, d
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			r := Result{Name: d.Name, Score: s.ScoreDocument(d.Document)}
			if d.Document != nil {
				r.Status = d.Document.Metadata.ParsingStatus
			}
			// each goroutine owns its slot
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
