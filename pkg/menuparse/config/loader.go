package config

import (
	"fmt"
	"time"

	"github.com/cognicore/menuparse/pkg/menuparse/ingest"
	"github.com/cognicore/menuparse/pkg/menuparse/quality"
	"github.com/cognicore/menuparse/pkg/menuparse/stoplist"
)

// Loader loads the configuration files and constructs components
type Loader struct {
	LexiconPath string
	Clock       func() time.Time
}

// Components holds all loaded configuration components
type Components struct {
	Lexicon  *Lexicon
	Pipeline *ingest.Pipeline
	Generic  *stoplist.Manager
	Scorer   *quality.Scorer
}

// Load reads the lexicon (if any) and returns initialized components
func (l *Loader) Load() (*Components, error) {
	comp := &Components{Lexicon: &Lexicon{}}

	// Load lexicon extension
	if l.LexiconPath != "" {
		lex, err := LoadLexicon(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	}

	var opts []ingest.Option
	if l.Clock != nil {
		opts = append(opts, ingest.WithClock(l.Clock))
	}
	comp.Pipeline = ingest.NewPipeline(
		ingest.NewNormalizer(),
		ingest.NewClassifier(comp.Lexicon.Classifier()),
		opts...,
	)

	// Generic categories always include the fallback name
	comp.Generic = stoplist.NewManager(comp.Lexicon.GenericCategories)
	comp.Scorer = quality.NewScorer(comp.Generic)

	return comp, nil
}
