package ingest

import (
	"strings"
	"time"

	"github.com/cognicore/menuparse/pkg/menuparse/menu"
)

// Pipeline orchestrates the full parse flow:
// raw text → normalized lines → classify/assemble fold → document
type Pipeline struct {
	normalizer *Normalizer
	classifier *Classifier
	assembler  *Assembler
	now        func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the timestamp source for Metadata.ExtractedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPipeline creates a parse pipeline with the given components
func NewPipeline(normalizer *Normalizer, classifier *Classifier, opts ...Option) *Pipeline {
	if normalizer == nil {
		normalizer = NewNormalizer()
	}
	if classifier == nil {
		classifier = NewClassifier(Lexicon{})
	}
	p := &Pipeline{
		normalizer: normalizer,
		classifier: classifier,
		assembler:  NewAssembler(classifier),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Classifier exposes the classifier the pipeline runs with.
func (p *Pipeline) Classifier() *Classifier {
	return p.classifier
}

// Parse runs raw text through the pipeline. It never fails: unusable input
// comes back as a FAILED document.
func (p *Pipeline) Parse(raw, sourceURL string) *menu.MenuDocument {
	at := p.now()
	if strings.TrimSpace(raw) == "" {
		return menu.Failed(sourceURL, at)
	}

	// 1. Normalize into candidate lines
	lines := p.normalizer.Normalize(raw)
	if len(lines) == 0 {
		return menu.Failed(sourceURL, at)
	}

	// 2. Classify and assemble in one pass
	state := p.assembler.Assemble(lines)

	// 3. Build the document
	doc := &menu.MenuDocument{
		Categories: state.Categories,
		Items:      state.Items,
		Metadata: menu.Metadata{
			SourceURL:       sourceURL,
			ExtractedAt:     at,
			TotalCategories: len(state.Categories),
			TotalItems:      len(state.Items),
		},
	}
	if doc.Categories == nil {
		doc.Categories = []*menu.Category{}
	}
	if doc.Items == nil {
		doc.Items = []*menu.MenuItem{}
	}

	if len(doc.Categories) > 0 || len(doc.Items) > 0 {
		doc.Metadata.ParsingStatus = menu.StatusSuccess
	} else {
		doc.Metadata.ParsingStatus = menu.StatusPartial
	}
	return doc
}

// Lines exposes the normalization stage, mostly for debugging output.
func (p *Pipeline) Lines(raw string) []string {
	return p.normalizer.Normalize(raw)
}
