package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/menuparse/pkg/menuparse/ingest"
)

// Lexicon represents the vocabulary extension file. Every list extends the
// built-in defaults.
type Lexicon struct {
	CategoryKeywords  []string `yaml:"category_keywords"`
	BareCategories    []string `yaml:"bare_categories"`
	DishKeywords      []string `yaml:"dish_keywords"`
	GenericCategories []string `yaml:"generic_categories"`
	SkipPhrases       []string `yaml:"skip_phrases"`
}

// LoadLexicon loads a lexicon extension from a YAML file
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, err
	}

	return &lex, nil
}

// Classifier returns the part of the file the line classifier uses.
func (l *Lexicon) Classifier() ingest.Lexicon {
	if l == nil {
		return ingest.Lexicon{}
	}
	return ingest.Lexicon{
		CategoryKeywords: l.CategoryKeywords,
		BareCategories:   l.BareCategories,
		DishKeywords:     l.DishKeywords,
		SkipPhrases:      l.SkipPhrases,
	}
}
