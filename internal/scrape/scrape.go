// Package scrape reads batches of scraped restaurant pages.
package scrape

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cognicore/menuparse/pkg/menuparse/menu"
)

// Page is one scraped page or OCR result, one per JSONL line.
type Page struct {
	PlaceID     string `json:"place_id"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Text        string `json:"text"`
}

// Raw converts the page into parser input.
func (p Page) Raw() menu.RawMenuText {
	return menu.RawMenuText{
		Text:        p.Text,
		SourceURL:   p.URL,
		ContentType: menu.ParseContentType(p.ContentType),
	}
}

// LoadFromJSONL loads pages from a JSONL file. Malformed lines and pages
// without a place ID are logged and skipped.
func LoadFromJSONL(path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var pages []Page
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var page Page
		if err := json.Unmarshal([]byte(line), &page); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		page.PlaceID = strings.TrimSpace(page.PlaceID)
		if page.PlaceID == "" {
			log.Printf("Warning: skipping line %d in %s: missing place_id", i+1, path)
			continue
		}
		pages = append(pages, page)
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no valid pages found in %s", path)
	}

	return pages, nil
}
