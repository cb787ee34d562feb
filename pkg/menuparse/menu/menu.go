// Package menu defines the structured menu document produced by the parser
// and the raw text it is built from.
package menu

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FallbackCategory names the category that collects items seen before any
// header line. It is always treated as a generic category by the scorer.
const FallbackCategory = "Menu Items"

// ErrInvalidInputMessage is reported in Metadata.Error for unparseable input.
const ErrInvalidInputMessage = "Invalid or empty text input"

// genericCategoryNames carry no menu-section meaning.
var genericCategoryNames = []string{
	strings.ToLower(FallbackCategory),
	"items",
	"item",
	"menu",
	"other",
	"others",
	"misc",
	"miscellaneous",
	"general",
	"uncategorized",
	"all",
	"more",
	"extras",
	"additional items",
	"full menu",
}

// GenericCategoryNames returns the lowercase stoplist of generic category
// names. The list always contains FallbackCategory.
func GenericCategoryNames() []string {
	out := make([]string, len(genericCategoryNames))
	copy(out, genericCategoryNames)
	return out
}

// ContentType tags where raw text came from.
type ContentType string

const (
	ContentHTML  ContentType = "HTML"
	ContentImage ContentType = "IMAGE"
	ContentPDF   ContentType = "PDF"
)

// ParseContentType maps a loose user-facing name to a ContentType.
// Unknown names yield the empty (untagged) type.
func ParseContentType(s string) ContentType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HTML", "HTM":
		return ContentHTML
	case "IMAGE", "IMG", "OCR", "PNG", "JPG", "JPEG":
		return ContentImage
	case "PDF":
		return ContentPDF
	}
	return ""
}

// RawMenuText is one scraped or OCR'd blob plus where it came from.
type RawMenuText struct {
	Text        string      `json:"text"`
	SourceURL   string      `json:"source_url,omitempty" validate:"omitempty,url"`
	ContentType ContentType `json:"content_type,omitempty" validate:"omitempty,oneof=HTML IMAGE PDF"`
}

// Validate checks the source metadata. Empty text is not a validation error:
// the parser reports it as a FAILED document instead.
func (r *RawMenuText) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ParsingStatus reports how far parsing got.
type ParsingStatus string

const (
	StatusSuccess ParsingStatus = "SUCCESS"
	// StatusPartial is assigned when the input had lines but nothing
	// survived classification.
	StatusPartial ParsingStatus = "PARTIAL"
	StatusFailed  ParsingStatus = "FAILED"
)

// MenuItem is a single dish line.
type MenuItem struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       *string  `json:"price"`
	PriceNumber *float64 `json:"price_number"`
}

// HasPrice reports whether a numeric price was extracted.
func (it *MenuItem) HasPrice() bool {
	return it != nil && it.PriceNumber != nil
}

// DescriptionText returns the description or "".
func (it *MenuItem) DescriptionText() string {
	if it == nil || it.Description == nil {
		return ""
	}
	return *it.Description
}

// Category groups items under a header.
type Category struct {
	Name  string      `json:"name"`
	Items []*MenuItem `json:"items"`
}

// Metadata describes a parse run.
type Metadata struct {
	SourceURL       string        `json:"source_url"`
	ExtractedAt     time.Time     `json:"extracted_at"`
	ParsingStatus   ParsingStatus `json:"parsing_status"`
	TotalCategories int           `json:"total_categories"`
	TotalItems      int           `json:"total_items"`
	Error           string        `json:"error,omitempty"`
}

// MenuDocument is the parser output. Items holds the same pointers as
// Categories, flattened in input order.
type MenuDocument struct {
	Categories []*Category `json:"categories"`
	Items      []*MenuItem `json:"items"`
	Metadata   Metadata    `json:"metadata"`
}

// CategoryNames lists category names in document order.
func (d *MenuDocument) CategoryNames() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.Categories))
	for _, c := range d.Categories {
		names = append(names, c.Name)
	}
	return names
}

// Failed builds the document returned for unparseable input.
func Failed(sourceURL string, at time.Time) *MenuDocument {
	return &MenuDocument{
		Categories: []*Category{},
		Items:      []*MenuItem{},
		Metadata: Metadata{
			SourceURL:     sourceURL,
			ExtractedAt:   at,
			ParsingStatus: StatusFailed,
			Error:         ErrInvalidInputMessage,
		},
	}
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// FloatPtr returns a pointer to f.
func FloatPtr(f float64) *float64 { return &f }
