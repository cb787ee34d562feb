// Package extract turns fetched or OCR'd content into the plain text blob
// the parser consumes.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognicore/menuparse/pkg/menuparse/menu"
)

// Extractor converts one kind of raw content to menu text.
type Extractor interface {
	Name() string
	CanHandle(raw menu.RawMenuText) bool
	Extract(ctx context.Context, raw menu.RawMenuText) (string, error)
}

// Error represents an extraction failure
type Error struct {
	Extractor string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extract error (%s): %s: %v", e.Extractor, e.Message, e.Cause)
	}
	return fmt.Sprintf("extract error (%s): %s", e.Extractor, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Registry picks the first extractor able to handle the input.
type Registry struct {
	extractors []Extractor
}

// NewRegistry creates a registry trying extractors in order.
func NewRegistry(extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// Default returns the HTML extractor followed by the plain text one.
func Default() *Registry {
	return NewRegistry(NewHTMLExtractor(), NewTextExtractor())
}

// Extract runs the first matching extractor.
func (r *Registry) Extract(ctx context.Context, raw menu.RawMenuText) (string, error) {
	for _, ex := range r.extractors {
		if ex.CanHandle(raw) {
			return ex.Extract(ctx, raw)
		}
	}
	return "", &Error{Extractor: "registry", Message: fmt.Sprintf("no extractor for content type %q", raw.ContentType)}
}

// LooksLikeHTML reports untagged content that starts with markup.
func LooksLikeHTML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<")
}

// TextExtractor passes OCR and PDF text through with line endings fixed.
type TextExtractor struct{}

// NewTextExtractor creates a pass-through extractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (TextExtractor) Name() string { return "text" }

// CanHandle accepts IMAGE and PDF text, and untagged text that is not HTML.
func (TextExtractor) CanHandle(raw menu.RawMenuText) bool {
	switch raw.ContentType {
	case menu.ContentImage, menu.ContentPDF:
		return true
	case "":
		return !LooksLikeHTML(raw.Text)
	}
	return false
}

func (TextExtractor) Extract(ctx context.Context, raw menu.RawMenuText) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text := strings.ReplaceAll(raw.Text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n"), nil
}
