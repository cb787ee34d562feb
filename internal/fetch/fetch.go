// Package fetch downloads restaurant pages and isolates the menu markup.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/cognicore/menuparse/pkg/menuparse/extract"
	"github.com/cognicore/menuparse/pkg/menuparse/menu"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent when Options leaves it empty.
const DefaultUserAgent = "Mozilla/5.0 (compatible; menuparse/1.0)"

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 10 << 20

// noiseSelector lists elements that never hold menu content.
const noiseSelector = "script, style, noscript, nav, footer, iframe, form"

// MenuSelectors are tried in order to find the menu container.
var MenuSelectors = []string{
	"#menu",
	".menu",
	"[id*=menu]",
	"[class*=menu-section]",
}

// Result holds a fetched page and the text extracted from it.
type Result struct {
	URL        string
	StatusCode int
	HTML       string // raw response body
	MenuHTML   string // cleaned menu container, or cleaned body when none matched
	Text       string // line-structured text of MenuHTML
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultOptions returns the timeout and user agent used when none are given.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

func (o *Options) withDefaults() *Options {
	out := DefaultOptions()
	if o == nil {
		return out
	}
	if o.Timeout > 0 {
		out.Timeout = o.Timeout
	}
	if o.UserAgent != "" {
		out.UserAgent = o.UserAgent
	}
	return out
}

// URL retrieves a page and extracts its menu text. A non-2xx status returns
// the partial Result together with an *Error.
func URL(ctx context.Context, rawURL string, opts *Options) (*Result, error) {
	opts = opts.withDefaults()

	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: opts.Timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}

	result := &Result{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		HTML:       string(body),
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	if err := result.extract(ctx); err != nil {
		return result, err
	}
	return result, nil
}

func validateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}
	return nil
}

// extract fills MenuHTML and Text from HTML.
func (r *Result) extract(ctx context.Context) error {
	menuHTML, err := MenuHTML(r.HTML)
	if err != nil {
		return &Error{URL: r.URL, Message: "failed to parse HTML", Cause: err}
	}
	r.MenuHTML = menuHTML

	text, err := extract.NewHTMLExtractor().Extract(ctx, menu.RawMenuText{Text: menuHTML, ContentType: menu.ContentHTML})
	if err != nil {
		return &Error{URL: r.URL, Message: "failed to extract text", Cause: err}
	}
	r.Text = text
	return nil
}

// MenuHTML strips noise elements and returns the outer HTML of the first
// menu container, falling back to the body.
func MenuHTML(page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find(noiseSelector).Remove()

	var container *goquery.Selection
	for _, selector := range MenuSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			container = sel.First()
			break
		}
	}
	if container == nil {
		container = doc.Find("body")
	}
	return goquery.OuterHtml(container)
}
