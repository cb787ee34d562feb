package fetch

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the minimum extracted text length for a plain HTTP
// fetch to count. Shorter pages are likely rendered client-side.
const MinContentLength = 200

// ShouldUseBrowser reports whether text is too short to be a real menu.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// WithBrowser renders a page in headless Chrome and returns the rendered
// HTML. Chrome or Chromium must be installed.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, verbose bool) (string, error) {
	if err := validateURL(url); err != nil {
		return "", err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if verbose {
		log.Printf("[BROWSER] rendering %s", url)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// menu widgets often load after the first paint
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	if verbose {
		log.Printf("[BROWSER] rendered %d bytes", len(html))
	}
	return html, nil
}

// Rendered fetches url over HTTP and falls back to the browser when the
// extracted text is too short. Browser failures keep the HTTP result.
func Rendered(ctx context.Context, url string, opts *Options, verbose bool) (*Result, error) {
	res, err := URL(ctx, url, opts)
	if err != nil {
		return res, err
	}
	if !ShouldUseBrowser(res.Text) {
		return res, nil
	}

	html, berr := WithBrowser(ctx, url, opts.withDefaults().Timeout, verbose)
	if berr != nil {
		log.Printf("browser fallback for %s failed: %v", url, berr)
		return res, nil
	}
	rendered := &Result{URL: url, StatusCode: res.StatusCode, HTML: html}
	if err := rendered.extract(ctx); err != nil {
		return res, nil
	}
	if len(rendered.Text) <= len(res.Text) {
		return res, nil
	}
	return rendered, nil
}
