package ingestion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is the user agent string for HTTP requests.
	DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeTailor/1.0)"
	// MinContentLength is the extracted text length below which a page is treated as a
	// script-rendered shell and, when allowed, re-rendered in a headless browser.
	MinContentLength = 500
)

// URLOptions configures IngestFromURL
type URLOptions struct {
	Timeout    time.Duration
	UserAgent  string
	UseBrowser bool
	Logger     zerolog.Logger
	// Render overrides the headless browser; nil uses chromedp.
	Render func(ctx context.Context, url string, timeout time.Duration) (string, error)
}

// DefaultURLOptions returns sensible defaults for fetching.
func DefaultURLOptions() URLOptions {
	return URLOptions{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		Logger:    zerolog.Nop(),
		Render:    RenderWithBrowser,
	}
}

// IngestFromURL fetches a job posting, extracts the posting body with platform-specific
// selectors and returns the cleaned text with metadata.
func IngestFromURL(ctx context.Context, urlStr string, opts URLOptions) (string, *Metadata, error) {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Render == nil {
		opts.Render = RenderWithBrowser
	}
	log := opts.Logger

	platform := DetectPlatform(urlStr)
	log.Debug().Str("url", urlStr).Str("platform", string(platform)).Msg("fetching job posting")

	html, err := fetchHTML(ctx, urlStr, opts)
	if err != nil {
		return "", nil, err
	}

	text, err := FromHTML(html, platform)
	if err != nil {
		return "", nil, &FetchError{URL: urlStr, Message: "content extraction failed", Cause: err}
	}

	rendered := false
	if opts.UseBrowser && len(strings.TrimSpace(text)) < MinContentLength {
		log.Debug().Int("chars", len(text)).Msg("content too short, rendering with headless browser")
		browserHTML, renderErr := opts.Render(ctx, urlStr, opts.Timeout)
		switch {
		case renderErr != nil:
			log.Warn().Err(renderErr).Msg("browser rendering failed, using HTTP content")
		default:
			if browserText, extractErr := FromHTML(browserHTML, platform); extractErr == nil {
				text = browserText
				rendered = true
			}
		}
	}

	cleaned := CleanText(text)
	meta := NewMetadata(cleaned, urlStr)
	meta.Platform = platform
	meta.Rendered = rendered
	return cleaned, meta, nil
}

func fetchHTML(ctx context.Context, urlStr string, opts URLOptions) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &FetchError{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: opts.Timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", &FetchError{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: urlStr, StatusCode: resp.StatusCode, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return string(body), nil
}

// RenderWithBrowser renders a page in headless Chrome and returns the resulting HTML.
// Requires Chrome/Chromium to be installed on the system.
func RenderWithBrowser(ctx context.Context, url string, timeout time.Duration) (string, error) {
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
		// Give client-side rendering a moment to fill the posting body
		chromedp.Sleep(3*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}
	return html, nil
}
