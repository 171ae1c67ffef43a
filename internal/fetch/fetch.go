// Package fetch retrieves job postings by URL and reduces them to plain text.
// The text feeds skill suggestions as the job description.
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
	"github.com/rs/zerolog"
)

// Defaults for HTTP fetching
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeBuilder/1.0)"
	DefaultMaxBytes  = 5 << 20
)

// Page is a fetched HTML page
type Page struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching
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

// Renderer loads a page in a browser and returns the rendered HTML
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Fetcher downloads job postings
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	renderer  Renderer
	logger    zerolog.Logger
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithRenderer enables the browser fallback for pages rendered by JavaScript
func WithRenderer(r Renderer) Option {
	return func(f *Fetcher) { f.renderer = r }
}

// WithLogger sets the fetch logger
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Fetcher) { f.logger = logger }
}

// New creates a Fetcher with a DefaultTimeout HTTP client and no browser fallback
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		maxBytes:  DefaultMaxBytes,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Page downloads rawURL. Non-200 responses return the page alongside an Error.
func (f *Fetcher) Page(ctx context.Context, rawURL string) (*Page, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}

	page := &Page{
		URL:         rawURL,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

// JobDescription fetches a posting and returns its text. When the HTTP response
// holds too little text and a Renderer is configured, the page is rendered in a
// browser and extracted again.
func (f *Fetcher) JobDescription(ctx context.Context, rawURL string) (string, error) {
	platform := DetectPlatform(rawURL)
	logger := f.logger.With().Str("url", rawURL).Str("platform", string(platform)).Logger()

	var text string
	page, err := f.Page(ctx, rawURL)
	if err == nil {
		text, err = ExtractMainText(page.HTML, ContentSelectors(platform), NoiseSelectors(platform)...)
		if err != nil {
			return "", &Error{URL: rawURL, Message: "failed to parse page", Cause: err}
		}
	} else if f.renderer == nil {
		return "", err
	}

	if ShouldUseBrowser(text) && f.renderer != nil {
		logger.Info().Int("chars", len(text)).Msg("posting text too short, rendering in browser")
		html, renderErr := f.renderer.Render(ctx, rawURL)
		if renderErr != nil {
			return "", &Error{URL: rawURL, Message: "browser rendering failed", Cause: renderErr}
		}
		text, err = ExtractMainText(html, ContentSelectors(platform), NoiseSelectors(platform)...)
		if err != nil {
			return "", &Error{URL: rawURL, Message: "failed to parse rendered page", Cause: err}
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", &Error{URL: rawURL, Message: "no job description text found"}
	}
	logger.Debug().Int("chars", len(text)).Msg("job description extracted")
	return text, nil
}

// ExtractMainText parses HTML and returns the text of the first element matching
// contentSelectors, falling back to body. Navigation, scripts and noiseSelectors
// are removed first.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .ads, .sidebar, .cookie-banner, .popup").Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	content := doc.Find("body")
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}

	return cleanWhitespace(content.Text()), nil
}

// cleanWhitespace trims every line and drops blank ones
func cleanWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
